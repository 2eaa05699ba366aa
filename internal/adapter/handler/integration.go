package handler

import (
	stdErrors "errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/l10-platform/errors"
	integrationDTO "github.com/johnquangdev/l10-platform/internal/adapter/dto/integration"
	"github.com/johnquangdev/l10-platform/internal/domain/entities"
	"github.com/johnquangdev/l10-platform/internal/infrastructure/http/middleware"
	usecaseErrors "github.com/johnquangdev/l10-platform/internal/usecase/errors"
	integrationUsecase "github.com/johnquangdev/l10-platform/internal/usecase/integration"
)

// Slack signs payloads up to a few kilobytes; anything far larger is not an Events API delivery
const maxWebhookBody = 1 << 20

// Integration handles the Slack and Google Calendar connections and the Slack webhook
type Integration struct {
	integrations integrationUsecase.Service
	appURL       string
	logger       *zap.Logger
}

// NewIntegrationHandler creates a new integration handler.
// appURL is the dashboard origin that OAuth callbacks redirect back to.
func NewIntegrationHandler(integrations integrationUsecase.Service, appURL string, logger *zap.Logger) *Integration {
	return &Integration{
		integrations: integrations,
		appURL:       strings.TrimRight(appURL, "/"),
		logger:       logger,
	}
}

func providerParam(c echo.Context) (entities.Provider, error) {
	provider := entities.Provider(c.Param("provider"))
	if !provider.IsValid() {
		return "", errors.ErrInvalidArgument("unsupported provider").WithDetail("provider", string(provider))
	}
	return provider, nil
}

// List handles GET /api/integrations
// @Summary      Integration status
// @Tags         Integrations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  integration.ConnectionsResponse
// @Router       /api/integrations [get]
func (h *Integration) List(c echo.Context) error {
	profile := middleware.CurrentProfile(c)
	conns, err := h.integrations.ListConnections(c.Request().Context(), profile.ID, middleware.CurrentOrganizationID(c))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, integrationDTO.ConnectionsResponse{Integrations: conns})
}

// Connect handles GET /api/integrations/:provider/oauth
// @Summary      Start an OAuth connection
// @Description  Redirects to the provider's consent screen. Clients sending Accept: application/json get the URL instead.
// @Tags         Integrations
// @Produce      json
// @Security     BearerAuth
// @Param        provider  path      string  true  "slack or google-calendar"
// @Success      200       {object}  integration.AuthURLResponse
// @Success      307
// @Failure      400       {object}  common.ErrorResponse
// @Failure      503       {object}  common.ErrorResponse  "Provider credentials are not configured"
// @Router       /api/integrations/{provider}/oauth [get]
func (h *Integration) Connect(c echo.Context) error {
	provider, err := providerParam(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	authURL, err := h.integrations.AuthURL(c.Request().Context(), provider, middleware.CurrentProfile(c).ID, middleware.CurrentOrganizationID(c))
	if err != nil {
		if stdErrors.Is(err, usecaseErrors.ErrProviderNotConfigured) {
			err = errors.ErrIntegrationNotConfigured(string(provider))
		}
		return HandleError(h.logger, c, err)
	}

	if strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON) {
		return HandleSuccess(h.logger, c, http.StatusOK, integrationDTO.AuthURLResponse{URL: authURL})
	}
	return c.Redirect(http.StatusTemporaryRedirect, authURL)
}

// Callback handles GET /api/integrations/:provider/callback
// @Summary      OAuth callback
// @Description  Consumes the state, exchanges the code and redirects to the dashboard settings page with connected=<provider> or error=<code>
// @Tags         Integrations
// @Param        provider  path   string  true   "slack or google-calendar"
// @Param        code      query  string  false  "Authorization code"
// @Param        state     query  string  false  "Signed state"
// @Param        error     query  string  false  "Set by the provider when consent was refused"
// @Success      302
// @Router       /api/integrations/{provider}/callback [get]
func (h *Integration) Callback(c echo.Context) error {
	provider := entities.Provider(c.Param("provider"))
	if !provider.IsValid() {
		return h.redirectSettings(c, "", "unsupported_provider")
	}
	if denied := c.QueryParam("error"); denied != "" {
		h.logger.Info("OAuth consent refused", zap.String("provider", string(provider)), zap.String("reason", denied))
		return h.redirectSettings(c, "", "access_denied")
	}

	code, state := c.QueryParam("code"), c.QueryParam("state")
	if code == "" || state == "" {
		return h.redirectSettings(c, "", "invalid_request")
	}

	ctx := c.Request().Context()
	var err error
	switch provider {
	case entities.ProviderSlack:
		_, err = h.integrations.CompleteSlack(ctx, code, state)
	case entities.ProviderGoogleCalendar:
		_, err = h.integrations.CompleteGoogle(ctx, code, state)
	}
	if err != nil {
		h.logger.Warn("OAuth callback failed",
			zap.String("request_id", getRequestID(c)),
			zap.String("provider", string(provider)),
			zap.Error(err),
		)
		return h.redirectSettings(c, "", callbackErrorCode(err))
	}
	return h.redirectSettings(c, string(provider), "")
}

func callbackErrorCode(err error) string {
	switch {
	case stdErrors.Is(err, usecaseErrors.ErrOAuthStateInvalid):
		return "invalid_state"
	case stdErrors.Is(err, usecaseErrors.ErrOAuthExchangeFailed):
		return "exchange_failed"
	case stdErrors.Is(err, usecaseErrors.ErrProviderNotConfigured):
		return "not_configured"
	default:
		return "internal"
	}
}

func (h *Integration) redirectSettings(c echo.Context, connected, errCode string) error {
	q := url.Values{}
	if connected != "" {
		q.Set("connected", connected)
	}
	if errCode != "" {
		q.Set("error", errCode)
	}
	return c.Redirect(http.StatusFound, h.appURL+"/settings/integrations?"+q.Encode())
}

// Disconnect handles DELETE /api/integrations/:provider
// @Summary      Disconnect an integration
// @Tags         Integrations
// @Security     BearerAuth
// @Param        provider  path  string  true  "slack or google-calendar"
// @Success      204
// @Failure      404  {object}  common.ErrorResponse
// @Router       /api/integrations/{provider} [delete]
func (h *Integration) Disconnect(c echo.Context) error {
	provider, err := providerParam(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	err = h.integrations.Disconnect(c.Request().Context(), provider, middleware.CurrentProfile(c).ID, middleware.CurrentOrganizationID(c))
	if err != nil {
		if stdErrors.Is(err, usecaseErrors.ErrIntegrationNotConnected) {
			err = errors.ErrIntegrationNotConnected(string(provider))
		}
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusNoContent, nil)
}

// CalendarEvents handles GET /api/integrations/google-calendar/events
// @Summary      Upcoming calendar events
// @Tags         Integrations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  integration.EventsResponse
// @Failure      404  {object}  common.ErrorResponse  "Calendar not connected"
// @Router       /api/integrations/google-calendar/events [get]
func (h *Integration) CalendarEvents(c echo.Context) error {
	events, err := h.integrations.UpcomingEvents(c.Request().Context(), middleware.CurrentProfile(c).ID)
	if err != nil {
		if stdErrors.Is(err, usecaseErrors.ErrIntegrationNotConnected) {
			err = errors.ErrIntegrationNotConnected(string(entities.ProviderGoogleCalendar))
		}
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, integrationDTO.EventsResponse{Events: events})
}

// SlackEvents handles POST /api/webhooks/slack/events
// @Summary      Slack Events API webhook
// @Description  Verifies the request signature, answers url_verification and replies to app mentions
// @Tags         Webhooks
// @Accept       json
// @Produce      json
// @Param        X-Slack-Signature          header    string  true  "v0=<hex hmac>"
// @Param        X-Slack-Request-Timestamp  header    string  true  "Unix seconds"
// @Success      200                        {object}  integration.ChallengeResponse
// @Failure      401                        {object}  common.ErrorResponse
// @Router       /api/webhooks/slack/events [post]
func (h *Integration) SlackEvents(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	result, err := h.integrations.HandleSlackEvent(c.Request().Context(), c.Request().Header, body)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if result.Challenge != "" {
		return c.JSON(http.StatusOK, integrationDTO.ChallengeResponse{Challenge: result.Challenge})
	}
	return c.NoContent(http.StatusOK)
}
