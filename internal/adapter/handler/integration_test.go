package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/l10-platform/internal/domain/entities"
	"github.com/johnquangdev/l10-platform/internal/infrastructure/external/gcal"
	usecaseErrors "github.com/johnquangdev/l10-platform/internal/usecase/errors"
	integrationUsecase "github.com/johnquangdev/l10-platform/internal/usecase/integration"
)

type fakeIntegrations struct {
	integrationUsecase.Service
	err       error
	completed []string
	body      []byte
	signature string
}

func (f *fakeIntegrations) AuthURL(_ context.Context, provider entities.Provider, profileID, orgID uuid.UUID) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "https://slack.com/oauth/v2/authorize?state=abc&org=" + orgID.String(), nil
}

func (f *fakeIntegrations) CompleteSlack(_ context.Context, code, state string) (*entities.SlackWorkspace, error) {
	f.completed = append(f.completed, "slack:"+code+":"+state)
	if f.err != nil {
		return nil, f.err
	}
	return &entities.SlackWorkspace{}, nil
}

func (f *fakeIntegrations) CompleteGoogle(_ context.Context, code, state string) (*entities.CalendarConnection, error) {
	f.completed = append(f.completed, "google-calendar:"+code+":"+state)
	if f.err != nil {
		return nil, f.err
	}
	return &entities.CalendarConnection{}, nil
}

func (f *fakeIntegrations) HandleSlackEvent(_ context.Context, header http.Header, body []byte) (*integrationUsecase.EventResult, error) {
	f.body = body
	f.signature = header.Get("X-Slack-Signature")
	if f.signature != "v0=good" {
		return nil, usecaseErrors.ErrSignatureInvalid
	}
	if strings.Contains(string(body), "url_verification") {
		return &integrationUsecase.EventResult{Challenge: "3eZbrw1aBm2rZgRNFdxV2595E9CY3gmdALWMmHkvFXO7tYXAYM8P", Handled: true}, nil
	}
	return &integrationUsecase.EventResult{Handled: true}, nil
}

func (f *fakeIntegrations) UpcomingEvents(context.Context, uuid.UUID) ([]gcal.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []gcal.Event{{ID: "evt-1", Summary: "Weekly L10"}}, nil
}

func TestConnect(t *testing.T) {
	e := newTestServer(newProfile(entities.AccessMember), services{integrations: &fakeIntegrations{}})

	rec := do(e, http.MethodGet, "/api/integrations/slack/oauth", "")
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderLocation), "https://slack.com/oauth/v2/authorize"))

	req := httptest.NewRequest(http.MethodGet, "/api/integrations/slack/oauth", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+goodToken)
	req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"url":"https://slack.com/oauth/v2/authorize?state=abc`)
}

func TestConnect_Errors(t *testing.T) {
	e := newTestServer(newProfile(entities.AccessMember), services{integrations: &fakeIntegrations{err: usecaseErrors.ErrProviderNotConfigured}})

	rec := do(e, http.MethodGet, "/api/integrations/google-calendar/oauth", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "INTEGRATION_NOT_CONFIGURED", body.Code)
	assert.Equal(t, "google-calendar is not configured on this server", body.Error)

	rec = do(e, http.MethodGet, "/api/integrations/teams/oauth", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "teams", decodeError(t, rec).Details["provider"])
}

func TestCallback(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		err       error
		location  string
		completed int
	}{
		{"slack connected", "/api/integrations/slack/callback?code=c1&state=s1", nil,
			"http://app.test/settings/integrations?connected=slack", 1},
		{"calendar connected", "/api/integrations/google-calendar/callback?code=c1&state=s1", nil,
			"http://app.test/settings/integrations?connected=google-calendar", 1},
		{"consent refused", "/api/integrations/slack/callback?error=access_denied&state=s1", nil,
			"http://app.test/settings/integrations?error=access_denied", 0},
		{"missing code", "/api/integrations/slack/callback?state=s1", nil,
			"http://app.test/settings/integrations?error=invalid_request", 0},
		{"unknown provider", "/api/integrations/zoom/callback?code=c1&state=s1", nil,
			"http://app.test/settings/integrations?error=unsupported_provider", 0},
		{"replayed state", "/api/integrations/slack/callback?code=c1&state=s1", usecaseErrors.ErrOAuthStateInvalid,
			"http://app.test/settings/integrations?error=invalid_state", 1},
		{"exchange failed", "/api/integrations/google-calendar/callback?code=c1&state=s1",
			fmt.Errorf("%w: invalid_grant", usecaseErrors.ErrOAuthExchangeFailed),
			"http://app.test/settings/integrations?error=exchange_failed", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			integrations := &fakeIntegrations{err: tt.err}
			e := newTestServer(nil, services{integrations: integrations})

			// no bearer token: the provider redirects the browser here
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, tt.location, rec.Header().Get(echo.HeaderLocation))
			assert.Len(t, integrations.completed, tt.completed)
		})
	}
}

func TestCalendarEvents(t *testing.T) {
	e := newTestServer(newProfile(entities.AccessViewer), services{integrations: &fakeIntegrations{}})
	rec := do(e, http.MethodGet, "/api/integrations/google-calendar/events", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"summary":"Weekly L10"`)

	e = newTestServer(newProfile(entities.AccessViewer), services{integrations: &fakeIntegrations{err: usecaseErrors.ErrIntegrationNotConnected}})
	rec = do(e, http.MethodGet, "/api/integrations/google-calendar/events", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "INTEGRATION_NOT_CONNECTED", decodeError(t, rec).Code)
}

func slackRequest(body, signature string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/slack/events", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("X-Slack-Signature", signature)
	req.Header.Set("X-Slack-Request-Timestamp", "1531420618")
	return req
}

func TestSlackEvents(t *testing.T) {
	integrations := &fakeIntegrations{}
	e := newTestServer(nil, services{integrations: integrations})

	challenge := `{"token":"x","challenge":"3eZbrw1aBm2rZgRNFdxV2595E9CY3gmdALWMmHkvFXO7tYXAYM8P","type":"url_verification"}`
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, slackRequest(challenge, "v0=good"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"challenge":"3eZbrw1aBm2rZgRNFdxV2595E9CY3gmdALWMmHkvFXO7tYXAYM8P"}`, rec.Body.String())
	assert.Equal(t, challenge, string(integrations.body))

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, slackRequest(`{"type":"event_callback","event_id":"Ev1"}`, "v0=good"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, slackRequest(challenge, "v0=forged"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "WEBHOOK_SIGNATURE_INVALID", decodeError(t, rec).Code)
}

func TestSlackEvents_BodyIsCapped(t *testing.T) {
	integrations := &fakeIntegrations{}
	e := newTestServer(nil, services{integrations: integrations})

	huge := strings.Repeat("a", maxWebhookBody+512)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, slackRequest(huge, "v0=good"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, integrations.body, maxWebhookBody)
}
