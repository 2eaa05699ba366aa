package handler

import (
	stdErrors "errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/l10-platform/errors"
	usecaseErrors "github.com/johnquangdev/l10-platform/internal/usecase/errors"
	"github.com/johnquangdev/l10-platform/pkg/validator"
)

// getRequestID returns the id assigned by the RequestID middleware, falling back to the inbound header
func getRequestID(c echo.Context) string {
	if c == nil {
		return ""
	}
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}

// HandleSuccess writes data as the JSON response body
func HandleSuccess(logger *zap.Logger, c echo.Context, status int, data interface{}) error {
	if logger != nil {
		logger.Debug("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
			zap.Int("status", status),
		)
	}
	if data == nil {
		return c.NoContent(status)
	}
	return c.JSON(status, data)
}

// HandleError centralizes error handling and logging. Raw errors are logged, never returned.
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	appErr := toAppError(err)

	if logger != nil {
		fields := []zap.Field{
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
			zap.Stringer("app_code", appErr.Code),
			zap.Error(err),
		}
		if appErr.HTTPCode >= http.StatusInternalServerError {
			logger.Error("http.response.error", fields...)
		} else {
			logger.Warn("http.response.error", fields...)
		}
	}

	return c.JSON(appErr.HTTPCode, appErr.Body())
}

// toAppError maps usecase errors onto the HTTP error model
func toAppError(err error) errors.AppError {
	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		return appErr
	}

	var stateErr *usecaseErrors.StateError
	if stdErrors.As(err, &stateErr) {
		return errors.ErrInvalidMeetingState(stateErr.Error(), stateErr.Status)
	}
	var invalid *usecaseErrors.InvalidInputError
	if stdErrors.As(err, &invalid) {
		return errors.ErrInvalidArgument(invalid.Message)
	}
	var notFound *usecaseErrors.NotFoundError
	if stdErrors.As(err, &notFound) {
		return errors.ErrNotFound(notFound.Resource)
	}

	switch {
	case stdErrors.Is(err, usecaseErrors.ErrMeetingNotFound):
		return errors.ErrMeetingNotFound()
	case stdErrors.Is(err, usecaseErrors.ErrAgendaItemNotFound):
		return errors.ErrAgendaItemNotFound()
	case stdErrors.Is(err, usecaseErrors.ErrIssueNotFound):
		return errors.ErrIssueNotFound()
	case stdErrors.Is(err, usecaseErrors.ErrMeetingNotEditable),
		stdErrors.Is(err, usecaseErrors.ErrMeetingInProgress):
		return errors.ErrInvalidArgument(err.Error())
	case stdErrors.Is(err, usecaseErrors.ErrTokenInvalid):
		return errors.ErrInvalidToken()
	case stdErrors.Is(err, usecaseErrors.ErrUnauthorized):
		return errors.ErrUnauthenticated()
	case stdErrors.Is(err, usecaseErrors.ErrProfileNotFound):
		return errors.ErrProfileNotFound()
	case stdErrors.Is(err, usecaseErrors.ErrOrganizationMissing):
		return errors.ErrOrganizationMissing()
	case stdErrors.Is(err, usecaseErrors.ErrForbidden):
		return errors.ErrForbidden("Insufficient access level")
	case stdErrors.Is(err, usecaseErrors.ErrOAuthStateInvalid):
		return errors.ErrOAuthStateInvalid()
	case stdErrors.Is(err, usecaseErrors.ErrOAuthExchangeFailed):
		return errors.ErrOAuthExchangeFailed("the provider", err)
	case stdErrors.Is(err, usecaseErrors.ErrProviderNotConfigured):
		return errors.ErrIntegrationNotConfigured("Integration")
	case stdErrors.Is(err, usecaseErrors.ErrUnsupportedProvider):
		return errors.ErrInvalidArgument("unsupported provider")
	case stdErrors.Is(err, usecaseErrors.ErrIntegrationNotConnected):
		return errors.ErrIntegrationNotConnected("Integration")
	case stdErrors.Is(err, usecaseErrors.ErrSignatureInvalid):
		return errors.ErrWebhookSignatureInvalid()
	case stdErrors.Is(err, usecaseErrors.ErrAlreadyExists):
		return errors.ErrAlreadyExists("Resource")
	case stdErrors.Is(err, usecaseErrors.ErrConflict):
		return errors.ErrConflict(err.Error())
	case stdErrors.Is(err, usecaseErrors.ErrNotFound):
		return errors.ErrNotFound("Resource")
	case stdErrors.Is(err, usecaseErrors.ErrInvalidInput):
		return errors.ErrInvalidArgument(err.Error())
	}
	return errors.ErrInternal(err)
}

// bind decodes the request into req and runs the registered validator
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errors.ErrInvalidPayload().WithDetail("reason", bindReason(err))
	}
	if err := c.Validate(req); err != nil {
		appErr := errors.ErrInvalidArgument("Validation failed")
		appErr.Details = validator.Describe(err)
		return appErr
	}
	return nil
}

func bindReason(err error) string {
	var he *echo.HTTPError
	if stdErrors.As(err, &he) {
		return fmt.Sprint(he.Message)
	}
	return err.Error()
}

// pathID parses a UUID path parameter
func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, errors.ErrInvalidArgument(fmt.Sprintf("%s must be a valid UUID", name))
	}
	return id, nil
}

// optionalID parses an optional UUID query value already checked by the validator
func optionalID(value string) *uuid.UUID {
	if value == "" {
		return nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return nil
	}
	return &id
}
