package middleware

import (
	stdErrors "errors"
	"strings"

	"github.com/google/uuid"
	"github.com/johnquangdev/l10-platform/errors"
	"github.com/johnquangdev/l10-platform/internal/domain/entities"
	"github.com/johnquangdev/l10-platform/internal/usecase/auth"
	usecaseErrors "github.com/johnquangdev/l10-platform/internal/usecase/errors"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	identityKey = "identity"
	profileKey  = "profile"
	orgIDKey    = "organization_id"
)

// EchoAuth returns an Echo middleware that validates the identity-provider token
// and sets "identity" (*auth.Identity) and, when provisioned, "profile" into the context
func EchoAuth(identities auth.Service, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)
			if token == "" {
				return respond(c, errors.ErrUnauthenticated())
			}

			identity, err := identities.Authenticate(c.Request().Context(), token)
			if err != nil {
				if stdErrors.Is(err, usecaseErrors.ErrTokenInvalid) {
					return respond(c, errors.ErrInvalidToken())
				}
				logger.Error("failed to resolve identity", zap.Error(err))
				return respond(c, errors.ErrInternal(err))
			}

			c.Set(identityKey, identity)
			if identity.Profile != nil {
				c.Set(profileKey, identity.Profile)
			}

			return next(c)
		}
	}
}

// RequireOrganization rejects callers whose profile is missing, deactivated
// or not yet attached to an organization
func RequireOrganization() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			profile := CurrentProfile(c)
			if profile == nil {
				return respond(c, errors.ErrProfileNotFound())
			}
			if !profile.IsActive {
				return respond(c, errors.ErrForbidden("Profile is deactivated"))
			}
			if !profile.HasOrganization() {
				return respond(c, errors.ErrOrganizationMissing())
			}

			c.Set(orgIDKey, *profile.OrganizationID)
			return next(c)
		}
	}
}

// CurrentIdentity returns the identity set by EchoAuth
func CurrentIdentity(c echo.Context) *auth.Identity {
	identity, _ := c.Get(identityKey).(*auth.Identity)
	return identity
}

// CurrentProfile returns the caller's profile, or nil before provisioning
func CurrentProfile(c echo.Context) *entities.Profile {
	profile, _ := c.Get(profileKey).(*entities.Profile)
	return profile
}

// CurrentOrganizationID returns the organization set by RequireOrganization
func CurrentOrganizationID(c echo.Context) uuid.UUID {
	orgID, _ := c.Get(orgIDKey).(uuid.UUID)
	return orgID
}

func extractToken(c echo.Context) string {
	// Expected format: "Bearer <token>"
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	// try cookie
	if cookie, err := c.Cookie("access_token"); err == nil {
		return cookie.Value
	}
	return ""
}

func respond(c echo.Context, appErr errors.AppError) error {
	return c.JSON(appErr.HTTPCode, appErr.Body())
}
