package middleware

import (
	"fmt"

	"github.com/johnquangdev/l10-platform/errors"
	"github.com/johnquangdev/l10-platform/internal/domain/entities"
	authMiddleware "github.com/johnquangdev/l10-platform/internal/infrastructure/http/middleware"
	"github.com/labstack/echo/v4"
)

// RequireAccess middleware: only allow profiles holding at least level
func RequireAccess(level entities.AccessLevel) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			profile := authMiddleware.CurrentProfile(c)
			if profile == nil {
				appErr := errors.ErrProfileNotFound()
				return c.JSON(appErr.HTTPCode, appErr.Body())
			}
			if !profile.Can(level) {
				appErr := errors.ErrForbidden(fmt.Sprintf("%s access required", level)).
					WithDetail("access_level", string(profile.AccessLevel))
				return c.JSON(appErr.HTTPCode, appErr.Body())
			}
			return next(c)
		}
	}
}
