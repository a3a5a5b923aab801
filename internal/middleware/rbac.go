package middleware

import (
	"net/http"

	"caretrack/internal/common"
	"caretrack/internal/repositories"
	"caretrack/internal/services"

	"github.com/labstack/echo/v4"
)

// RequireModule gates a route group behind module access. The user row is
// reloaded on every request so permission edits and deactivation take
// effect without waiting for token expiry.
func RequireModule(userRepo repositories.UserRepository, module string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			userID, ok := common.GetUserIDFromContext(ctx)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing user context")
			}
			user, err := userRepo.GetByID(ctx, userID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
			}
			if !user.IsActive {
				return echo.NewHTTPError(http.StatusForbidden, "Account disabled")
			}
			if !services.CanAccess(user, module) {
				return echo.NewHTTPError(http.StatusForbidden, "Module access denied")
			}
			return next(c)
		}
	}
}
