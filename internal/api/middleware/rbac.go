package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/expensetrack/accounts-api/internal/core/domain"
)

// RequireRole gates a route behind a minimum authority level, using the
// Admin > UserManager > Regular ordering.
func RequireRole(minimum domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get("role").(domain.Role)
			if !ok || !role.Valid() || !role.AtLeast(minimum) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
