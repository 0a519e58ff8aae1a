package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/formgate/accounts-api/internal/core/domain"
)

// RBAC enforces role-based access control over the account resolved by Auth.
// A request without a resolved account is treated as unauthenticated, not
// forbidden.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			account, ok := c.Get(ContextAccount).(*domain.Account)
			if !ok || account == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}

			for _, role := range allowedRoles {
				if account.HasRole(role) {
					return next(c)
				}
			}

			return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
		}
	}
}
