package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/formgate/accounts-api/internal/api/metrics"
	"github.com/formgate/accounts-api/internal/core/ports"
)

// ContextAccount is the echo context key holding the resolved *domain.Account.
const ContextAccount = "account"

// Auth validates the bearer token and re-resolves the account it names
// against the credential store before the request proceeds; a token whose
// account no longer exists is as good as no token.
func Auth(tokens ports.TokenService, repo ports.AccountRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := tokens.Verify(parts[1])
			if err != nil {
				metrics.TokenVerificationsTotal.WithLabelValues("invalid").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			account, err := repo.FindByID(c.Request().Context(), claims.ID)
			if err != nil {
				metrics.TokenVerificationsTotal.WithLabelValues("invalid").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()
			c.Set(ContextAccount, account)

			return next(c)
		}
	}
}
