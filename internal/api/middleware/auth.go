package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkpress/blog-api/internal/core/domain"
	"github.com/inkpress/blog-api/internal/core/ports"
)

const accessTokenCookie = "accessToken"

// AccessGuard authenticates a request from its access-token cookie and stores
// the resolved user under "user" in the request context. The role inside the
// token is never trusted on its own: the user is re-fetched so role changes
// and deletions take effect immediately.
func AccessGuard(tokens ports.TokenService, users ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(accessTokenCookie)
			if err != nil || cookie.Value == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "no access token provided")
			}

			claims, err := tokens.Verify(cookie.Value, ports.AccessToken)
			if err != nil {
				if err == domain.ErrTokenExpired {
					return echo.NewHTTPError(http.StatusUnauthorized, "access token expired")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
			}

			user, err := users.FindByID(c.Request().Context(), claims.UserID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "user not found")
			}

			c.Set("user", user)
			return next(c)
		}
	}
}
