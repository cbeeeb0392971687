package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/inkpress/blog-api/internal/core/domain"
)

// userContextKey is where the access-guard middleware stores the resolved user.
const userContextKey = "user"

// currentUser returns the authenticated user placed in the request context by
// the access guard. Handlers behind the guard can rely on it being present.
func currentUser(c echo.Context) (*domain.User, error) {
	user, ok := c.Get(userContextKey).(*domain.User)
	if !ok || user == nil {
		return nil, domain.ErrUnauthenticated
	}
	return user, nil
}
