package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkpress/blog-api/internal/core/ports"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

// setSessionCookies writes both session tokens as http-only, same-site-strict
// cookies whose max-age matches each token's lifetime. secure should be false
// only in local development.
func setSessionCookies(c echo.Context, pair *ports.TokenPair, secure bool) {
	c.SetCookie(sessionCookie(accessTokenCookie, pair.AccessToken, int(pair.AccessTTL.Seconds()), secure))
	c.SetCookie(sessionCookie(refreshTokenCookie, pair.RefreshToken, int(pair.RefreshTTL.Seconds()), secure))
}

// clearSessionCookies removes both session cookies.
func clearSessionCookies(c echo.Context, secure bool) {
	clearCookie(c, accessTokenCookie, secure)
	clearCookie(c, refreshTokenCookie, secure)
}

func clearCookie(c echo.Context, name string, secure bool) {
	// Negative MaxAge deletes the cookie.
	c.SetCookie(sessionCookie(name, "", -1, secure))
}

func sessionCookie(name, value string, maxAge int, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
}
