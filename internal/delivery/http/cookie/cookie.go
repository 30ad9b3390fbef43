// Package cookie centralizes the auth cookie policy shared by the identity
// handlers and the request authorizer.
package cookie

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	// AccessTokenName is the cookie carrying the access token. It is only
	// issued outside production, where browser clients talk to the API
	// without a token-aware frontend in between.
	AccessTokenName = "access_token"

	// RefreshTokenName is the cookie carrying the refresh token.
	RefreshTokenName = "refresh_token"
)

// SetAccessToken issues the access token cookie. Lax so that top-level
// navigation to the API keeps working in development setups.
func SetAccessToken(c echo.Context, token string, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     AccessTokenName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SetRefreshToken issues the refresh token cookie. Strict: the refresh token
// must never ride along on cross-site requests.
func SetRefreshToken(c echo.Context, token string, maxAge time.Duration, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     RefreshTokenName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Clear expires both auth cookies on the response.
func Clear(c echo.Context) {
	for _, name := range []string{AccessTokenName, RefreshTokenName} {
		c.SetCookie(&http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
		})
	}
}

// ReadRefreshToken returns the refresh token cookie value, or empty when the
// cookie is absent.
func ReadRefreshToken(c echo.Context) string {
	ck, err := c.Cookie(RefreshTokenName)
	if err != nil || ck == nil {
		return ""
	}

	return ck.Value
}

// ReadAccessToken returns the access token cookie value, or empty when the
// cookie is absent.
func ReadAccessToken(c echo.Context) string {
	ck, err := c.Cookie(AccessTokenName)
	if err != nil || ck == nil {
		return ""
	}

	return ck.Value
}
