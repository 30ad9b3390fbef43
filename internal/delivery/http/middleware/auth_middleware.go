package middleware

import (
	"strings"

	"taskboard/internal/delivery/http/cookie"
	domainerrors "taskboard/internal/domain/errors"
	"taskboard/internal/domain/service"
	"taskboard/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// Context keys set by the authorizer for handlers to read.
const (
	keyTenantID  = "tenantID"
	keyAccountID = "accountID"
	keyUsername  = "username"
)

// AuthMiddleware guards routes with the access token. The token is looked up
// in the access_token cookie first and falls back to a Bearer Authorization
// header, so both browser sessions and API clients work.
type AuthMiddleware struct {
	tokenCodec service.TokenCodec
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenCodec service.TokenCodec) *AuthMiddleware {
	return &AuthMiddleware{tokenCodec: tokenCodec}
}

// Authenticate validates the access token and stores the caller's identity
// on the context. Any failure expires both auth cookies so a browser with a
// stale session is cleaned up by the very response that rejects it.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenString := cookie.ReadAccessToken(c)
		if tokenString == "" {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				tokenString = ""
			}
		}

		if tokenString == "" {
			cookie.Clear(c)

			return domainerrors.ErrUnauthorized.WrapMessage("authentication credentials were not provided")
		}

		// The codec distinguishes an elapsed exp from a bad signature; the
		// error is returned as-is so the central handler can report
		// TOKEN_EXPIRED and TOKEN_INVALID as different 401 bodies.
		payload, err := m.tokenCodec.VerifyAccess(tokenString)
		if err != nil {
			cookie.Clear(c)

			return errors.WithStack(err)
		}

		c.Set(keyTenantID, payload.TenantID)
		c.Set(keyAccountID, payload.AccountID)
		c.Set(keyUsername, payload.Username)

		return next(c)
	}
}

// GetActor reads the authenticated caller from the context. It must only be
// called on routes behind Authenticate.
func GetActor(c echo.Context) usecase.Actor {
	actor := usecase.Actor{}
	if tenantID, ok := c.Get(keyTenantID).(uuid.UUID); ok {
		actor.TenantID = tenantID
	}
	if accountID, ok := c.Get(keyAccountID).(uuid.UUID); ok {
		actor.AccountID = accountID
	}

	return actor
}
