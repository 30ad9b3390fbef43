package service

import (
	"time"

	"taskboard/internal/domain/entity"
)

// TokenCodec signs and verifies the access/refresh token pair. Access and
// refresh tokens use distinct secrets; verification of one never accepts the
// other. The codec is stateless; refresh-token revocation lives in the
// ledger, not here.
type TokenCodec interface {
	// SignAccess creates an access token carrying the payload.
	SignAccess(payload entity.TokenPayload) (string, error)

	// SignRefresh creates a refresh token carrying the payload plus a
	// random jti, so two refresh tokens issued in the same second for the
	// same identity are never equal.
	SignRefresh(payload entity.TokenPayload) (string, error)

	// VerifyAccess checks an access token. Expired tokens yield
	// domainerrors.ErrTokenExpired, anything else that fails yields
	// domainerrors.ErrTokenInvalid.
	VerifyAccess(token string) (*entity.TokenPayload, error)

	// VerifyRefresh checks a refresh token with the same error contract
	// as VerifyAccess.
	VerifyRefresh(token string) (*entity.TokenPayload, error)

	// RefreshTokenDuration returns the configured refresh token lifetime.
	RefreshTokenDuration() time.Duration
}
