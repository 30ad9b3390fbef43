package entity

import "github.com/google/uuid"

// TokenPayload is the claim set embedded in both access and refresh tokens
// and the identity handed to downstream handlers after authorization. Every
// tenant-scoped query must filter by TenantID.
type TokenPayload struct {
	TenantID  uuid.UUID
	AccountID uuid.UUID
	Username  string
}

// RefreshTokenRecord is the server-side proof that a refresh token is still
// valid. The signed token string itself is the primary key; the ledger is a
// revocation list, not a second source of expiry truth, so no expiry is
// replicated here.
type RefreshTokenRecord struct {
	Token string
}
