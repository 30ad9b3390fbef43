package repository

import (
	"context"
	"errors"
)

// ErrRefreshTokenNotFound is returned when a refresh token is absent from
// the ledger, either never issued or already revoked.
var ErrRefreshTokenNotFound = errors.New("refresh token not found in ledger")

// LedgerRepository tracks the set of currently-valid refresh tokens. The
// signed token string is the primary key, so two rows can never collide as
// long as token issuance guarantees uniqueness (jti). A delete that affects
// zero rows reports ErrRefreshTokenNotFound; under concurrent refresh and
// logout of the same token, whichever transaction commits first wins and
// the loser observes that error.
type LedgerRepository interface {
	// Insert records a freshly issued refresh token.
	Insert(ctx context.Context, token string) error

	// Delete revokes the token. Deleting an absent token returns
	// ErrRefreshTokenNotFound; revocation is deliberately not idempotent
	// so client double-submits are detectable.
	Delete(ctx context.Context, token string) error
}
