// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"taskboard/config"
	"taskboard/internal/domain/entity"
	domainerrors "taskboard/internal/domain/errors"
	"taskboard/internal/domain/service"
)

// tokenClaims is the wire form of entity.TokenPayload plus the registered
// JWT claims (iat, exp, jti).
type tokenClaims struct {
	TenantID  uuid.UUID `json:"tenant_id"`
	AccountID uuid.UUID `json:"account_id"`
	Username  string    `json:"username"`
	jwt.RegisteredClaims
}

// jwtCodec is a concrete implementation of the TokenCodec interface using
// HS256-signed JWTs. Access and refresh tokens are signed with distinct
// secrets. Expiry claims are attached only in production mode; development
// tokens are deliberately unbounded in time.
type jwtCodec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	enforceExpiry bool
}

// NewJWTCodec is the constructor for jwtCodec. Both secrets must be present;
// a missing secret is a startup failure, not a runtime one.
func NewJWTCodec(cfg *config.Config) (service.TokenCodec, error) {
	if cfg.SecretKey.Access == "" || cfg.SecretKey.Refresh == "" {
		return nil, errors.New("jwt secrets must be provided")
	}

	return &jwtCodec{
		accessSecret:  []byte(cfg.SecretKey.Access),
		refreshSecret: []byte(cfg.SecretKey.Refresh),
		accessTTL:     cfg.Auth.AccessTokenExpiry,
		refreshTTL:    cfg.Auth.RefreshTokenExpiry,
		enforceExpiry: cfg.IsProduction(),
	}, nil
}

// SignAccess creates an access token for the given payload.
func (c *jwtCodec) SignAccess(payload entity.TokenPayload) (string, error) {
	return c.sign(payload, c.accessSecret, c.accessTTL, "")
}

// SignRefresh creates a refresh token for the given payload. The jti claim
// makes every refresh token unique even for the same identity in the same
// second. The ledger's primary key is the token string, so collisions must
// be impossible by construction.
func (c *jwtCodec) SignRefresh(payload entity.TokenPayload) (string, error) {
	return c.sign(payload, c.refreshSecret, c.refreshTTL, uuid.New().String())
}

// VerifyAccess checks an access token's signature and, when present, expiry.
func (c *jwtCodec) VerifyAccess(token string) (*entity.TokenPayload, error) {
	return c.verify(token, c.accessSecret)
}

// VerifyRefresh checks a refresh token's signature and, when present, expiry.
func (c *jwtCodec) VerifyRefresh(token string) (*entity.TokenPayload, error) {
	return c.verify(token, c.refreshSecret)
}

// RefreshTokenDuration returns the configured refresh token lifetime.
func (c *jwtCodec) RefreshTokenDuration() time.Duration {
	return c.refreshTTL
}

func (c *jwtCodec) sign(payload entity.TokenPayload, secret []byte, ttl time.Duration, jti string) (string, error) {
	now := time.Now()

	claims := tokenClaims{
		TenantID:  payload.TenantID,
		AccountID: payload.AccountID,
		Username:  payload.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
			ID:       jti,
		},
	}
	if c.enforceExpiry {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}

// verify checks the signature first, then expiry, and maps the two outcomes
// to distinct domain errors so callers can tell "log in again" apart from
// "malformed or forged token". The HMAC comparison inside jwt is constant
// time.
func (c *jwtCodec) verify(token string, secret []byte) (*entity.TokenPayload, error) {
	claims := new(tokenClaims)

	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domainerrors.ErrTokenExpired.WrapMessage("token expired")
		}

		return nil, domainerrors.ErrTokenInvalid.WrapMessage("token verification failed")
	}

	return &entity.TokenPayload{
		TenantID:  claims.TenantID,
		AccountID: claims.AccountID,
		Username:  claims.Username,
	}, nil
}
