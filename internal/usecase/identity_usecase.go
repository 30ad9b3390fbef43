// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"taskboard/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new tenant together
// with its first account.
type RegisterInput struct {
	TenantName string
	Username   string
	Email      string
	FullName   string
	Password   string
}

// LoginInput defines the data required for an account to log in.
type LoginInput struct {
	Username string
	Password string
}

// RefreshInput carries the refresh token presented for rotation.
type RefreshInput struct {
	RefreshToken string
}

// LogoutInput carries the refresh token to revoke.
type LogoutInput struct {
	RefreshToken string
}

// ListAccountsInput pages through the caller's tenant accounts.
type ListAccountsInput struct {
	TenantID uuid.UUID
	LastID   uuid.UUID
	Limit    int
}

// --- Output DTOs ---

// RegisterOutput returns the newly created tenant and its first account.
type RegisterOutput struct {
	Tenant  *entity.Tenant
	Account *entity.Account
}

// LoginOutput returns the generated token pair after a successful login.
type LoginOutput struct {
	AccessToken  string
	RefreshToken string
	Account      *entity.Account
}

// RefreshOutput returns the rotated token pair. The refresh token presented
// by the caller is no longer valid once this is returned.
type RefreshOutput struct {
	AccessToken  string
	RefreshToken string
}

// IdentityUsecase defines the interface for identity-related business
// operations. This is the contract the delivery layer depends on.
type IdentityUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)
	Refresh(ctx context.Context, input *RefreshInput) (*RefreshOutput, error)
	Logout(ctx context.Context, input *LogoutInput) error
	Me(ctx context.Context, tenantID, accountID uuid.UUID) (*entity.Account, error)
	ListAccounts(ctx context.Context, input *ListAccountsInput) ([]*entity.Account, error)
}
