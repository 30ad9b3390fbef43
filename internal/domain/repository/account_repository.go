// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers
// and the infrastructure layer. Every tenant-scoped operation takes the
// caller's tenant id as its first parameter, so a tenant-less query does
// not typecheck.
package repository

import (
	"context"
	"errors"

	"taskboard/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for account persistence.
var (
	// ErrAccountNotFound is returned when an account lookup misses.
	ErrAccountNotFound = errors.New("account not found")
	// ErrTenantNotFound is returned when a tenant lookup misses.
	ErrTenantNotFound = errors.New("tenant not found")
)

// AccountRepository defines the standard operations for account persistence.
type AccountRepository interface {
	// FindByUsername retrieves an account by its globally unique username.
	// This is the only unscoped lookup: login does not know the tenant yet.
	FindByUsername(ctx context.Context, username string) (*entity.Account, error)

	// FindByID retrieves an account within the given tenant.
	FindByID(ctx context.Context, tenantID, accountID uuid.UUID) (*entity.Account, error)

	// ListByTenant returns accounts of a tenant ordered by id, starting
	// after the lastID cursor (zero value means from the beginning).
	ListByTenant(ctx context.Context, tenantID uuid.UUID, lastID uuid.UUID, limit int) ([]*entity.Account, error)

	// Create persists a new account.
	Create(ctx context.Context, account *entity.Account) error

	// UpdatePasswordHash replaces the stored hash, used by the
	// opportunistic rehash on login.
	UpdatePasswordHash(ctx context.Context, tenantID, accountID uuid.UUID, passwordHash string) error

	// CreateTenant persists a new tenant.
	CreateTenant(ctx context.Context, tenant *entity.Tenant) error
}
