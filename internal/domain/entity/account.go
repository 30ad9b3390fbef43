// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is the isolation boundary of the system. Every account, workspace,
// group and task belongs to exactly one tenant and must never be visible or
// mutable across tenant boundaries.
type Tenant struct {
	ID        uuid.UUID // The unique ID of the tenant.
	Name      string    // Display name, e.g. the customer's organization name.
	CreatedAt time.Time
}

// Account is an identity within a tenant. Usernames and emails are unique
// globally (login does not know the tenant up front), the tenant id is
// immutable after creation.
type Account struct {
	ID           uuid.UUID // The unique ID of the account, assigned on creation.
	TenantID     uuid.UUID // The owning tenant. Never changes.
	Username     string    // Globally unique login name.
	Email        string    // Globally unique contact address.
	FullName     string
	PasswordHash string // Argon2id encoded hash, parameters embedded.
	CreatedAt    time.Time
}
