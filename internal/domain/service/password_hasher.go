// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

import "errors"

// ErrPasswordMismatch is returned by Verify when the password does not match
// the stored hash. Malformed hashes produce a different error so callers can
// tell forged input from operator error.
var ErrPasswordMismatch = errors.New("password does not match hash")

// PasswordHasher defines the interface for password hashing and verification.
// This abstracts the underlying algorithm (Argon2id), keeping the domain pure.
type PasswordHasher interface {
	// Hash generates a salted hash from a plaintext password. The hashing
	// parameters are embedded in the output string.
	Hash(password string) (string, error)

	// Verify compares a plaintext password with an encoded hash. Returns
	// ErrPasswordMismatch when they don't match.
	Verify(encodedHash, password string) error

	// NeedsRehash reports whether the hash was produced with parameters
	// weaker than (or different from) the currently configured ones.
	NeedsRehash(encodedHash string) bool
}
