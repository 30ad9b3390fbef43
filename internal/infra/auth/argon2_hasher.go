// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"taskboard/config"
	"taskboard/internal/domain/service"

	"github.com/pkg/errors"
)

// argon2Params holds the Argon2id parameters used for new hashes.
type argon2Params struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
	saltLength  uint32
	keyLength   uint32
}

var defaultArgon2Params = argon2Params{
	memory:      64 * 1024,
	iterations:  3,
	parallelism: 2,
	saltLength:  16,
	keyLength:   32,
}

// argon2Hasher is a concrete implementation of the PasswordHasher interface
// using Argon2id. The parameters are embedded in every produced hash, so
// verification needs no external parameter store and NeedsRehash can compare
// a stored hash against the current configuration.
type argon2Hasher struct {
	params argon2Params
}

// NewArgon2Hasher is the constructor for argon2Hasher. Missing configuration
// falls back to the package defaults.
func NewArgon2Hasher(cfg *config.Config) service.PasswordHasher {
	params := defaultArgon2Params
	if cfg != nil && cfg.Argon2 != nil {
		a := cfg.Argon2
		if a.Memory > 0 {
			params.memory = a.Memory
		}
		if a.Iterations > 0 {
			params.iterations = a.Iterations
		}
		if a.Parallelism > 0 {
			params.parallelism = a.Parallelism
		}
		if a.SaltLength > 0 {
			params.saltLength = a.SaltLength
		}
		if a.KeyLength > 0 {
			params.keyLength = a.KeyLength
		}
	}

	return &argon2Hasher{params: params}
}

// Hash creates an Argon2id hash of the password in the standard encoded form:
// $argon2id$v=19$m=<memory>,t=<iterations>,p=<parallelism>$<salt>$<hash>
func (h *argon2Hasher) Hash(password string) (string, error) {
	salt := make([]byte, h.params.saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", errors.Wrap(err, "failed to generate salt")
	}

	hash := argon2.IDKey([]byte(password), salt, h.params.iterations, h.params.memory, h.params.parallelism, h.params.keyLength)

	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Hash := base64.RawStdEncoding.EncodeToString(hash)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.params.memory, h.params.iterations, h.params.parallelism, b64Salt, b64Hash)

	return encoded, nil
}

// Verify checks a plaintext password against an encoded Argon2id hash using
// the parameters embedded in the hash, not the configured ones, so hashes
// produced under older settings still verify.
func (h *argon2Hasher) Verify(encodedHash, password string) error {
	params, salt, hash, err := decodeHash(encodedHash)
	if err != nil {
		return err
	}

	comparison := argon2.IDKey([]byte(password), salt, params.iterations, params.memory, params.parallelism, uint32(len(hash)))

	if subtle.ConstantTimeCompare(hash, comparison) != 1 {
		return service.ErrPasswordMismatch
	}

	return nil
}

// NeedsRehash reports whether the stored hash was produced with parameters
// different from the currently configured ones. Unparseable hashes report
// true; the subsequent rehash repairs them.
func (h *argon2Hasher) NeedsRehash(encodedHash string) bool {
	params, _, hash, err := decodeHash(encodedHash)
	if err != nil {
		return true
	}

	return params.memory != h.params.memory ||
		params.iterations != h.params.iterations ||
		params.parallelism != h.params.parallelism ||
		uint32(len(hash)) != h.params.keyLength
}

func decodeHash(encodedHash string) (argon2Params, []byte, []byte, error) {
	var params argon2Params

	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return params, nil, nil, errors.New("invalid hash format: wrong number of segments")
	}
	if parts[1] != "argon2id" {
		return params, nil, nil, errors.New("invalid hash format: not argon2id")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return params, nil, nil, errors.New("invalid hash format: unsupported version")
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.memory, &params.iterations, &params.parallelism); err != nil {
		return params, nil, nil, errors.Wrap(err, "invalid hash format: malformed params")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return params, nil, nil, errors.Wrap(err, "invalid hash format: failed to decode salt")
	}

	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return params, nil, nil, errors.Wrap(err, "invalid hash format: failed to decode hash")
	}

	params.saltLength = uint32(len(salt))
	params.keyLength = uint32(len(hash))

	return params, salt, hash, nil
}
