package postgres

import (
	"context"

	domainerrors "taskboard/internal/domain/errors"
	"taskboard/internal/domain/repository"
	"taskboard/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ledgerRepository implements the domain.LedgerRepository interface. The
// table holds one row per live refresh token, keyed by the signed token
// string itself.
type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository is the constructor for ledgerRepository.
func NewLedgerRepository(db *gorm.DB) repository.LedgerRepository {
	return &ledgerRepository{db: db}
}

// Insert records a freshly issued refresh token.
func (repo *ledgerRepository) Insert(ctx context.Context, token string) error {
	entry := &model.LedgerEntryModel{Token: token}

	if err := repo.db.WithContext(ctx).Create(entry).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			// Token issuance embeds a random jti, so a duplicate here means
			// the same signed token was inserted twice.
			return domainerrors.ErrConflict.WrapMessage("refresh token already recorded")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to record refresh token")
	}

	return nil
}

// Delete revokes the token. Revocation is not idempotent: deleting an absent
// token reports ErrRefreshTokenNotFound so double-submits surface to the
// caller.
func (repo *ledgerRepository) Delete(ctx context.Context, token string) error {
	result := repo.db.WithContext(ctx).
		Where("token = ?", token).
		Delete(&model.LedgerEntryModel{})

	if result.Error != nil {
		return errors.WithStack(result.Error)
	}

	if result.RowsAffected == 0 {
		return repository.ErrRefreshTokenNotFound
	}

	return nil
}
