package postgres

import (
	"context"

	"taskboard/internal/domain/entity"
	domainerrors "taskboard/internal/domain/errors"
	"taskboard/internal/domain/repository"
	"taskboard/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// accountRepository implements the domain.AccountRepository interface.
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository is the constructor for accountRepository.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

// FindByUsername retrieves an account by its globally unique username. This
// is the single unscoped lookup in the repository: login resolves the tenant
// from the account, not the other way around.
func (repo *accountRepository) FindByUsername(ctx context.Context, username string) (*entity.Account, error) {
	var accountM model.AccountModel

	err := repo.db.WithContext(ctx).
		Where("username = ?", username).
		First(&accountM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toAccountDomain(&accountM), nil
}

// FindByID retrieves an account within the given tenant. An id that exists
// under another tenant misses exactly like an absent one.
func (repo *accountRepository) FindByID(ctx context.Context, tenantID, accountID uuid.UUID) (*entity.Account, error) {
	var accountM model.AccountModel

	err := repo.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, accountID).
		First(&accountM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toAccountDomain(&accountM), nil
}

// ListByTenant returns accounts of a tenant in id order, resuming after the
// lastID cursor when it is non-zero.
func (repo *accountRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID, lastID uuid.UUID, limit int) ([]*entity.Account, error) {
	tx := repo.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID)

	if lastID != uuid.Nil {
		tx = tx.Where("id > ?", lastID)
	}

	var accountModels []*model.AccountModel
	if err := tx.Order("id").Limit(limit).Find(&accountModels).Error; err != nil {
		return nil, errors.WithStack(err)
	}

	accounts := make([]*entity.Account, 0, len(accountModels))
	for _, accountM := range accountModels {
		accounts = append(accounts, toAccountDomain(accountM))
	}

	return accounts, nil
}

// Create persists a new account.
func (repo *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	accountM := fromAccountDomain(account)

	if err := repo.db.WithContext(ctx).Create(accountM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrUserAlreadyExists.WrapMessage("username or email already taken")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrInternalError.WrapMessage("invalid tenant reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create account")
	}

	// Propagate database-generated values back to the entity.
	account.ID = accountM.ID
	account.CreatedAt = accountM.CreatedAt

	return nil
}

// UpdatePasswordHash replaces the stored hash for an account. Used by the
// opportunistic rehash on login.
func (repo *accountRepository) UpdatePasswordHash(ctx context.Context, tenantID, accountID uuid.UUID, passwordHash string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.AccountModel{}).
		Where("tenant_id = ? AND id = ?", tenantID, accountID).
		Update("password_hash", passwordHash)

	if result.Error != nil {
		return errors.WithStack(result.Error)
	}

	if result.RowsAffected == 0 {
		return repository.ErrAccountNotFound
	}

	return nil
}

// CreateTenant persists a new tenant.
func (repo *accountRepository) CreateTenant(ctx context.Context, tenant *entity.Tenant) error {
	tenantM := &model.TenantModel{
		ID:   tenant.ID,
		Name: tenant.Name,
	}

	if err := repo.db.WithContext(ctx).Create(tenantM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrConflict.WrapMessage("tenant name already taken")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create tenant")
	}

	tenant.ID = tenantM.ID
	tenant.CreatedAt = tenantM.CreatedAt

	return nil
}

// --- Mapper Functions ---

// toAccountDomain converts a GORM AccountModel to a domain Account entity.
func toAccountDomain(data *model.AccountModel) *entity.Account {
	if data == nil {
		return nil
	}

	return &entity.Account{
		ID:           data.ID,
		TenantID:     data.TenantID,
		Username:     data.Username,
		Email:        data.Email,
		FullName:     data.FullName,
		PasswordHash: data.PasswordHash,
		CreatedAt:    data.CreatedAt,
	}
}

// fromAccountDomain converts a domain Account entity to a GORM AccountModel.
func fromAccountDomain(data *entity.Account) *model.AccountModel {
	if data == nil {
		return nil
	}

	return &model.AccountModel{
		ID:           data.ID,
		TenantID:     data.TenantID,
		Username:     data.Username,
		Email:        data.Email,
		FullName:     data.FullName,
		PasswordHash: data.PasswordHash,
		CreatedAt:    data.CreatedAt,
	}
}
