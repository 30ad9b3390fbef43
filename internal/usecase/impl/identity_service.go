// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	"taskboard/config"
	deliverycontext "taskboard/internal/delivery/context"
	"taskboard/internal/domain/entity"
	domainerrors "taskboard/internal/domain/errors"
	"taskboard/internal/domain/repository"
	"taskboard/internal/domain/service"
	"taskboard/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// identityService implements the IdentityUsecase interface.
type identityService struct {
	txManager   repository.TransactionManager
	accountRepo repository.AccountRepository
	ledgerRepo  repository.LedgerRepository
	hasher      service.PasswordHasher
	tokenCodec  service.TokenCodec
	logger      *slog.Logger
}

// IdentityServiceParams holds dependencies for identityService, injected by Fx.
type IdentityServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	AccountRepo repository.AccountRepository
	LedgerRepo  repository.LedgerRepository
	Hasher      service.PasswordHasher
	TokenCodec  service.TokenCodec
	Config      *config.Config
	Logger      *slog.Logger
}

// NewIdentityService is the constructor for identityService. It receives all
// dependencies as interfaces.
func NewIdentityService(params IdentityServiceParams) usecase.IdentityUsecase {
	return &identityService{
		txManager:   params.TxManager,
		accountRepo: params.AccountRepo,
		ledgerRepo:  params.LedgerRepo,
		hasher:      params.Hasher,
		tokenCodec:  params.TokenCodec,
		logger:      params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *identityService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a new tenant together with its first account in a single
// transaction. Either both rows exist afterwards or neither does.
func (srv *identityService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.String("tenant", input.TenantName), slog.String("username", input.Username))

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to hash password during registration")
	}

	tenant := &entity.Tenant{Name: input.TenantName}
	account := &entity.Account{
		Username:     input.Username,
		Email:        input.Email,
		FullName:     input.FullName,
		PasswordHash: hashedPassword,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		if err := accountRepo.CreateTenant(ctx, tenant); err != nil {
			return errors.Wrap(err, "failed to create tenant during registration")
		}

		account.TenantID = tenant.ID
		if err := accountRepo.Create(ctx, account); err != nil {
			return errors.Wrap(err, "failed to create account during registration")
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("tenant", input.TenantName), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("tenantID", tenant.ID), slog.Any("accountID", account.ID))

	return &usecase.RegisterOutput{Tenant: tenant, Account: account}, nil
}

// Login authenticates an account by username and password and issues a fresh
// token pair. Lookup, verification, opportunistic rehash and the ledger
// insert share one transaction so a failed login never leaves a live refresh
// token behind.
func (srv *identityService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	srv.log(ctx).Debug("Starting login", slog.String("username", input.Username))

	var output *usecase.LoginOutput

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()
		ledgerRepo := repoFactory.LedgerRepo()

		account, err := accountRepo.FindByUsername(ctx, input.Username)
		if err != nil {
			if errors.Is(err, repository.ErrAccountNotFound) {
				// An unknown username is reported as not-found, distinct
				// from a bad password on a known account.
				return domainerrors.ErrUserNotFound.WrapMessage("login failed")
			}

			return errors.Wrap(err, "failed to find account by username")
		}

		if err := srv.hasher.Verify(account.PasswordHash, input.Password); err != nil {
			return domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
		}

		srv.rehashIfNeeded(ctx, accountRepo, account, input.Password)

		payload := entity.TokenPayload{
			TenantID:  account.TenantID,
			AccountID: account.ID,
			Username:  account.Username,
		}

		accessToken, err := srv.tokenCodec.SignAccess(payload)
		if err != nil {
			return errors.Wrap(err, "failed to sign access token")
		}

		refreshToken, err := srv.tokenCodec.SignRefresh(payload)
		if err != nil {
			return errors.Wrap(err, "failed to sign refresh token")
		}

		if err := ledgerRepo.Insert(ctx, refreshToken); err != nil {
			return errors.Wrap(err, "failed to record refresh token during login")
		}

		output = &usecase.LoginOutput{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			Account:      account,
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Login failed", slog.String("username", input.Username), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("Login succeeded", slog.Any("accountID", output.Account.ID))

	return output, nil
}

// rehashIfNeeded upgrades the stored hash to the current parameters when the
// password just verified against an older configuration. A failure here is
// logged and swallowed: the credentials were correct, so the login proceeds.
func (srv *identityService) rehashIfNeeded(ctx context.Context, accountRepo repository.AccountRepository, account *entity.Account, password string) {
	if !srv.hasher.NeedsRehash(account.PasswordHash) {
		return
	}

	newHash, err := srv.hasher.Hash(password)
	if err != nil {
		srv.log(ctx).Warn("Failed to rehash password", slog.Any("accountID", account.ID), slog.Any("error", err))

		return
	}

	if err := accountRepo.UpdatePasswordHash(ctx, account.TenantID, account.ID, newHash); err != nil {
		srv.log(ctx).Warn("Failed to store rehashed password", slog.Any("accountID", account.ID), slog.Any("error", err))

		return
	}

	account.PasswordHash = newHash
}

// Refresh exchanges a valid refresh token for a new token pair. The old
// refresh token is revoked and the new one recorded in the same transaction,
// so a presented token can be used exactly once.
func (srv *identityService) Refresh(ctx context.Context, input *usecase.RefreshInput) (*usecase.RefreshOutput, error) {
	srv.log(ctx).Debug("Attempting token refresh")

	payload, err := srv.tokenCodec.VerifyRefresh(input.RefreshToken)
	if err != nil {
		return nil, errors.Wrap(err, "invalid refresh token")
	}

	var output *usecase.RefreshOutput

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		ledgerRepo := repoFactory.LedgerRepo()

		accessToken, err := srv.tokenCodec.SignAccess(*payload)
		if err != nil {
			return errors.Wrap(err, "failed to sign access token")
		}

		refreshToken, err := srv.tokenCodec.SignRefresh(*payload)
		if err != nil {
			return errors.Wrap(err, "failed to sign refresh token")
		}

		// Revoking the presented token doubles as the ledger membership
		// check. Under a concurrent refresh or logout of the same token,
		// whichever transaction commits first wins.
		if err := ledgerRepo.Delete(ctx, input.RefreshToken); err != nil {
			if errors.Is(err, repository.ErrRefreshTokenNotFound) {
				return domainerrors.ErrRefreshTokenNotFound.WrapMessage("refresh token not in ledger")
			}

			return errors.Wrap(err, "failed to revoke presented refresh token")
		}

		if err := ledgerRepo.Insert(ctx, refreshToken); err != nil {
			return errors.Wrap(err, "failed to record rotated refresh token")
		}

		output = &usecase.RefreshOutput{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Token refresh failed", slog.Any("accountID", payload.AccountID), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("Token refresh succeeded", slog.Any("accountID", payload.AccountID))

	return output, nil
}

// Logout revokes the presented refresh token. Revocation is not idempotent:
// logging out with a token that is not in the ledger reports an error, which
// makes client double-submits and replayed tokens visible.
func (srv *identityService) Logout(ctx context.Context, input *usecase.LogoutInput) error {
	if err := srv.ledgerRepo.Delete(ctx, input.RefreshToken); err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return domainerrors.ErrRefreshTokenNotFound.WrapMessage("logout failed")
		}

		return errors.Wrap(err, "failed to revoke refresh token during logout")
	}

	srv.log(ctx).Debug("Logout succeeded")

	return nil
}

// Me returns the caller's own account, scoped to the caller's tenant.
func (srv *identityService) Me(ctx context.Context, tenantID, accountID uuid.UUID) (*entity.Account, error) {
	account, err := srv.accountRepo.FindByID(ctx, tenantID, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, domainerrors.ErrUserNotFound.WrapMessage("account no longer exists")
		}

		return nil, errors.Wrap(err, "failed to load account")
	}

	return account, nil
}

// ListAccounts pages through the accounts of the caller's tenant.
func (srv *identityService) ListAccounts(ctx context.Context, input *usecase.ListAccountsInput) ([]*entity.Account, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}

	accounts, err := srv.accountRepo.ListByTenant(ctx, input.TenantID, input.LastID, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list accounts")
	}

	return accounts, nil
}
