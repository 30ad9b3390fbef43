// Command seed prepares a development database: it migrates the schema and
// loads two demo tenants so tenant isolation can be exercised right away.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"taskboard/config"
	"taskboard/internal/domain/entity"
	"taskboard/internal/domain/repository"
	"taskboard/internal/infra/auth"
	"taskboard/internal/infra/persistence/model"
	"taskboard/internal/infra/persistence/postgres"

	pgLib "github.com/slighter12/go-lib/database/postgres"
	"gorm.io/gorm"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := run(logger); err != nil {
		logger.Error("Seeding failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("Seeding completed")
}

func run(logger *slog.Logger) error {
	cfg, err := config.New()
	if err != nil {
		return err
	}

	db, err := pgLib.New(cfg.Postgres)
	if err != nil {
		return err
	}

	if err := migrate(db); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	hasher := auth.NewArgon2Hasher(cfg)
	txManager := postgres.NewTransactionManager(db)

	demos := []struct {
		tenant    string
		username  string
		fullName  string
		workspace string
	}{
		{tenant: "Acme Inc", username: "alice", fullName: "Alice Smith", workspace: "Acme Roadmap"},
		{tenant: "Globex Corp", username: "bob", fullName: "Bob Jones", workspace: "Globex Roadmap"},
	}

	for _, demo := range demos {
		passwordHash, err := hasher.Hash("Password123!")
		if err != nil {
			return err
		}

		err = txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
			accountRepo := repoFactory.AccountRepo()

			tenant := &entity.Tenant{Name: demo.tenant}
			if err := accountRepo.CreateTenant(ctx, tenant); err != nil {
				return err
			}

			account := &entity.Account{
				TenantID:     tenant.ID,
				Username:     demo.username,
				Email:        demo.username + "@example.com",
				FullName:     demo.fullName,
				PasswordHash: passwordHash,
			}
			if err := accountRepo.Create(ctx, account); err != nil {
				return err
			}

			workspace := &entity.Workspace{
				TenantID:  tenant.ID,
				Name:      demo.workspace,
				CreatedBy: account.ID,
			}
			for _, groupName := range entity.DefaultGroupNames {
				workspace.Groups = append(workspace.Groups, &entity.Group{
					TenantID:  tenant.ID,
					Name:      groupName,
					CreatedBy: account.ID,
				})
			}

			if err := repoFactory.WorkspaceRepo().CreateWorkspace(ctx, workspace); err != nil {
				return err
			}

			task := &entity.Task{
				TenantID:    tenant.ID,
				WorkspaceID: workspace.ID,
				GroupID:     workspace.Groups[0].ID,
				Title:       "Try out the board",
				Description: "Move this card to In Progress.",
				AssignedTo:  &account.ID,
				CreatedBy:   account.ID,
			}

			return repoFactory.WorkspaceRepo().CreateTask(ctx, task)
		})

		if err != nil {
			return err
		}

		logger.Info("Seeded tenant",
			slog.String("tenant", demo.tenant),
			slog.String("username", demo.username),
		)
	}

	return nil
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.TenantModel{},
		&model.AccountModel{},
		&model.LedgerEntryModel{},
		&model.WorkspaceModel{},
		&model.GroupModel{},
		&model.TaskModel{},
	)
}
