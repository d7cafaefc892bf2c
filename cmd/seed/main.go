// Command seed provisions the initial super admin account and the base
// department folders. Safe to run repeatedly: existing rows are left alone.
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"

	"promptdesk/internal/auth"
	"promptdesk/internal/config"
	"promptdesk/internal/domain"
	"promptdesk/internal/domain/models"
	"promptdesk/internal/repository/postgres"

	"github.com/joho/godotenv"
)

var departmentNames = []string{"IT", "SALES", "MARKETING"}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	repoConfig := &postgres.RepositoryConfig{Pool: pool, Logger: logger}
	userRepo := postgres.NewUserRepository(repoConfig)
	folderRepo := postgres.NewFolderRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	adminEmail := envOr("SEED_ADMIN_EMAIL", "admin@promptdesk.local")
	adminPassword := envOr("SEED_ADMIN_PASSWORD", "")
	if adminPassword == "" {
		log.Fatal("SEED_ADMIN_PASSWORD must be set")
	}

	err = txManager.ExecTx(ctx, func(txCtx context.Context) error {
		admin, err := userRepo.GetByEmail(txCtx, adminEmail)
		if errors.Is(err, domain.ErrNotFound) {
			hash, err := auth.HashPassword(adminPassword)
			if err != nil {
				return err
			}
			admin = &models.User{
				Email:        adminEmail,
				FullName:     "Administrator",
				PasswordHash: hash,
				Role:         models.RoleSuperAdmin,
				IsActive:     true,
			}
			if err := userRepo.Create(txCtx, admin); err != nil {
				return err
			}
			if _, err := folderRepo.EnsurePersonal(txCtx, admin); err != nil {
				return err
			}
			logger.Info("super admin created", "email", adminEmail)
		} else if err != nil {
			return err
		} else {
			logger.Info("super admin exists", "email", adminEmail)
		}

		existing, err := folderRepo.ListByType(txCtx, models.FolderDepartment)
		if err != nil {
			return err
		}
		present := make(map[string]bool, len(existing))
		for _, d := range existing {
			if d.Department != nil {
				present[*d.Department] = true
			}
		}

		for _, name := range departmentNames {
			if present[name] {
				logger.Info("department exists", "name", name)
				continue
			}
			label := name
			folder := &models.Folder{
				Name:        name,
				Type:        models.FolderDepartment,
				Department:  &label,
				CreatedByID: admin.ID,
				IsActive:    true,
			}
			if err := folderRepo.Create(txCtx, folder); err != nil {
				return err
			}
			logger.Info("department created", "name", name, "id", folder.ID)
		}

		return nil
	})
	if err != nil {
		log.Fatalf("Seed failed: %v", err)
	}

	logger.Info("seed complete")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
