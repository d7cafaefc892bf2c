package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"promptdesk/internal/domain"
	"promptdesk/internal/domain/models"
	"promptdesk/internal/domain/repositories"
)

// PostgresGrantRepository implements the GrantRepository interface
type PostgresGrantRepository struct {
	pool *pgxpool.Pool
}

// NewGrantRepository creates a new grant repository
func NewGrantRepository(config *RepositoryConfig) repositories.GrantRepository {
	return &PostgresGrantRepository{pool: config.Pool}
}

// Create inserts one grant
func (r *PostgresGrantRepository) Create(ctx context.Context, grant *models.AccessGrant) error {
	if grant.ID == "" {
		grant.ID = uuid.New().String()
	}
	grant.CreatedAt = time.Now()
	if grant.AccessLevel == "" {
		grant.AccessLevel = models.AccessWrite
	}

	query := `
		INSERT INTO access_grants (id, user_id, folder_id, access_level, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		grant.ID,
		grant.UserID,
		grant.FolderID,
		grant.AccessLevel,
		grant.CreatedAt,
	)

	if err != nil {
		if IsPgDuplicateError(err) {
			return fmt.Errorf("grant for user %s on folder %s: %w", grant.UserID, grant.FolderID, domain.ErrConflict)
		}
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("grant target: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("create grant: %w", err)
	}

	return nil
}

// ListByUser lists a user's grants
func (r *PostgresGrantRepository) ListByUser(ctx context.Context, userID string) ([]models.AccessGrant, error) {
	query := `
		SELECT id, user_id, folder_id, access_level, created_at
		FROM access_grants
		WHERE user_id = $1
	`

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list grants: %w", err)
	}
	defer rows.Close()

	var grants []models.AccessGrant
	for rows.Next() {
		var grant models.AccessGrant
		err := rows.Scan(
			&grant.ID,
			&grant.UserID,
			&grant.FolderID,
			&grant.AccessLevel,
			&grant.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan grant: %w", err)
		}
		grants = append(grants, grant)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate grants: %w", err)
	}

	return grants, nil
}

// ReplaceDepartmentGrants drops the user's department-folder grants and
// installs grants on the given folder ids instead. Grants on personal or
// project folders survive the replacement.
func (r *PostgresGrantRepository) ReplaceDepartmentGrants(ctx context.Context, userID string, folderIDs []string) error {
	executor := GetExecutor(ctx, r.pool)

	del := `
		DELETE FROM access_grants g
		USING folders f
		WHERE g.folder_id = f.id AND g.user_id = $1 AND f.type = 'DEPARTMENT'
	`
	if _, err := executor.Exec(ctx, del, userID); err != nil {
		return fmt.Errorf("clear department grants: %w", err)
	}

	now := time.Now()
	insert := `
		INSERT INTO access_grants (id, user_id, folder_id, access_level, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, folder_id) DO NOTHING
	`
	for _, folderID := range folderIDs {
		_, err := executor.Exec(ctx, insert, uuid.New().String(), userID, folderID, models.AccessWrite, now)
		if err != nil {
			if IsPgForeignKeyError(err) {
				return fmt.Errorf("grant folder %s: %w", folderID, domain.ErrNotFound)
			}
			return fmt.Errorf("install department grant: %w", err)
		}
	}

	return nil
}
