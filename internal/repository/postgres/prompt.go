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

const promptColumns = `id, title, objective, content, base_input, folder_id, created_by_id, created_at, updated_at, deleted_at`

// PostgresPromptRepository implements the PromptRepository interface
type PostgresPromptRepository struct {
	pool *pgxpool.Pool
}

// NewPromptRepository creates a new prompt repository
func NewPromptRepository(config *RepositoryConfig) repositories.PromptRepository {
	return &PostgresPromptRepository{pool: config.Pool}
}

// Create creates a new prompt
func (r *PostgresPromptRepository) Create(ctx context.Context, prompt *models.Prompt) error {
	if prompt.ID == "" {
		prompt.ID = uuid.New().String()
	}
	now := time.Now()
	prompt.CreatedAt = now
	prompt.UpdatedAt = now

	query := `
		INSERT INTO prompts (id, title, objective, content, base_input, folder_id, created_by_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		prompt.ID,
		prompt.Title,
		prompt.Objective,
		prompt.Content,
		prompt.BaseInput,
		prompt.FolderID,
		prompt.CreatedByID,
		prompt.CreatedAt,
		prompt.UpdatedAt,
	)

	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("prompt folder: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("create prompt: %w", err)
	}

	return nil
}

// GetByID retrieves a prompt by ID, soft-deleted rows included
func (r *PostgresPromptRepository) GetByID(ctx context.Context, id string) (*models.Prompt, error) {
	query := fmt.Sprintf(`SELECT %s FROM prompts WHERE id = $1`, promptColumns)

	executor := GetExecutor(ctx, r.pool)
	prompt, err := scanPrompt(executor.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("prompt %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get prompt: %w", err)
	}

	return prompt, nil
}

// Update persists mutable prompt fields
func (r *PostgresPromptRepository) Update(ctx context.Context, prompt *models.Prompt) error {
	prompt.UpdatedAt = time.Now()

	query := `
		UPDATE prompts
		SET title = $1, objective = $2, content = $3, base_input = $4,
		    folder_id = $5, deleted_at = $6, updated_at = $7
		WHERE id = $8
	`

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		prompt.Title,
		prompt.Objective,
		prompt.Content,
		prompt.BaseInput,
		prompt.FolderID,
		prompt.DeletedAt,
		prompt.UpdatedAt,
		prompt.ID,
	)

	if err != nil {
		return fmt.Errorf("update prompt: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("prompt %s: %w", prompt.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete permanently removes a prompt row; versions cascade
func (r *PostgresPromptRepository) Delete(ctx context.Context, id string) error {
	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, `DELETE FROM prompts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete prompt: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("prompt %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListByFolder lists non-deleted prompts in a folder with creator names
func (r *PostgresPromptRepository) ListByFolder(ctx context.Context, folderID string) ([]models.Prompt, error) {
	query := `
		SELECT p.id, p.title, p.objective, p.content, p.base_input, p.folder_id,
		       p.created_by_id, p.created_at, p.updated_at, p.deleted_at, u.full_name
		FROM prompts p
		JOIN users u ON u.id = p.created_by_id
		WHERE p.folder_id = $1 AND p.deleted_at IS NULL
		ORDER BY p.title ASC
	`

	return r.queryPromptsWithCreator(ctx, query, folderID)
}

// ListByCreator lists a user's non-deleted prompts, newest first
func (r *PostgresPromptRepository) ListByCreator(ctx context.Context, userID string) ([]models.Prompt, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM prompts
		WHERE created_by_id = $1 AND deleted_at IS NULL
		ORDER BY updated_at DESC
	`, promptColumns)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list prompts by creator: %w", err)
	}
	defer rows.Close()

	var prompts []models.Prompt
	for rows.Next() {
		prompt, err := scanPrompt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan prompt: %w", err)
		}
		prompts = append(prompts, *prompt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate prompts: %w", err)
	}

	return prompts, nil
}

// ListDeleted lists every soft-deleted prompt, newest deletion first
func (r *PostgresPromptRepository) ListDeleted(ctx context.Context) ([]models.Prompt, error) {
	query := `
		SELECT p.id, p.title, p.objective, p.content, p.base_input, p.folder_id,
		       p.created_by_id, p.created_at, p.updated_at, p.deleted_at, u.full_name
		FROM prompts p
		JOIN users u ON u.id = p.created_by_id
		WHERE p.deleted_at IS NOT NULL
		ORDER BY p.deleted_at DESC
	`

	return r.queryPromptsWithCreator(ctx, query)
}

// AddVersion appends one version row
func (r *PostgresPromptRepository) AddVersion(ctx context.Context, version *models.PromptVersion) error {
	if version.ID == "" {
		version.ID = uuid.New().String()
	}
	version.CreatedAt = time.Now()

	query := `
		INSERT INTO prompt_versions (id, prompt_id, content, change_note, created_by_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		version.ID,
		version.PromptID,
		version.Content,
		version.ChangeNote,
		version.CreatedByID,
		version.CreatedAt,
	)

	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("prompt %s: %w", version.PromptID, domain.ErrNotFound)
		}
		return fmt.Errorf("add prompt version: %w", err)
	}

	return nil
}

// ListVersions lists a prompt's versions, oldest first
func (r *PostgresPromptRepository) ListVersions(ctx context.Context, promptID string) ([]models.PromptVersion, error) {
	query := `
		SELECT id, prompt_id, content, change_note, created_by_id, created_at
		FROM prompt_versions
		WHERE prompt_id = $1
		ORDER BY created_at ASC
	`

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, promptID)
	if err != nil {
		return nil, fmt.Errorf("list prompt versions: %w", err)
	}
	defer rows.Close()

	var versions []models.PromptVersion
	for rows.Next() {
		var version models.PromptVersion
		err := rows.Scan(
			&version.ID,
			&version.PromptID,
			&version.Content,
			&version.ChangeNote,
			&version.CreatedByID,
			&version.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan prompt version: %w", err)
		}
		versions = append(versions, version)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate prompt versions: %w", err)
	}

	return versions, nil
}

// CountVersions returns the number of versions recorded for a prompt
func (r *PostgresPromptRepository) CountVersions(ctx context.Context, promptID string) (int, error) {
	executor := GetExecutor(ctx, r.pool)

	var count int
	err := executor.QueryRow(ctx, `SELECT COUNT(*) FROM prompt_versions WHERE prompt_id = $1`, promptID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count prompt versions: %w", err)
	}

	return count, nil
}

func (r *PostgresPromptRepository) queryPromptsWithCreator(ctx context.Context, query string, args ...interface{}) ([]models.Prompt, error) {
	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	defer rows.Close()

	var prompts []models.Prompt
	for rows.Next() {
		var prompt models.Prompt
		err := rows.Scan(
			&prompt.ID,
			&prompt.Title,
			&prompt.Objective,
			&prompt.Content,
			&prompt.BaseInput,
			&prompt.FolderID,
			&prompt.CreatedByID,
			&prompt.CreatedAt,
			&prompt.UpdatedAt,
			&prompt.DeletedAt,
			&prompt.CreatedByName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan prompt: %w", err)
		}
		prompts = append(prompts, prompt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate prompts: %w", err)
	}

	return prompts, nil
}

func scanPrompt(row rowScanner) (*models.Prompt, error) {
	var prompt models.Prompt
	err := row.Scan(
		&prompt.ID,
		&prompt.Title,
		&prompt.Objective,
		&prompt.Content,
		&prompt.BaseInput,
		&prompt.FolderID,
		&prompt.CreatedByID,
		&prompt.CreatedAt,
		&prompt.UpdatedAt,
		&prompt.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &prompt, nil
}
