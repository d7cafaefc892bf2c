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

const folderColumns = `id, name, type, department, parent_id, created_by_id, is_active, created_at, updated_at, deleted_at`

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool *pgxpool.Pool
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *RepositoryConfig) repositories.FolderRepository {
	return &PostgresFolderRepository{pool: config.Pool}
}

// Create creates a new folder
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	if folder.ID == "" {
		folder.ID = uuid.New().String()
	}
	now := time.Now()
	folder.CreatedAt = now
	folder.UpdatedAt = now

	query := `
		INSERT INTO folders (id, name, type, department, parent_id, created_by_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		folder.ID,
		folder.Name,
		folder.Type,
		folder.Department,
		folder.ParentID,
		folder.CreatedByID,
		folder.IsActive,
		folder.CreatedAt,
		folder.UpdatedAt,
	)

	if err != nil {
		if IsPgDuplicateError(err) {
			return fmt.Errorf("folder '%s': %w", folder.Name, domain.ErrConflict)
		}
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

// GetByID retrieves a folder by ID, soft-deleted rows included
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	query := fmt.Sprintf(`SELECT %s FROM folders WHERE id = $1`, folderColumns)

	executor := GetExecutor(ctx, r.pool)
	folder, err := scanFolder(executor.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return folder, nil
}

// Update persists mutable folder fields. The department label is not part of
// the statement so a rename can never detach existing grants.
func (r *PostgresFolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	folder.UpdatedAt = time.Now()

	query := `
		UPDATE folders
		SET name = $1, parent_id = $2, is_active = $3, deleted_at = $4, updated_at = $5
		WHERE id = $6
	`

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		folder.Name,
		folder.ParentID,
		folder.IsActive,
		folder.DeletedAt,
		folder.UpdatedAt,
		folder.ID,
	)

	if err != nil {
		return fmt.Errorf("update folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete permanently removes a folder row
func (r *PostgresFolderRepository) Delete(ctx context.Context, id string) error {
	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, `DELETE FROM folders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListChildren lists non-deleted immediate child folders, name ascending
func (r *PostgresFolderRepository) ListChildren(ctx context.Context, parentID string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM folders
		WHERE parent_id = $1 AND deleted_at IS NULL
		ORDER BY name ASC
	`, folderColumns)

	return r.queryFolders(ctx, query, parentID)
}

// ListByType lists non-deleted folders of one type with owner names
func (r *PostgresFolderRepository) ListByType(ctx context.Context, folderType models.FolderType) ([]models.Folder, error) {
	query := `
		SELECT f.id, f.name, f.type, f.department, f.parent_id, f.created_by_id,
		       f.is_active, f.created_at, f.updated_at, f.deleted_at, u.full_name
		FROM folders f
		JOIN users u ON u.id = f.created_by_id
		WHERE f.type = $1 AND f.deleted_at IS NULL
		ORDER BY f.name ASC
	`

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, folderType)
	if err != nil {
		return nil, fmt.Errorf("list folders by type: %w", err)
	}
	defer rows.Close()

	var folders []models.Folder
	for rows.Next() {
		var folder models.Folder
		err := rows.Scan(
			&folder.ID,
			&folder.Name,
			&folder.Type,
			&folder.Department,
			&folder.ParentID,
			&folder.CreatedByID,
			&folder.IsActive,
			&folder.CreatedAt,
			&folder.UpdatedAt,
			&folder.DeletedAt,
			&folder.OwnerName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}

// ListByIDs lists non-deleted folders of one type matching the given ids
func (r *PostgresFolderRepository) ListByIDs(ctx context.Context, ids []string, folderType models.FolderType) ([]models.Folder, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT %s FROM folders
		WHERE id = ANY($1::uuid[]) AND type = $2 AND deleted_at IS NULL
		ORDER BY name ASC
	`, folderColumns)

	return r.queryFolders(ctx, query, ids, folderType)
}

// ListWritable lists the folders a user may write to
func (r *PostgresFolderRepository) ListWritable(ctx context.Context, userID string, grantedIDs []string, allDepartments bool) ([]models.Folder, error) {
	if grantedIDs == nil {
		grantedIDs = []string{}
	}

	query := fmt.Sprintf(`
		SELECT %s FROM folders
		WHERE deleted_at IS NULL
		  AND (created_by_id = $1 OR id = ANY($2::uuid[]) OR ($3 AND type = 'DEPARTMENT'))
		ORDER BY name ASC
	`, folderColumns)

	return r.queryFolders(ctx, query, userID, grantedIDs, allDepartments)
}

// ListDeleted lists every soft-deleted folder, newest deletion first
func (r *PostgresFolderRepository) ListDeleted(ctx context.Context) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM folders
		WHERE deleted_at IS NOT NULL
		ORDER BY deleted_at DESC
	`, folderColumns)

	return r.queryFolders(ctx, query)
}

// EnsurePersonal returns the user's personal folder, creating and linking it
// when missing. The insert races through the partial unique index on
// (created_by_id) WHERE type = 'PERSONAL': a concurrent loser no-ops and the
// follow-up select converges both callers on the surviving row.
func (r *PostgresFolderRepository) EnsurePersonal(ctx context.Context, user *models.User) (*models.Folder, error) {
	executor := GetExecutor(ctx, r.pool)

	now := time.Now()
	insert := `
		INSERT INTO folders (id, name, type, created_by_id, is_active, created_at, updated_at)
		VALUES ($1, $2, 'PERSONAL', $3, TRUE, $4, $4)
		ON CONFLICT (created_by_id) WHERE type = 'PERSONAL' DO NOTHING
	`
	name := fmt.Sprintf("Personal area of %s", user.FullName)
	if _, err := executor.Exec(ctx, insert, uuid.New().String(), name, user.ID, now); err != nil {
		return nil, fmt.Errorf("provision personal folder: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM folders
		WHERE created_by_id = $1 AND type = 'PERSONAL'
	`, folderColumns)
	folder, err := scanFolder(executor.QueryRow(ctx, query, user.ID))
	if err != nil {
		return nil, fmt.Errorf("load personal folder: %w", err)
	}

	link := `UPDATE users SET personal_folder_id = $1, updated_at = $2 WHERE id = $3 AND personal_folder_id IS NULL`
	if _, err := executor.Exec(ctx, link, folder.ID, now, user.ID); err != nil {
		return nil, fmt.Errorf("link personal folder: %w", err)
	}
	user.PersonalFolderID = &folder.ID

	return folder, nil
}

func (r *PostgresFolderRepository) queryFolders(ctx context.Context, query string, args ...interface{}) ([]models.Folder, error) {
	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	var folders []models.Folder
	for rows.Next() {
		folder, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, *folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}

func scanFolder(row rowScanner) (*models.Folder, error) {
	var folder models.Folder
	err := row.Scan(
		&folder.ID,
		&folder.Name,
		&folder.Type,
		&folder.Department,
		&folder.ParentID,
		&folder.CreatedByID,
		&folder.IsActive,
		&folder.CreatedAt,
		&folder.UpdatedAt,
		&folder.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &folder, nil
}
