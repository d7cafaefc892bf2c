package repositories

import (
	"context"

	"promptdesk/internal/domain/models"
)

// FolderRepository defines data access operations for folders
type FolderRepository interface {
	// Create creates a new folder
	Create(ctx context.Context, folder *models.Folder) error

	// GetByID retrieves a folder by ID, soft-deleted rows included so the
	// trash subsystem can load transition targets
	GetByID(ctx context.Context, id string) (*models.Folder, error)

	// Update persists mutable folder fields (name, parent, active flag,
	// soft-delete timestamp). The department label is deliberately not
	// writable through Update.
	Update(ctx context.Context, folder *models.Folder) error

	// Delete permanently removes a folder row. Children are orphaned by the
	// schema (parent_id set to NULL), never cascaded.
	Delete(ctx context.Context, id string) error

	// ListChildren lists non-deleted immediate child folders, name ascending
	ListChildren(ctx context.Context, parentID string) ([]models.Folder, error)

	// ListByType lists non-deleted folders of one type, name ascending.
	// Personal folders carry the owner's display name for decoration.
	ListByType(ctx context.Context, folderType models.FolderType) ([]models.Folder, error)

	// ListByIDs lists non-deleted folders matching the given ids, name ascending
	ListByIDs(ctx context.Context, ids []string, folderType models.FolderType) ([]models.Folder, error)

	// ListWritable lists the non-deleted folders a user may write to: own
	// folders, explicitly granted folders, and (for admins) every department
	ListWritable(ctx context.Context, userID string, grantedIDs []string, allDepartments bool) ([]models.Folder, error)

	// ListDeleted lists every soft-deleted folder, newest deletion first
	ListDeleted(ctx context.Context) ([]models.Folder, error)

	// EnsurePersonal returns the user's personal folder, creating and linking
	// it when missing. The insert is guarded by a partial unique index so
	// concurrent first-time callers converge on a single row; the operation
	// is the one provisioning choke point in the system.
	EnsurePersonal(ctx context.Context, user *models.User) (*models.Folder, error)
}
