package repositories

import (
	"context"

	"promptdesk/internal/domain/models"
)

// GrantRepository defines data access operations for explicit access grants
type GrantRepository interface {
	// Create inserts one grant; duplicate (user, folder) pairs conflict
	Create(ctx context.Context, grant *models.AccessGrant) error

	// ListByUser lists a user's grants
	ListByUser(ctx context.Context, userID string) ([]models.AccessGrant, error)

	// ReplaceDepartmentGrants drops the user's department-folder grants and
	// installs grants on the given folder ids instead. Grants on personal or
	// project folders are left untouched.
	ReplaceDepartmentGrants(ctx context.Context, userID string, folderIDs []string) error
}
