package repositories

import (
	"context"

	"promptdesk/internal/domain/models"
)

// UserRepository defines data access operations for users
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by ID, soft-deleted rows included
	GetByID(ctx context.Context, id string) (*models.User, error)

	// GetByEmail retrieves a non-deleted user by email
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// List retrieves all non-deleted users ordered by full name
	List(ctx context.Context) ([]models.User, error)

	// Update persists mutable user fields (role, active flag, email,
	// personal folder link, soft-delete timestamp)
	Update(ctx context.Context, user *models.User) error
}
