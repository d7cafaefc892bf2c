package services

import (
	"context"

	"promptdesk/internal/domain/models"
)

// UserSummary is the admin listing shape: user plus the departments they are
// granted into.
type UserSummary struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Role        models.Role     `json:"role"`
	IsActive    bool            `json:"is_active"`
	Departments []models.Folder `json:"departments"`
}

// CreateUserRequest provisions a new user with an optional initial set of
// department grants.
type CreateUserRequest struct {
	FullName      string      `json:"full_name"`
	Email         string      `json:"email"`
	Password      string      `json:"password"`
	Role          models.Role `json:"role"`
	DepartmentIDs []string    `json:"department_ids"`
}

// UpdateUserRequest changes a user's role and replaces their department
// grant set.
type UpdateUserRequest struct {
	Role          models.Role `json:"role"`
	DepartmentIDs []string    `json:"department_ids"`
}

// UserAdminService is the privileged user management surface.
type UserAdminService interface {
	// List returns every non-deleted user with their department grants
	List(ctx context.Context, actorID string) ([]UserSummary, error)

	// Create provisions a user, their personal folder, and initial grants
	Create(ctx context.Context, actorID string, req *CreateUserRequest) (*models.User, error)

	// Update changes a user's role and replaces their department grants
	Update(ctx context.Context, actorID, userID string, req *UpdateUserRequest) error

	// ToggleActive flips a user's active flag; admins cannot toggle themselves
	ToggleActive(ctx context.Context, actorID, userID string) error

	// Delete soft-deletes a user and rewrites their email to free it for
	// reuse. The email rewrite is deliberate and irreversible: "soft delete"
	// for users destroys the original identity, unlike folders and prompts.
	Delete(ctx context.Context, actorID, userID string) error

	// ListDepartments lists every active department folder (for the admin
	// grant picker)
	ListDepartments(ctx context.Context) ([]models.Folder, error)
}
