package repositories

import (
	"context"

	"promptdesk/internal/domain/models"
)

// PromptRepository defines data access operations for prompts and their
// append-only version history
type PromptRepository interface {
	// Create creates a new prompt
	Create(ctx context.Context, prompt *models.Prompt) error

	// GetByID retrieves a prompt by ID, soft-deleted rows included
	GetByID(ctx context.Context, id string) (*models.Prompt, error)

	// Update persists mutable prompt fields (title, content, folder,
	// soft-delete timestamp)
	Update(ctx context.Context, prompt *models.Prompt) error

	// Delete permanently removes a prompt row and its versions
	Delete(ctx context.Context, id string) error

	// ListByFolder lists non-deleted prompts in a folder, title ascending,
	// each carrying the creator's display name
	ListByFolder(ctx context.Context, folderID string) ([]models.Prompt, error)

	// ListByCreator lists a user's non-deleted prompts, newest first
	ListByCreator(ctx context.Context, userID string) ([]models.Prompt, error)

	// ListDeleted lists every soft-deleted prompt, newest deletion first
	ListDeleted(ctx context.Context) ([]models.Prompt, error)

	// AddVersion appends one version row. Versions are never updated or
	// deleted while the parent prompt exists.
	AddVersion(ctx context.Context, version *models.PromptVersion) error

	// ListVersions lists a prompt's versions, oldest first
	ListVersions(ctx context.Context, promptID string) ([]models.PromptVersion, error)

	// CountVersions returns the number of versions recorded for a prompt
	CountVersions(ctx context.Context, promptID string) (int, error)
}
