package services

import (
	"context"

	"promptdesk/internal/domain/models"
)

// SavePromptRequest creates a prompt or updates an existing one. A save with
// no target folder lands in the actor's personal space, provisioning it if
// needed.
type SavePromptRequest struct {
	ID             string                `json:"id,omitempty"` // empty = create
	Title          string                `json:"title"`
	Objective      string                `json:"objective"`
	Sections       models.PromptSections `json:"sections"`
	BaseInput      string                `json:"base_input"`
	TargetFolderID string                `json:"target_folder_id,omitempty"`
	ChangeNote     string                `json:"change_note,omitempty"`
}

// PromptService owns document saves, version history and listings.
type PromptService interface {
	// Save creates or updates a prompt and appends exactly one version row.
	// The returned flag is true when the prompt was newly created.
	Save(ctx context.Context, userID string, req *SavePromptRequest) (*models.Prompt, bool, error)

	// ListOwn lists the actor's prompts, newest first
	ListOwn(ctx context.Context, userID string) ([]models.Prompt, error)

	// ListVersions lists a prompt's version history, oldest first
	ListVersions(ctx context.Context, userID, promptID string) ([]models.PromptVersion, error)

	// ListAvailableFolders lists the folders the actor may use as a save or
	// move destination
	ListAvailableFolders(ctx context.Context, userID string) ([]models.Folder, error)
}
