package services

import (
	"context"

	"promptdesk/internal/domain/models"
)

// FolderView is the result of resolving a folder reference: the resolved (or
// synthesized) folder, its parent for breadcrumbs, and its visible contents.
type FolderView struct {
	Folder  *models.Folder  `json:"folder"`
	Parent  *models.Folder  `json:"parent,omitempty"`
	Folders []models.Folder `json:"folders"`
	Files   []models.Prompt `json:"files"`
	// Virtual marks views synthesized from a pseudo-root token rather than a
	// stored folder row.
	Virtual bool `json:"virtual,omitempty"`
}

// RenameRequest renames a folder or prompt. OldName travels with the request
// so the audit payload records both sides without an extra read.
type RenameRequest struct {
	ID      string          `json:"id"`
	Kind    models.ItemKind `json:"kind"`
	NewName string          `json:"new_name"`
	OldName string          `json:"old_name"`
}

// MoveRequest reparents a folder or reassigns a prompt's owning folder.
// An empty NewParentID targets the actor's personal root.
type MoveRequest struct {
	ID              string          `json:"id"`
	Kind            models.ItemKind `json:"kind"`
	NewParentID     string          `json:"new_parent_id"`
	DestinationName string          `json:"destination_name"`
}

// SidebarData is the navigation payload: departments visible to the actor.
type SidebarData struct {
	Departments []models.Folder `json:"departments"`
	IsAdmin     bool            `json:"is_admin"`
}

// BrowserService is the folder resolution, hierarchy content and mutation
// surface of the workspace.
type BrowserService interface {
	// ResolveFolder translates a folder reference (concrete id or pseudo-root
	// token) into an access-checked view of its contents. An empty ref
	// resolves the personal root.
	ResolveFolder(ctx context.Context, userID, ref string) (*FolderView, error)

	// CreateSubfolder creates a PROJECT folder under a resolvable parent.
	// When the parent reference is the admin root token the call is treated
	// as CreateDepartment.
	CreateSubfolder(ctx context.Context, userID, parentRef, name string) (*models.Folder, error)

	// CreateDepartment creates a DEPARTMENT root folder whose department
	// label equals the given name. Privileged only.
	CreateDepartment(ctx context.Context, userID, name string) (*models.Folder, error)

	// RenameItem updates a folder's display name or a prompt's title. A
	// department folder keeps its department label across renames.
	RenameItem(ctx context.Context, userID string, req *RenameRequest) error

	// MoveItem reparents a folder or reassigns a prompt. Folder moves are
	// rejected when the destination is the folder itself or one of its
	// descendants; department folders move only for admins.
	MoveItem(ctx context.Context, userID string, req *MoveRequest) error

	// DeleteItem soft-deletes a folder or prompt. Children are left in
	// place; the trash listing is purely timestamp-driven.
	DeleteItem(ctx context.Context, userID, id string, kind models.ItemKind) error

	// ToggleFolderActive flips a folder's active flag. Deactivating also
	// stamps the soft-delete timestamp; reactivating clears it. Privileged
	// only.
	ToggleFolderActive(ctx context.Context, userID, folderID string, active bool) error

	// ListSidebar returns the departments visible to the actor
	ListSidebar(ctx context.Context, userID string) (*SidebarData, error)
}
