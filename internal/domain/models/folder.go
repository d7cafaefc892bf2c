package models

import "time"

// FolderType classifies a folder for access evaluation.
type FolderType string

const (
	FolderPersonal   FolderType = "PERSONAL"
	FolderDepartment FolderType = "DEPARTMENT"
	FolderProject    FolderType = "PROJECT"
)

// Pseudo-root reference tokens. These are reserved string identifiers, not
// real folder ids; resolution recognizes them literally by value.
const (
	// PersonalRootRef resolves (and lazily provisions) the caller's personal folder.
	PersonalRootRef = "PERSONAL_ROOT"
	// DepartmentRootRef is the legacy aggregate of the caller's departments.
	// Superseded by navigating to explicit department ids, but still honored.
	DepartmentRootRef = "DEPARTMENT_ROOT"
	// AdminRootRef enumerates every department folder. Privileged only.
	AdminRootRef = "ADMIN_ROOT"
	// AllPersonalRef enumerates every user's personal folder. Privileged only.
	AllPersonalRef = "ALL_PERSONAL_ROOT"
)

// IsPseudoRoot reports whether ref is one of the reserved root tokens.
func IsPseudoRoot(ref string) bool {
	switch ref {
	case PersonalRootRef, DepartmentRootRef, AdminRootRef, AllPersonalRef:
		return true
	}
	return false
}

type Folder struct {
	ID   string     `json:"id" db:"id"`
	Name string     `json:"name" db:"name"`
	Type FolderType `json:"type" db:"type"`
	// Department is the access-control key explicit grants attach to. It is
	// set once at department creation and never changed by rename, so grant
	// matching survives display-name edits.
	Department  *string    `json:"department,omitempty" db:"department"`
	ParentID    *string    `json:"parent_id,omitempty" db:"parent_id"`
	CreatedByID string     `json:"created_by_id" db:"created_by_id"`
	IsActive    bool       `json:"is_active" db:"is_active"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`

	// OwnerName is the creator's display name, joined in when listings need
	// to disambiguate folders across users (the all-personal-spaces view).
	OwnerName string `json:"owner_name,omitempty"`
}
