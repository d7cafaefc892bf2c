package models

import "time"

// Role determines the privilege tier of a user.
type Role string

const (
	RoleUser       Role = "USER"
	RoleSuperAdmin Role = "SUPERADMIN"
)

type User struct {
	ID               string     `json:"id" db:"id"`
	Email            string     `json:"email" db:"email"`
	FullName         string     `json:"full_name" db:"full_name"`
	PasswordHash     string     `json:"-" db:"password_hash"`
	Role             Role       `json:"role" db:"role"`
	IsActive         bool       `json:"is_active" db:"is_active"`
	PersonalFolderID *string    `json:"personal_folder_id,omitempty" db:"personal_folder_id"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt        *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`

	// Grants is the user's full explicit grant set, loaded by the identity
	// resolver alongside the user row.
	Grants []AccessGrant `json:"grants,omitempty"`
}

// IsAdmin reports whether the user holds the privileged role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleSuperAdmin
}

// HasGrantOn reports whether the user holds an explicit grant on the folder.
func (u *User) HasGrantOn(folderID string) bool {
	for _, g := range u.Grants {
		if g.FolderID == folderID {
			return true
		}
	}
	return false
}
