package models

import "time"

// AccessLevel is the capability an explicit grant conveys. Only write access
// is issued in practice; the field exists so the grant table can carry more
// levels without a schema change.
type AccessLevel string

const (
	AccessWrite AccessLevel = "WRITE"
)

// AccessGrant is an explicit (user, folder) authorization, independent of
// ownership or role. Granting access to a folder does not cascade to its
// children.
type AccessGrant struct {
	ID          string      `json:"id" db:"id"`
	UserID      string      `json:"user_id" db:"user_id"`
	FolderID    string      `json:"folder_id" db:"folder_id"`
	AccessLevel AccessLevel `json:"access_level" db:"access_level"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
}
