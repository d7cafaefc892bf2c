package models

import (
	"encoding/json"
	"time"
)

// ItemKind distinguishes the two trashable entity kinds.
type ItemKind string

const (
	KindFolder ItemKind = "folder"
	KindFile   ItemKind = "file"
)

// AuditEntry is one immutable row in the append-only audit trail.
type AuditEntry struct {
	ID        string          `json:"id" db:"id"`
	UserID    string          `json:"user_id" db:"user_id"`
	Action    string          `json:"action" db:"action"`
	EntityID  *string         `json:"entity_id,omitempty" db:"entity_id"`
	Details   json.RawMessage `json:"details" db:"details"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`

	// ActorName and ActorEmail are joined in for the admin log view.
	ActorName  string `json:"actor_name,omitempty"`
	ActorEmail string `json:"actor_email,omitempty"`
}

// AuditDetails is the closed set of structured audit payloads. Each action
// kind has exactly one variant; the Kind discriminator is serialized into the
// payload so entries stay self-describing.
type AuditDetails interface {
	AuditKind() string
}

type RenameDetails struct {
	Kind     string   `json:"kind"`
	ItemKind ItemKind `json:"item_kind"`
	OldName  string   `json:"old_name"`
	NewName  string   `json:"new_name"`
}

func NewRenameDetails(item ItemKind, oldName, newName string) RenameDetails {
	return RenameDetails{Kind: "rename", ItemKind: item, OldName: oldName, NewName: newName}
}

func (d RenameDetails) AuditKind() string { return d.Kind }

type MoveDetails struct {
	Kind            string   `json:"kind"`
	ItemKind        ItemKind `json:"item_kind"`
	Name            string   `json:"name"`
	DestinationID   string   `json:"destination_id,omitempty"`
	DestinationName string   `json:"destination_name"`
}

func NewMoveDetails(item ItemKind, name, destID, destName string) MoveDetails {
	return MoveDetails{Kind: "move", ItemKind: item, Name: name, DestinationID: destID, DestinationName: destName}
}

func (d MoveDetails) AuditKind() string { return d.Kind }

type DeleteDetails struct {
	Kind     string   `json:"kind"`
	ItemKind ItemKind `json:"item_kind"`
	Name     string   `json:"name"`
}

func NewDeleteDetails(item ItemKind, name string) DeleteDetails {
	return DeleteDetails{Kind: "delete", ItemKind: item, Name: name}
}

func (d DeleteDetails) AuditKind() string { return d.Kind }

type RestoreDetails struct {
	Kind     string   `json:"kind"`
	ItemKind ItemKind `json:"item_kind"`
	Name     string   `json:"name"`
}

func NewRestoreDetails(item ItemKind, name string) RestoreDetails {
	return RestoreDetails{Kind: "restore", ItemKind: item, Name: name}
}

func (d RestoreDetails) AuditKind() string { return d.Kind }

type PurgeDetails struct {
	Kind     string   `json:"kind"`
	ItemKind ItemKind `json:"item_kind"`
	Name     string   `json:"name"`
}

func NewPurgeDetails(item ItemKind, name string) PurgeDetails {
	return PurgeDetails{Kind: "purge", ItemKind: item, Name: name}
}

func (d PurgeDetails) AuditKind() string { return d.Kind }

type ActiveDetails struct {
	Kind   string `json:"kind"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

func NewActiveDetails(name string, active bool) ActiveDetails {
	return ActiveDetails{Kind: "toggle_active", Name: name, Active: active}
}

func (d ActiveDetails) AuditKind() string { return d.Kind }

type CreateFolderDetails struct {
	Kind       string     `json:"kind"`
	Name       string     `json:"name"`
	FolderType FolderType `json:"folder_type"`
	ParentID   string     `json:"parent_id,omitempty"`
}

func NewCreateFolderDetails(name string, folderType FolderType, parentID string) CreateFolderDetails {
	return CreateFolderDetails{Kind: "create_folder", Name: name, FolderType: folderType, ParentID: parentID}
}

func (d CreateFolderDetails) AuditKind() string { return d.Kind }

type SaveDetails struct {
	Kind    string `json:"kind"`
	Title   string `json:"title"`
	Created bool   `json:"created"` // false when the save updated an existing prompt
	Version int    `json:"version"`
}

func NewSaveDetails(title string, created bool, version int) SaveDetails {
	return SaveDetails{Kind: "save_prompt", Title: title, Created: created, Version: version}
}

func (d SaveDetails) AuditKind() string { return d.Kind }

type UserDetails struct {
	Kind   string `json:"kind"`
	Email  string `json:"email"`
	Change string `json:"change"` // created, updated, toggled, deleted
}

func NewUserDetails(email, change string) UserDetails {
	return UserDetails{Kind: "user_admin", Email: email, Change: change}
}

func (d UserDetails) AuditKind() string { return d.Kind }
