package services

import (
	"context"
	"time"

	"promptdesk/internal/domain/models"
)

// TrashItem is one soft-deleted entity in the merged trash feed.
type TrashItem struct {
	ID        string          `json:"id"`
	Kind      models.ItemKind `json:"kind"`
	Name      string          `json:"name"`
	DeletedAt time.Time       `json:"deleted_at"`
}

// TrashService lists soft-deleted entities and transitions them back out
// (restore) or permanently away (purge). Privileged only.
type TrashService interface {
	// List merges soft-deleted folders and prompts into one feed, newest
	// deletion first
	List(ctx context.Context, userID string) ([]TrashItem, error)

	// Restore clears an item's soft-delete timestamp
	Restore(ctx context.Context, userID, id string, kind models.ItemKind) error

	// Purge permanently removes an item. Irreversible.
	Purge(ctx context.Context, userID, id string, kind models.ItemKind) error
}
