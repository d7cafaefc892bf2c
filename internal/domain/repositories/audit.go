package repositories

import (
	"context"

	"promptdesk/internal/domain/models"
)

// AuditRepository defines data access for the append-only audit trail.
// There is no update or delete: entries are immutable once written.
type AuditRepository interface {
	// Append writes one audit entry
	Append(ctx context.Context, entry *models.AuditEntry) error

	// ListRecent lists the newest entries first, at most limit rows, each
	// carrying the actor's display name and email
	ListRecent(ctx context.Context, limit int) ([]models.AuditEntry, error)
}
