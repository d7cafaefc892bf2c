package services

import (
	"context"

	"promptdesk/internal/domain/models"
)

// AuditRecorder appends immutable action records. Recording is best-effort:
// a missing actor is a silent no-op and storage failures are logged and
// swallowed, never surfaced to the triggering mutation.
type AuditRecorder interface {
	// Record appends one entry for the given actor and action
	Record(ctx context.Context, actorID, action string, entityID *string, details models.AuditDetails)

	// ListRecent returns the newest entries, capped, for privileged users
	ListRecent(ctx context.Context, userID string) ([]models.AuditEntry, error)
}
