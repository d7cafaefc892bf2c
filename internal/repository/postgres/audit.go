package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"promptdesk/internal/domain/models"
	"promptdesk/internal/domain/repositories"
)

// PostgresAuditRepository implements the AuditRepository interface
type PostgresAuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(config *RepositoryConfig) repositories.AuditRepository {
	return &PostgresAuditRepository{pool: config.Pool}
}

// Append writes one audit entry
func (r *PostgresAuditRepository) Append(ctx context.Context, entry *models.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	entry.CreatedAt = time.Now()
	if len(entry.Details) == 0 {
		entry.Details = []byte("{}")
	}

	query := `
		INSERT INTO audit_log (id, user_id, action, entity_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		entry.ID,
		entry.UserID,
		entry.Action,
		entry.EntityID,
		entry.Details,
		entry.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}

	return nil
}

// ListRecent lists the newest entries first with actor names joined in. The
// join is LEFT so entries from since-deleted accounts still show up.
func (r *PostgresAuditRepository) ListRecent(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	query := `
		SELECT a.id, a.user_id, a.action, a.entity_id, a.details, a.created_at,
		       COALESCE(u.full_name, ''), COALESCE(u.email, '')
		FROM audit_log a
		LEFT JOIN users u ON u.id = a.user_id
		ORDER BY a.created_at DESC
		LIMIT $1
	`

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []models.AuditEntry
	for rows.Next() {
		var entry models.AuditEntry
		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Action,
			&entry.EntityID,
			&entry.Details,
			&entry.CreatedAt,
			&entry.ActorName,
			&entry.ActorEmail,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}

	return entries, nil
}
