package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"promptdesk/internal/domain"
	"promptdesk/internal/domain/models"
	"promptdesk/internal/domain/repositories"
	"promptdesk/internal/domain/services"
)

// Audit action tags. Free-form strings on the wire; the constants keep the
// services and the log view in agreement.
const (
	ActionCreateFolder     = "create_folder"
	ActionCreateDepartment = "create_department"
	ActionRename           = "rename"
	ActionMove             = "move"
	ActionDelete           = "delete"
	ActionRestore          = "restore"
	ActionPurge            = "purge"
	ActionToggleActive     = "toggle_active"
	ActionSavePrompt       = "save_prompt"
	ActionCreateUser       = "create_user"
	ActionUpdateUser       = "update_user"
	ActionToggleUser       = "toggle_user"
	ActionDeleteUser       = "delete_user"
)

// auditLogLimit bounds the admin log view to the newest entries.
const auditLogLimit = 100

type auditService struct {
	auditRepo repositories.AuditRepository
	userRepo  repositories.UserRepository
	logger    *slog.Logger
}

// NewAuditService creates a new audit recorder
func NewAuditService(
	auditRepo repositories.AuditRepository,
	userRepo repositories.UserRepository,
	logger *slog.Logger,
) services.AuditRecorder {
	return &auditService{
		auditRepo: auditRepo,
		userRepo:  userRepo,
		logger:    logger,
	}
}

// Record appends one audit entry. Best-effort: a missing actor no-ops and a
// storage failure is logged and swallowed so the triggering mutation still
// reports success.
func (s *auditService) Record(ctx context.Context, actorID, action string, entityID *string, details models.AuditDetails) {
	if actorID == "" {
		return
	}

	payload := json.RawMessage("{}")
	if details != nil {
		encoded, err := json.Marshal(details)
		if err != nil {
			s.logger.Warn("audit details not serializable", "action", action, "error", err)
		} else {
			payload = encoded
		}
	}

	entry := &models.AuditEntry{
		UserID:   actorID,
		Action:   action,
		EntityID: entityID,
		Details:  payload,
	}

	if err := s.auditRepo.Append(ctx, entry); err != nil {
		s.logger.Warn("audit append failed", "action", action, "actor_id", actorID, "error", err)
	}
}

// ListRecent returns the newest entries for privileged users.
func (s *auditService) ListRecent(ctx context.Context, userID string) ([]models.AuditEntry, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, &domain.ForbiddenError{Message: "audit log requires administrator role"}
	}

	return s.auditRepo.ListRecent(ctx, auditLogLimit)
}
