package handler

import (
	"log/slog"
	"net/http"

	"promptdesk/internal/domain/services"
	"promptdesk/internal/httputil"
)

// AuditHandler exposes the admin audit log view
type AuditHandler struct {
	audit  services.AuditRecorder
	logger *slog.Logger
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(audit services.AuditRecorder, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{
		audit:  audit,
		logger: logger,
	}
}

// ListRecent returns the newest audit entries (admin only)
// GET /api/audit
func (h *AuditHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	entries, err := h.audit.ListRecent(r.Context(), userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, entries)
}
