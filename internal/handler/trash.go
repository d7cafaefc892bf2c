package handler

import (
	"log/slog"
	"net/http"

	"promptdesk/internal/domain/models"
	"promptdesk/internal/domain/services"
	"promptdesk/internal/httputil"
)

// TrashHandler handles the trash feed and restore/purge transitions
type TrashHandler struct {
	trash  services.TrashService
	logger *slog.Logger
}

// NewTrashHandler creates a new trash handler
func NewTrashHandler(trash services.TrashService, logger *slog.Logger) *TrashHandler {
	return &TrashHandler{
		trash:  trash,
		logger: logger,
	}
}

// List returns the merged trash feed (admin only)
// GET /api/trash
func (h *TrashHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	items, err := h.trash.List(r.Context(), userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, items)
}

type restoreRequest struct {
	Kind models.ItemKind `json:"kind"`
}

// Restore clears an item's soft-delete timestamp (admin only)
// POST /api/items/{id}/restore
func (h *TrashHandler) Restore(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)
	id := r.PathValue("id")

	var req restoreRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.trash.Restore(r.Context(), userID, id, req.Kind); err != nil {
		handleError(w, h.logger, err)
		return
	}

	respondMutation(w)
}

// Purge permanently removes a trashed item (admin only)
// DELETE /api/items/{id}/purge?kind=folder|file
func (h *TrashHandler) Purge(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)
	id := r.PathValue("id")
	kind := models.ItemKind(r.URL.Query().Get("kind"))

	if err := h.trash.Purge(r.Context(), userID, id, kind); err != nil {
		handleError(w, h.logger, err)
		return
	}

	respondMutation(w)
}
