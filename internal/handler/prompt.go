package handler

import (
	"log/slog"
	"net/http"

	"promptdesk/internal/domain/models"
	"promptdesk/internal/domain/services"
	"promptdesk/internal/httputil"
)

// PromptHandler handles prompt saves, listings and version history
type PromptHandler struct {
	prompts services.PromptService
	logger  *slog.Logger
}

// NewPromptHandler creates a new prompt handler
func NewPromptHandler(prompts services.PromptService, logger *slog.Logger) *PromptHandler {
	return &PromptHandler{
		prompts: prompts,
		logger:  logger,
	}
}

type savePromptResponse struct {
	Success bool           `json:"success"`
	Created bool           `json:"created"`
	Refresh bool           `json:"refresh"`
	Prompt  *models.Prompt `json:"prompt"`
}

// Save creates or updates a prompt, appending one version record
// POST /api/prompts
func (h *PromptHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	var req services.SavePromptRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	prompt, created, err := h.prompts.Save(r.Context(), userID, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	httputil.RespondJSON(w, status, savePromptResponse{
		Success: true,
		Created: created,
		Refresh: true,
		Prompt:  prompt,
	})
}

// ListOwn lists the caller's prompts, newest first
// GET /api/prompts
func (h *PromptHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	prompts, err := h.prompts.ListOwn(r.Context(), userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, prompts)
}

// ListVersions lists a prompt's version history, oldest first
// GET /api/prompts/{id}/versions
func (h *PromptHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)
	id := r.PathValue("id")

	versions, err := h.prompts.ListVersions(r.Context(), userID, id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, versions)
}

// ListFolders lists the folders the caller may save or move prompts into
// GET /api/prompts/folders
func (h *PromptHandler) ListFolders(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	folders, err := h.prompts.ListAvailableFolders(r.Context(), userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folders)
}
