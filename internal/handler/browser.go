package handler

import (
	"log/slog"
	"net/http"

	"promptdesk/internal/domain/models"
	"promptdesk/internal/domain/services"
	"promptdesk/internal/httputil"
)

// BrowserHandler handles folder resolution and hierarchy mutations
type BrowserHandler struct {
	browser services.BrowserService
	logger  *slog.Logger
}

// NewBrowserHandler creates a new browser handler
func NewBrowserHandler(browser services.BrowserService, logger *slog.Logger) *BrowserHandler {
	return &BrowserHandler{
		browser: browser,
		logger:  logger,
	}
}

// ResolveFolder resolves a folder reference into its contents
// GET /api/browser/{ref} and GET /api/browser (personal root)
func (h *BrowserHandler) ResolveFolder(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)
	ref := r.PathValue("ref")

	view, err := h.browser.ResolveFolder(r.Context(), userID, ref)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, view)
}

type createFolderRequest struct {
	ParentRef string `json:"parent_ref"`
	Name      string `json:"name"`
}

// CreateFolder creates a subfolder under a resolvable parent
// POST /api/folders
func (h *BrowserHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	var req createFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	folder, err := h.browser.CreateSubfolder(r.Context(), userID, req.ParentRef, req.Name)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, folder)
}

type createDepartmentRequest struct {
	Name string `json:"name"`
}

// CreateDepartment creates a department root folder (admin only)
// POST /api/departments
func (h *BrowserHandler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	var req createDepartmentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	folder, err := h.browser.CreateDepartment(r.Context(), userID, req.Name)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, folder)
}

type renameRequest struct {
	Kind    models.ItemKind `json:"kind"`
	NewName string          `json:"new_name"`
	OldName string          `json:"old_name"`
}

// RenameItem renames a folder or prompt
// POST /api/items/{id}/rename
func (h *BrowserHandler) RenameItem(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)
	id := r.PathValue("id")

	var req renameRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.browser.RenameItem(r.Context(), userID, &services.RenameRequest{
		ID:      id,
		Kind:    req.Kind,
		NewName: req.NewName,
		OldName: req.OldName,
	})
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	respondMutation(w)
}

type moveRequest struct {
	Kind            models.ItemKind `json:"kind"`
	NewParentID     string          `json:"new_parent_id"`
	DestinationName string          `json:"destination_name"`
}

// MoveItem reparents a folder or reassigns a prompt's folder
// POST /api/items/{id}/move
func (h *BrowserHandler) MoveItem(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)
	id := r.PathValue("id")

	var req moveRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.browser.MoveItem(r.Context(), userID, &services.MoveRequest{
		ID:              id,
		Kind:            req.Kind,
		NewParentID:     req.NewParentID,
		DestinationName: req.DestinationName,
	})
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	respondMutation(w)
}

// DeleteItem soft-deletes a folder or prompt
// DELETE /api/items/{id}?kind=folder|file
func (h *BrowserHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)
	id := r.PathValue("id")
	kind := models.ItemKind(r.URL.Query().Get("kind"))

	if err := h.browser.DeleteItem(r.Context(), userID, id, kind); err != nil {
		handleError(w, h.logger, err)
		return
	}

	respondMutation(w)
}

type toggleActiveRequest struct {
	Active bool `json:"active"`
}

// ToggleFolderActive flips a folder's active flag (admin only)
// POST /api/folders/{id}/active
func (h *BrowserHandler) ToggleFolderActive(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)
	id := r.PathValue("id")

	var req toggleActiveRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.browser.ToggleFolderActive(r.Context(), userID, id, req.Active); err != nil {
		handleError(w, h.logger, err)
		return
	}

	respondMutation(w)
}

// ListSidebar returns the departments visible to the caller
// GET /api/sidebar
func (h *BrowserHandler) ListSidebar(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	sidebar, err := h.browser.ListSidebar(r.Context(), userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, sidebar)
}
