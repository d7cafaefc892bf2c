package handler

import (
	"log/slog"
	"net/http"

	"promptdesk/internal/domain/services"
	"promptdesk/internal/httputil"
)

// UserHandler handles privileged user administration
type UserHandler struct {
	users  services.UserAdminService
	logger *slog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(users services.UserAdminService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		logger: logger,
	}
}

// List returns every user with their department grants (admin only)
// GET /api/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	users, err := h.users.List(r.Context(), userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, users)
}

// Create provisions a new user (admin only)
// POST /api/users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	var req services.CreateUserRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.users.Create(r.Context(), userID, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, user)
}

// Update changes a user's role and department grants (admin only)
// PATCH /api/users/{id}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	actorID := httputil.GetUserID(r)
	id := r.PathValue("id")

	var req services.UpdateUserRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.users.Update(r.Context(), actorID, id, &req); err != nil {
		handleError(w, h.logger, err)
		return
	}

	respondMutation(w)
}

// ToggleActive flips a user's active flag (admin only)
// POST /api/users/{id}/active
func (h *UserHandler) ToggleActive(w http.ResponseWriter, r *http.Request) {
	actorID := httputil.GetUserID(r)
	id := r.PathValue("id")

	if err := h.users.ToggleActive(r.Context(), actorID, id); err != nil {
		handleError(w, h.logger, err)
		return
	}

	respondMutation(w)
}

// Delete soft-deletes a user and frees their email (admin only)
// DELETE /api/users/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actorID := httputil.GetUserID(r)
	id := r.PathValue("id")

	if err := h.users.Delete(r.Context(), actorID, id); err != nil {
		handleError(w, h.logger, err)
		return
	}

	respondMutation(w)
}

// ListDepartments lists department folders for the admin grant picker
// GET /api/users/departments
func (h *UserHandler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.users.ListDepartments(r.Context())
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, departments)
}
