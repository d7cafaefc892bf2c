package handler

import (
	"log/slog"
	"net/http"

	"promptdesk/internal/auth"
	"promptdesk/internal/domain/models"
	"promptdesk/internal/domain/services"
	"promptdesk/internal/httputil"
)

// AuthHandler handles credential login
type AuthHandler struct {
	identity services.IdentityResolver
	tokens   *auth.TokenManager
	logger   *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(identity services.IdentityResolver, tokens *auth.TokenManager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		identity: identity,
		tokens:   tokens,
		logger:   logger,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Login verifies credentials and issues a session token
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.identity.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}
