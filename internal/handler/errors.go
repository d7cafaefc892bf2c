package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"promptdesk/internal/domain"
	"promptdesk/internal/httputil"
)

// handleError maps domain errors to RFC 7807 problem responses. Department
// denials carry the department label as an extra field so the UI can name
// the department in its message.
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var deptErr *domain.DepartmentAccessError
	if errors.As(err, &deptErr) {
		httputil.RespondErrorWithExtras(w, deptErr.StatusCode(), deptErr.Error(), map[string]interface{}{
			"department": deptErr.Department,
		})
		return
	}

	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		httputil.RespondError(w, httpErr.StatusCode(), httpErr.Error())
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, "forbidden")
	default:
		logger.Error("request failed", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// mutationResponse is the uniform mutation result: success plus a staleness
// signal telling the caller to refresh cached views of the hierarchy.
type mutationResponse struct {
	Success bool   `json:"success"`
	Reason  string `json:"reason,omitempty"`
	Refresh bool   `json:"refresh,omitempty"`
}

func respondMutation(w http.ResponseWriter) {
	httputil.RespondJSON(w, http.StatusOK, mutationResponse{Success: true, Refresh: true})
}
