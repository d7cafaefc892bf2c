package middleware

import (
	"net/http"
	"strings"

	"promptdesk/internal/auth"
	"promptdesk/internal/httputil"
)

// Auth middleware validates the Bearer session token and stores the subject
// user id in the request context. Role checks happen downstream: the token
// only proves who is calling, not what they may do.
func Auth(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			userID, err := tokens.Verify(token)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid session token")
				return
			}

			next.ServeHTTP(w, httputil.WithUserID(r, userID))
		})
	}
}
