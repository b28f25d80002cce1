package middleware

import (
	"net/http"
	"strings"

	"authgate/internal/security"
)

const bearerPrefix = "bearer "

// RequireAuth returns middleware that validates the Bearer (access) token from
// the Authorization header and sets user_id and session_id in the request
// context. Requests without a valid token get 401.
func RequireAuth(tokens *security.TokenProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearer(r.Header.Get("Authorization"))
			if token == "" {
				http.Error(w, `{"error":"missing or invalid authorization"}`, http.StatusUnauthorized)
				return
			}
			sessionID, userID, err := tokens.ValidateAccess(token)
			if err != nil {
				http.Error(w, `{"error":"missing or invalid authorization"}`, http.StatusUnauthorized)
				return
			}
			ctx := WithIdentity(r.Context(), userID, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth returns middleware that sets user_id and session_id in context
// when a valid Bearer token is present, and passes the request through
// unauthenticated otherwise. Used on public routes like logout that can make
// use of an access token without requiring one.
func OptionalAuth(tokens *security.TokenProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearer(r.Header.Get("Authorization"))
			if token != "" {
				if sessionID, userID, err := tokens.ValidateAccess(token); err == nil {
					r = r.WithContext(WithIdentity(r.Context(), userID, sessionID))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractBearer returns the Bearer token from an Authorization header value,
// or "" if missing or malformed.
func extractBearer(header string) string {
	v := strings.TrimSpace(header)
	if len(v) < len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}
