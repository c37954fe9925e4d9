package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const subjectCtxKey contextKey = "subject"

// Subject returns the authenticated token subject from the request context.
func Subject(ctx context.Context) string {
	subject, _ := ctx.Value(subjectCtxKey).(string)
	return subject
}

// Middleware validates the Bearer token, enforces the required scope, and
// injects the token subject into the request context.
func Middleware(svc *TokenService, requiredScope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "invalid token format", http.StatusUnauthorized)
				return
			}

			subject, scope, err := svc.ValidateToken(parts[1])
			if err != nil {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			if !hasScope(scope, requiredScope) {
				http.Error(w, "insufficient scope", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), subjectCtxKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func hasScope(granted, required string) bool {
	if required == "" {
		return true
	}
	for _, s := range strings.Fields(granted) {
		if s == required {
			return true
		}
	}
	return false
}
