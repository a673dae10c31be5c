package middleware

import (
	"context"
	"net/http"
	"strings"

	"eventful/internal/auth"
	"eventful/internal/models"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// memberIDKey is the context key for the authenticated member ID.
	memberIDKey contextKey = "member_id"
	// emailKey is the context key for the authenticated member's email.
	emailKey contextKey = "email"
)

// GetMemberID extracts the authenticated member ID from the context.
// Returns the zero value if not found.
func GetMemberID(ctx context.Context) models.MemberID {
	id, _ := ctx.Value(memberIDKey).(models.MemberID)
	return id
}

// GetEmail extracts the authenticated member's email from the context.
func GetEmail(ctx context.Context) string {
	email, _ := ctx.Value(emailKey).(string)
	return email
}

// RequireAuth validates the Bearer token on every request and adds the
// member ID and email to the request context. Requests without a valid
// token are rejected with 401.
func RequireAuth(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, auth.ErrMissingToken.Error(), http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, auth.ErrInvalidToken.Error(), http.StatusUnauthorized)
				return
			}

			claims, err := jwtManager.Validate(parts[1])
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), memberIDKey, models.MemberID(claims.MemberID))
			ctx = context.WithValue(ctx, emailKey, claims.Email)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
