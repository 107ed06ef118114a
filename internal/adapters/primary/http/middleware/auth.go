package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shelfdesk/metrics-backend/internal/auth"
	"github.com/shelfdesk/metrics-backend/internal/core/domain"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// UserClaimsKey is the key used to store user claims in the request context.
const UserClaimsKey contextKey = "userClaims"

// JWTMiddleware validates the JWT token from the Authorization header.
func JWTMiddleware(tm *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeAuthError(w, http.StatusUnauthorized, "Authorization header is required")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				writeAuthError(w, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
				return
			}

			claims, err := tm.ValidateToken(parts[1])
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			// Add the claims to the context for downstream handlers to use.
			ctx := context.WithValue(r.Context(), UserClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireMetricsRole rejects requests whose token role cannot view metrics.
// Must run after JWTMiddleware.
func RequireMetricsRole(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetClaims(r.Context())
		if !ok {
			writeAuthError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		if !domain.UserRole(claims.Role).CanViewMetrics() {
			writeAuthError(w, http.StatusForbidden, "Insufficient permissions to view metrics")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GetClaims retrieves the authenticated user's claims from the context.
func GetClaims(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(*auth.Claims)
	return claims, ok
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"success":false,"error":{"message":"` + message + `"}}`))
}
