package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	id "nachlass/pkg/domain"
	"nachlass/pkg/requestcontext"
)

// SessionClaims is the validated scope of a session token.
type SessionClaims struct {
	UniverseID id.UniverseID
	AdminID    id.MemberID
}

// SessionValidator validates a bearer token into session claims. The token
// service implements it through an adapter.
type SessionValidator interface {
	ValidateToken(tokenString string) (*SessionClaims, error)
}

// RequireAuth validates the bearer token and resolves the caller's universe
// and admin member into the request context. Handlers downstream read the
// scope exclusively from the context, never from the client.
func RequireAuth(validator SessionValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			const bearerPrefix = "Bearer "
			after, ok := strings.CutPrefix(authHeader, bearerPrefix)
			if !ok {
				ctx := r.Context()
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(ctx),
				)
				writeUnauthorized(w, "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(after)
			if err != nil {
				ctx := r.Context()
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx := requestcontext.WithUniverseID(r.Context(), claims.UniverseID)
			ctx = requestcontext.WithAdminID(ctx, claims.AdminID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
}
