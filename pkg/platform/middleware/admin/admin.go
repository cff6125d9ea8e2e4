package admin

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"

	"veripay/pkg/requestcontext"
)

// Context key for storing admin actor identifier.
type contextKeyAdminActorID struct{}

// ContextKeyAdminActorID is exported for use in handlers and tests.
var ContextKeyAdminActorID = contextKeyAdminActorID{}

type contextKeyAdminAuthorized struct{}

// GetAdminActorID retrieves the admin actor identifier from the context.
// Returns empty string if not set or if this is not an admin request.
func GetAdminActorID(ctx context.Context) string {
	if actorID, ok := ctx.Value(ContextKeyAdminActorID).(string); ok {
		return actorID
	}
	return ""
}

// IsAdminRequest reports whether the request passed admin token validation.
func IsAdminRequest(ctx context.Context) bool {
	authorized, ok := ctx.Value(contextKeyAdminAuthorized{}).(bool)
	return ok && authorized
}

// RequireAdminToken gates operator routes behind the X-Admin-Token header.
// An empty expected token disables the surface entirely: without the check,
// the compare would wave through requests carrying no header at all.
func RequireAdminToken(expectedToken string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if expectedToken == "" {
				logger.WarnContext(ctx, "admin request rejected - surface disabled",
					"request_id", requestcontext.RequestID(ctx),
				)
				writeUnauthorized(w, "admin access is not configured")
				return
			}

			token := r.Header.Get("X-Admin-Token")
			// Constant-time comparison to prevent timing attacks.
			if subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) != 1 {
				logger.WarnContext(ctx, "admin token mismatch",
					"request_id", requestcontext.RequestID(ctx),
				)
				writeUnauthorized(w, "admin token required")
				return
			}

			ctx = context.WithValue(ctx, contextKeyAdminAuthorized{}, true)

			// Capture admin actor identifier for audit attribution.
			// This header identifies which admin performed the action.
			if actorID := r.Header.Get("X-Admin-Actor-ID"); actorID != "" {
				ctx = context.WithValue(ctx, ContextKeyAdminActorID, actorID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, desc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + desc + `"}`))
}
