package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	dErrors "veripay/pkg/domain-errors"
	"veripay/pkg/requestcontext"
	"veripay/pkg/secrets"
)

// Verifier checks presented API tokens against the configured credential.
// Two sources are supported: a plain token compared in constant time, or a
// bcrypt hash. When both are set the hash wins.
type Verifier struct {
	token     string
	tokenHash string
}

// NewVerifier creates a verifier from the configured token material.
func NewVerifier(token, tokenHash string) *Verifier {
	return &Verifier{token: token, tokenHash: tokenHash}
}

// Configured reports whether any credential source is set. An unconfigured
// verifier is a deployment fault, not a client error.
func (v *Verifier) Configured() bool {
	return v.token != "" || v.tokenHash != ""
}

// Verify returns nil when the presented token matches the configured
// credential.
func (v *Verifier) Verify(presented string) error {
	if !v.Configured() {
		return dErrors.New(dErrors.CodeInternal, "API token is not configured")
	}

	if v.tokenHash != "" {
		return secrets.Verify(presented, v.tokenHash)
	}

	// Hash both sides first so comparison time does not depend on length.
	presentedSum := sha256.Sum256([]byte(presented))
	configuredSum := sha256.Sum256([]byte(v.token))
	if subtle.ConstantTimeCompare(presentedSum[:], configuredSum[:]) != 1 {
		return dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	return nil
}

// writeJSONError writes a JSON error response with the given status code and error details.
func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}

// RequireAuth returns middleware that enforces a bearer token on the wrapped
// routes. A missing or mismatched token yields 401; a server without a
// configured token yields 500, never a silent pass.
func RequireAuth(verifier *Verifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if !verifier.Configured() {
				logger.ErrorContext(ctx, "auth rejected - no API token configured",
					"request_id", requestcontext.RequestID(ctx),
				)
				writeJSONError(w, http.StatusInternalServerError, "internal_error", "Authentication is not configured")
				return
			}

			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing bearer token",
					"request_id", requestcontext.RequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
				return
			}

			if err := verifier.Verify(token); err != nil {
				if dErrors.HasCode(err, dErrors.CodeUnauthorized) {
					logger.WarnContext(ctx, "unauthorized access - invalid token",
						"request_id", requestcontext.RequestID(ctx),
					)
					writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid API token")
					return
				}
				logger.ErrorContext(ctx, "token verification failed",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				writeJSONError(w, http.StatusInternalServerError, "internal_error", "Failed to verify token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
