// Package httptransport assembles the HTTP surface: the middleware chain,
// the bearer-authed verification API, the admin debug listing, and the
// public health and metrics endpoints.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"veripay/internal/platform/config"
	"veripay/internal/platform/health"
	"veripay/internal/ratelimit"
	verifyhandler "veripay/internal/verify/handler"
	"veripay/pkg/platform/middleware/admin"
	"veripay/pkg/platform/middleware/auth"
	"veripay/pkg/platform/middleware/metadata"
	"veripay/pkg/platform/middleware/request"
	"veripay/pkg/platform/middleware/requesttime"
	"veripay/pkg/platform/validation"
)

// Deps carries the wired collaborators the router mounts. Business logic
// stays in the services; the router only arranges middleware and routes.
type Deps struct {
	Verify  *verifyhandler.Handler
	Health  *health.Handler
	Auth    *auth.Verifier
	Limiter *ratelimit.Middleware
	Metrics *request.Metrics
}

// NewRouter wires all endpoints with middleware. The /api verification
// routes carry bearer auth and per-class rate limits, the admin listing
// requires the admin token, and health and metrics stay public.
func NewRouter(cfg config.Server, logger *slog.Logger, deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(request.Recovery(logger))
	r.Use(request.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(metadata.NewMiddleware(&metadata.Config{
		TrustedProxies: metadata.ParseTrustedProxies(cfg.TrustedProxies),
	}).Handler)
	r.Use(request.Logger(logger))
	r.Use(request.LatencyMiddleware(deps.Metrics))
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
			MaxAge:         300,
		}))
	}
	r.Use(request.Timeout(cfg.RequestTimeout))
	r.Use(request.BodyLimit(validation.MaxBodySize))
	r.Use(request.ContentTypeJSON)

	deps.Health.Register(r)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		// Verification API: bearer token, rate limited per endpoint class.
		api.Group(func(g chi.Router) {
			g.Use(auth.RequireAuth(deps.Auth, logger))

			g.Group(func(v chi.Router) {
				v.Use(deps.Limiter.RateLimit(ratelimit.ClassVerify))
				v.Post("/verify-invoice", deps.Verify.HandleVerify)
				v.Post("/verify-invoices", deps.Verify.HandleVerifyBulk)
			})

			g.Group(func(l chi.Router) {
				l.Use(deps.Limiter.RateLimit(ratelimit.ClassLookup))
				l.Get("/invoice/{invoiceId}", deps.Verify.HandleLookup)
			})
		})

		// Debug listing: admin token instead of bearer auth.
		api.Group(func(g chi.Router) {
			g.Use(admin.RequireAdminToken(cfg.AdminToken, logger))
			g.Use(deps.Limiter.RateLimit(ratelimit.ClassAdmin))
			deps.Verify.RegisterAdmin(g)
		})
	})

	return r
}
