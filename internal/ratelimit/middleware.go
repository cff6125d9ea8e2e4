package ratelimit

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	dErrors "veripay/pkg/domain-errors"
	"veripay/pkg/platform/httputil"
	"veripay/pkg/platform/privacy"
	"veripay/pkg/requestcontext"
)

var checksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "veripay_ratelimit_checks_total",
	Help: "Rate limit checks by endpoint class and outcome.",
}, []string{"class", "outcome"})

// RateLimiter is the checker surface the middleware depends on.
type RateLimiter interface {
	CheckIPRateLimit(ctx context.Context, ip string, class EndpointClass) (*Result, error)
}

// Middleware enforces per-IP limits ahead of the handlers.
type Middleware struct {
	limiter RateLimiter
	logger  *slog.Logger
}

func NewMiddleware(limiter RateLimiter, logger *slog.Logger) *Middleware {
	return &Middleware{
		limiter: limiter,
		logger:  logger,
	}
}

// RateLimit returns middleware enforcing the per-IP limit for an endpoint
// class. Limiter failures fail open: a broken limiter must not take the API
// down with it.
func (m *Middleware) RateLimit(class EndpointClass) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ip := requestcontext.ClientIP(ctx)

			result, err := m.limiter.CheckIPRateLimit(ctx, ip, class)
			if err != nil {
				m.logger.ErrorContext(ctx, "rate limit check failed",
					"error", err,
					"ip_prefix", privacy.AnonymizeIP(ip))
				next.ServeHTTP(w, r)
				return
			}

			// Headers go out regardless of outcome so clients can pace themselves.
			addRateLimitHeaders(w, result)
			observeCheck(class, result.Allowed)

			if !result.Allowed {
				w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
				httputil.WriteError(w, dErrors.New(dErrors.CodeRateLimited,
					"too many requests from this address, please retry later"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// addRateLimitHeaders adds X-RateLimit-* headers to the response.
func addRateLimitHeaders(w http.ResponseWriter, result *Result) {
	if result == nil {
		return
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

func observeCheck(class EndpointClass, allowed bool) {
	outcome := "allowed"
	if !allowed {
		outcome = "blocked"
	}
	checksTotal.WithLabelValues(string(class), outcome).Inc()
}
