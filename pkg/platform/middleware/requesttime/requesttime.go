// Package requesttime pins one wall-clock reading to each HTTP request.
// Handlers that stamp responses read the pinned time instead of calling
// time.Now repeatedly, so a single request never reports two different
// timestamps.
package requesttime

import (
	"context"
	"net/http"
	"time"
)

type requestTimeKey struct{}

// Middleware records the arrival time of the request in its context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Now returns the time pinned to ctx, or the current time when ctx carries
// none (background jobs, CLI paths, tests without the middleware).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime pins t to the context. Tests use it to freeze the clock without
// running the middleware chain.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}
