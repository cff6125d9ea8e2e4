package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	dErrors "veripay/pkg/domain-errors"
	"veripay/pkg/platform/privacy"
)

const keyPrefixIP = "ip"

// BucketStore defines the persistence interface for rate limit counters.
type BucketStore interface {
	// Allow checks if a request is allowed and increments the counter.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error)
}

// Checker evaluates rate limits for incoming requests.
type Checker struct {
	buckets BucketStore
	config  *Config
	logger  *slog.Logger
}

type Option func(*Checker)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) {
		c.logger = logger
	}
}

func WithConfig(cfg *Config) Option {
	return func(c *Checker) {
		c.config = cfg
	}
}

func NewChecker(buckets BucketStore, opts ...Option) (*Checker, error) {
	if buckets == nil {
		return nil, fmt.Errorf("bucket store is required")
	}

	c := &Checker{
		buckets: buckets,
		config:  DefaultConfig(),
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// CheckIPRateLimit checks and consumes one slot of the per-IP budget for the
// given endpoint class. IPs are only ever logged in anonymized form.
func (c *Checker) CheckIPRateLimit(ctx context.Context, ip string, class EndpointClass) (*Result, error) {
	requestsPerWindow, window := c.config.GetIPLimit(class)

	key := fmt.Sprintf("%s:%s:%s", keyPrefixIP, ip, class)
	result, err := c.buckets.Allow(ctx, key, requestsPerWindow, window)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check rate limit")
	}

	if !result.Allowed {
		c.logger.WarnContext(ctx, "rate limit exceeded",
			"ip_prefix", privacy.AnonymizeIP(ip),
			"endpoint_class", class,
			"limit", requestsPerWindow,
			"window_seconds", int(window.Seconds()),
		)
	}

	return result, nil
}
