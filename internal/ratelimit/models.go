package ratelimit

import (
	"time"
)

// EndpointClass buckets routes by traffic profile so each class carries its
// own limit.
type EndpointClass string

const (
	// ClassVerify: verification endpoints - /api/verify-invoice, /api/verify-invoices
	ClassVerify EndpointClass = "verify"
	// ClassLookup: read endpoints - /api/invoice/{invoiceId}
	ClassLookup EndpointClass = "lookup"
	// ClassAdmin: operator endpoints - /admin/*
	ClassAdmin EndpointClass = "admin"
)

func (c EndpointClass) IsValid() bool {
	switch c {
	case ClassVerify, ClassLookup, ClassAdmin:
		return true
	}
	return false
}

func (c EndpointClass) String() string {
	return string(c)
}

// Result is the outcome of a rate limit check.
type Result struct {
	Allowed    bool      `json:"allowed"`
	Limit      int       `json:"limit"`
	Remaining  int       `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
	RetryAfter int       `json:"retry_after,omitempty"` // seconds, only set when not allowed
}

// Limit defines rate limit parameters for an endpoint class.
type Limit struct {
	RequestsPerWindow int
	Window            time.Duration
}

// Config holds per-class IP rate limits.
type Config struct {
	IPLimits map[EndpointClass]Limit
}

// DefaultConfig returns the limits applied when none are configured.
func DefaultConfig() *Config {
	return &Config{
		IPLimits: map[EndpointClass]Limit{
			ClassVerify: {RequestsPerWindow: 60, Window: time.Minute},
			ClassLookup: {RequestsPerWindow: 120, Window: time.Minute},
			ClassAdmin:  {RequestsPerWindow: 30, Window: time.Minute},
		},
	}
}

// GetIPLimit returns the limit for a class, falling back to the verify class
// so unknown classes are never unlimited.
func (c *Config) GetIPLimit(class EndpointClass) (int, time.Duration) {
	if l, ok := c.IPLimits[class]; ok {
		return l.RequestsPerWindow, l.Window
	}
	fallback := c.IPLimits[ClassVerify]
	return fallback.RequestsPerWindow, fallback.Window
}
