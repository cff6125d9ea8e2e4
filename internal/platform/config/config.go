package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	platformstrings "veripay/pkg/platform/strings"
)

// Server captures process level configuration.
type Server struct {
	Addr string

	// API auth: plain token compared in constant time, or a bcrypt hash.
	// When both are set the hash wins.
	APIToken     string
	APITokenHash string
	AdminToken   string

	// Verification modes, fixed for the process lifetime.
	StatusGating bool
	AmountCheck  bool

	MaxBulkItems int
	SeedFile     string

	// TracingEnabled switches the engine from the no-op tracer to the
	// OpenTelemetry one. Exporter setup is left to the environment.
	TracingEnabled bool

	RequestTimeout time.Duration
	TrustedProxies []string
	CORSOrigins    []string

	RateLimitVerifyPerMinute int
	RateLimitLookupPerMinute int
	RateLimitAdminPerMinute  int
}

const (
	defaultAddr           = ":8080"
	defaultMaxBulkItems   = 100
	defaultRequestTimeout = 30 * time.Second
	defaultVerifyPerMin   = 60
	defaultLookupPerMin   = 120
	defaultAdminPerMin    = 30
)

// FromEnv builds a Server config from environment variables so main stays lean.
// Every knob has a default; only auth tokens are genuinely required, and their
// absence is surfaced at request time rather than boot.
func FromEnv() Server {
	cfg := Server{
		Addr:           defaultAddr,
		APIToken:       os.Getenv("API_TOKEN"),
		APITokenHash:   os.Getenv("API_TOKEN_HASH"),
		AdminToken:     os.Getenv("ADMIN_TOKEN"),
		StatusGating:   envBool("STATUS_GATING", false),
		AmountCheck:    envBool("AMOUNT_CHECK", false),
		MaxBulkItems:   envInt("MAX_BULK_ITEMS", defaultMaxBulkItems),
		SeedFile:       os.Getenv("SEED_FILE"),
		TracingEnabled: envBool("TRACING_ENABLED", false),
		RequestTimeout: envDuration("REQUEST_TIMEOUT", defaultRequestTimeout),
		TrustedProxies: envList("TRUSTED_PROXIES"),
		CORSOrigins:    envList("CORS_ORIGINS"),

		RateLimitVerifyPerMinute: envInt("RATE_LIMIT_VERIFY_PER_MINUTE", defaultVerifyPerMin),
		RateLimitLookupPerMinute: envInt("RATE_LIMIT_LOOKUP_PER_MINUTE", defaultLookupPerMin),
		RateLimitAdminPerMinute:  envInt("RATE_LIMIT_ADMIN_PER_MINUTE", defaultAdminPerMin),
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Addr = ":" + strings.TrimPrefix(port, ":")
	}

	return cfg
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

// envList splits a comma separated variable, dropping blanks and repeats.
func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	return platformstrings.SplitList(v)
}
