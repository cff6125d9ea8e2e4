package ratelimit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"veripay/pkg/requestcontext"
)

type MiddlewareSuite struct {
	suite.Suite
	logger *slog.Logger
}

func TestMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(MiddlewareSuite))
}

func (s *MiddlewareSuite) SetupTest() {
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubLimiter struct {
	result *Result
	err    error

	lastIP    string
	lastClass EndpointClass
}

func (m *stubLimiter) CheckIPRateLimit(_ context.Context, ip string, class EndpointClass) (*Result, error) {
	m.lastIP = ip
	m.lastClass = class
	return m.result, m.err
}

func (s *MiddlewareSuite) TestAllowedRequestProceeds() {
	limiter := &stubLimiter{
		result: &Result{
			Allowed:   true,
			Limit:     60,
			Remaining: 59,
			ResetAt:   time.Date(2025, 6, 1, 12, 1, 0, 0, time.UTC),
		},
	}
	mw := NewMiddleware(limiter, s.logger)

	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		w.WriteHeader(http.StatusOK)
	})

	rr := s.serve(mw.RateLimit(ClassVerify)(next), "192.168.1.1")

	s.True(nextCalled)
	s.Equal(http.StatusOK, rr.Code)
	s.Equal("60", rr.Header().Get("X-RateLimit-Limit"))
	s.Equal("59", rr.Header().Get("X-RateLimit-Remaining"))
	s.NotEmpty(rr.Header().Get("X-RateLimit-Reset"))
	s.Equal("192.168.1.1", limiter.lastIP)
	s.Equal(ClassVerify, limiter.lastClass)
}

func (s *MiddlewareSuite) TestBlockedRequestReturns429() {
	limiter := &stubLimiter{
		result: &Result{
			Allowed:    false,
			Limit:      60,
			Remaining:  0,
			ResetAt:    time.Date(2025, 6, 1, 12, 1, 0, 0, time.UTC),
			RetryAfter: 42,
		},
	}
	mw := NewMiddleware(limiter, s.logger)

	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	})

	rr := s.serve(mw.RateLimit(ClassVerify)(next), "192.168.1.1")

	s.False(nextCalled, "blocked request must not reach the handler")
	s.Equal(http.StatusTooManyRequests, rr.Code)
	s.Equal("42", rr.Header().Get("Retry-After"))
	s.Equal("0", rr.Header().Get("X-RateLimit-Remaining"))
	s.Contains(rr.Body.String(), "rate_limited")
}

func (s *MiddlewareSuite) TestFailOpenOnLimiterError() {
	// A broken limiter bypasses limiting rather than taking the API down.
	limiter := &stubLimiter{err: errors.New("store unavailable")}
	mw := NewMiddleware(limiter, s.logger)

	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		w.WriteHeader(http.StatusOK)
	})

	rr := s.serve(mw.RateLimit(ClassLookup)(next), "192.168.1.1")

	s.True(nextCalled, "fail-open: next handler should be called when the check fails")
	s.Equal(http.StatusOK, rr.Code)
	s.Empty(rr.Header().Get("X-RateLimit-Limit"))
}

func (s *MiddlewareSuite) serve(handler http.Handler, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	ctx := requestcontext.WithClientMetadata(req.Context(), ip, "test-agent")
	req = req.WithContext(ctx)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestChecker_ConsumesBudgetPerClass(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	checker, err := NewChecker(NewMemoryStore(),
		WithLogger(logger),
		WithConfig(&Config{IPLimits: map[EndpointClass]Limit{
			ClassVerify: {RequestsPerWindow: 2, Window: time.Minute},
			ClassLookup: {RequestsPerWindow: 5, Window: time.Minute},
		}}),
	)
	require.NoError(t, err)

	ctx := context.Background()

	for i := 0; i < 2; i++ {
		result, err := checker.CheckIPRateLimit(ctx, "10.0.0.1", ClassVerify)
		require.NoError(t, err, "check %d", i)
		require.True(t, result.Allowed, "check %d within budget was blocked", i)
	}

	result, err := checker.CheckIPRateLimit(ctx, "10.0.0.1", ClassVerify)
	require.NoError(t, err)
	assert.False(t, result.Allowed, "third verify check should exceed the budget")

	// Lookup class for the same IP tracks its own budget.
	result, err = checker.CheckIPRateLimit(ctx, "10.0.0.1", ClassLookup)
	require.NoError(t, err)
	assert.True(t, result.Allowed, "lookup class must not share the verify budget")
}

func TestNewChecker_RequiresStore(t *testing.T) {
	_, err := NewChecker(nil)
	assert.Error(t, err, "nil bucket store must be rejected")
}
