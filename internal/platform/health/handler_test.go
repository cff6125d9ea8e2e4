package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"veripay/pkg/platform/middleware/requesttime"
)

type HealthSuite struct {
	suite.Suite
}

func TestHealthSuite(t *testing.T) {
	suite.Run(t, new(HealthSuite))
}

func (s *HealthSuite) serve(h *Handler, path string) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	h.Register(router)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func (s *HealthSuite) TestLiveness() {
	rec := s.serve(New(), "/health/live")

	s.Equal(http.StatusOK, rec.Code)

	var resp LivenessResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("alive", resp.Status)
}

func (s *HealthSuite) TestReadiness_NoChecksIsReady() {
	rec := s.serve(New(), "/health/ready")

	s.Equal(http.StatusOK, rec.Code)

	var resp ReadinessResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("ready", resp.Status)
}

func (s *HealthSuite) TestReadiness_HealthyChecks() {
	h := New()
	h.RegisterCheck("store", func(_ context.Context) error { return nil })

	rec := s.serve(h, "/health/ready")

	s.Equal(http.StatusOK, rec.Code)

	var resp ReadinessResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("ready", resp.Status)
	s.Equal("up", resp.Checks["store"])
}

func (s *HealthSuite) TestReadiness_FailingCheckReturns503() {
	h := New()
	h.RegisterCheck("store", func(_ context.Context) error { return errors.New("connection refused") })
	h.RegisterCheck("cache", func(_ context.Context) error { return nil })

	rec := s.serve(h, "/health/ready")

	s.Equal(http.StatusServiceUnavailable, rec.Code)

	var resp ReadinessResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("not_ready", resp.Status)
	s.Equal("down: connection refused", resp.Checks["store"])
	s.Equal("up", resp.Checks["cache"])
}

func (s *HealthSuite) TestStatus_Healthy() {
	h := New()
	h.RegisterCheck("store", func(_ context.Context) error { return nil })

	rec := s.serve(h, "/health")

	s.Equal(http.StatusOK, rec.Code)

	var resp StatusResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("healthy", resp.Status)
	s.Equal(Version, resp.Version)
	s.GreaterOrEqual(resp.UptimeSeconds, int64(0))
	s.NotEmpty(resp.Timestamp)
	s.Equal("up", resp.Checks["store"])
}

func (s *HealthSuite) TestStatus_DegradedStaysUp() {
	h := New()
	h.RegisterCheck("store", func(_ context.Context) error { return errors.New("store offline") })

	rec := s.serve(h, "/health")

	s.Equal(http.StatusOK, rec.Code)

	var resp StatusResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("degraded", resp.Status)
	s.Equal("down: store offline", resp.Checks["store"])
}

func (s *HealthSuite) TestStatus_UsesRequestScopedTime() {
	frozen := time.Date(2026, time.April, 2, 16, 45, 0, 0, time.UTC)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req = req.WithContext(requesttime.WithTime(req.Context(), frozen))
	rec := httptest.NewRecorder()
	New().HandleStatus(rec, req)

	var resp StatusResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal(frozen.Format(time.RFC3339), resp.Timestamp)
}

func (s *HealthSuite) TestStatus_CheckReceivesRequestContext() {
	h := New()
	var sawCtx bool
	h.RegisterCheck("ctx", func(ctx context.Context) error {
		sawCtx = ctx != nil
		return nil
	})

	s.serve(h, "/health")
	s.True(sawCtx)
}
