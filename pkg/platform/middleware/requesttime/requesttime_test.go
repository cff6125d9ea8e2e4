package requesttime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMiddleware_PinsArrivalTime(t *testing.T) {
	var captured time.Time
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = Now(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	before := time.Now()
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	after := time.Now()

	assert.False(t, captured.IsZero())
	assert.False(t, captured.Before(before))
	assert.False(t, captured.After(after))
}

func TestMiddleware_SameReadingThroughoutRequest(t *testing.T) {
	var first, second time.Time
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		first = Now(r.Context())
		time.Sleep(5 * time.Millisecond)
		second = Now(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, first, second)
}

func TestNow_FallsBackWithoutMiddleware(t *testing.T) {
	before := time.Now()
	got := Now(context.Background())
	after := time.Now()

	assert.False(t, got.Before(before))
	assert.False(t, got.After(after))
}

func TestWithTime_FreezesClock(t *testing.T) {
	frozen := time.Date(2026, time.March, 1, 8, 0, 0, 0, time.UTC)

	assert.Equal(t, frozen, Now(WithTime(context.Background(), frozen)))
}

func TestWithTime_LatestPinWins(t *testing.T) {
	older := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

	ctx := WithTime(context.Background(), older)
	ctx = WithTime(ctx, newer)

	assert.Equal(t, newer, Now(ctx))
}
