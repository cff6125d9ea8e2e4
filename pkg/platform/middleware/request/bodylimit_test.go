package request

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postThroughBodyLimit(t *testing.T, maxBytes int64, body string) (int, error) {
	t.Helper()

	var readErr error
	var readLen int
	handler := BodyLimit(maxBytes)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var data []byte
		data, readErr = io.ReadAll(r.Body)
		readLen = len(data)
	}))

	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/verify-invoice", rd)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	return readLen, readErr
}

func TestBodyLimit_SmallPayloadReadable(t *testing.T) {
	payload := `{"invoiceId": "12345", "amount": "5000.00"}`

	n, err := postThroughBodyLimit(t, 1024, payload)

	require.NoError(t, err)
	assert.Equal(t, len(payload), n)
}

func TestBodyLimit_ExactCapStillReadable(t *testing.T) {
	payload := strings.Repeat("9", 64)

	n, err := postThroughBodyLimit(t, 64, payload)

	require.NoError(t, err)
	assert.Equal(t, 64, n)
}

func TestBodyLimit_OverflowFailsTheRead(t *testing.T) {
	payload := strings.Repeat("9", 65)

	_, err := postThroughBodyLimit(t, 64, payload)

	require.Error(t, err)
	var maxErr *http.MaxBytesError
	assert.ErrorAs(t, err, &maxErr)
}

func TestBodyLimit_EmptyBodyUnaffected(t *testing.T) {
	n, err := postThroughBodyLimit(t, 64, "")

	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestBodyLimit_BodylessGETPassesThrough(t *testing.T) {
	handler := BodyLimit(64)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/invoice/12345", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
