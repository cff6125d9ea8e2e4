package auth

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"veripay/pkg/secrets"
)

const testToken = "test-api-token-42"

// mockHandler is a test handler that captures if it was called and the context
type mockHandler struct {
	called  bool
	context context.Context
}

func (m *mockHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.called = true
	m.context = r.Context()
	w.WriteHeader(http.StatusOK)
}

func (m *mockHandler) reset() {
	m.called = false
	m.context = nil
}

type AuthMiddlewareTestSuite struct {
	suite.Suite
	logger      *slog.Logger
	nextHandler *mockHandler
}

func (s *AuthMiddlewareTestSuite) SetupTest() {
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	s.nextHandler = &mockHandler{}
}

func TestAuthMiddlewareTestSuite(t *testing.T) {
	suite.Run(t, new(AuthMiddlewareTestSuite))
}

func (s *AuthMiddlewareTestSuite) serve(verifier *Verifier, authHeader string) *httptest.ResponseRecorder {
	s.nextHandler.reset()
	middleware := RequireAuth(verifier, s.logger)

	req := httptest.NewRequest(http.MethodPost, "/api/verify-invoice", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	rec := httptest.NewRecorder()
	middleware(s.nextHandler).ServeHTTP(rec, req)
	return rec
}

func (s *AuthMiddlewareTestSuite) TestValidTokenPasses() {
	verifier := NewVerifier(testToken, "")

	rec := s.serve(verifier, "Bearer "+testToken)

	s.True(s.nextHandler.called)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *AuthMiddlewareTestSuite) TestMissingHeaderRejected() {
	verifier := NewVerifier(testToken, "")

	rec := s.serve(verifier, "")

	s.False(s.nextHandler.called, "handler must not run without credentials")
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Contains(rec.Body.String(), "unauthorized")
}

func (s *AuthMiddlewareTestSuite) TestWrongSchemeRejected() {
	verifier := NewVerifier(testToken, "")

	rec := s.serve(verifier, "Basic dXNlcjpwYXNz")

	s.False(s.nextHandler.called)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *AuthMiddlewareTestSuite) TestEmptyBearerRejected() {
	verifier := NewVerifier(testToken, "")

	rec := s.serve(verifier, "Bearer ")

	s.False(s.nextHandler.called)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *AuthMiddlewareTestSuite) TestWrongTokenRejected() {
	verifier := NewVerifier(testToken, "")

	rec := s.serve(verifier, "Bearer not-the-token")

	s.False(s.nextHandler.called)
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Contains(rec.Body.String(), "unauthorized")
}

func (s *AuthMiddlewareTestSuite) TestUnconfiguredTokenIsServerFault() {
	// Deployment mistake: no credential configured. Clients must see a 500,
	// not an open door and not a misleading 401.
	verifier := NewVerifier("", "")

	rec := s.serve(verifier, "Bearer anything")

	s.False(s.nextHandler.called)
	s.Equal(http.StatusInternalServerError, rec.Code)
	s.Contains(rec.Body.String(), "internal_error")
}

func (s *AuthMiddlewareTestSuite) TestBcryptHashPasses() {
	hash, err := secrets.Hash(testToken)
	s.Require().NoError(err)
	verifier := NewVerifier("", hash)

	rec := s.serve(verifier, "Bearer "+testToken)

	s.True(s.nextHandler.called)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *AuthMiddlewareTestSuite) TestBcryptHashRejectsWrongToken() {
	hash, err := secrets.Hash(testToken)
	s.Require().NoError(err)
	verifier := NewVerifier("", hash)

	rec := s.serve(verifier, "Bearer not-the-token")

	s.False(s.nextHandler.called)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *AuthMiddlewareTestSuite) TestHashWinsOverPlainToken() {
	hash, err := secrets.Hash("hash-protected-token")
	s.Require().NoError(err)
	verifier := NewVerifier(testToken, hash)

	rec := s.serve(verifier, "Bearer "+testToken)
	s.Equal(http.StatusUnauthorized, rec.Code, "plain token must be ignored when a hash is configured")

	rec = s.serve(verifier, "Bearer hash-protected-token")
	s.Equal(http.StatusOK, rec.Code)
}

func TestVerifier_Verify(t *testing.T) {
	t.Run("constant time compare accepts exact match", func(t *testing.T) {
		v := NewVerifier("tok", "")
		assert.NoError(t, v.Verify("tok"))
	})

	t.Run("rejects near miss", func(t *testing.T) {
		v := NewVerifier("tok", "")
		assert.Error(t, v.Verify("tok "))
		assert.Error(t, v.Verify("to"))
		assert.Error(t, v.Verify(""))
	})

	t.Run("unconfigured verifier errors", func(t *testing.T) {
		v := NewVerifier("", "")
		require.False(t, v.Configured())
		assert.Error(t, v.Verify("anything"))
	})
}
