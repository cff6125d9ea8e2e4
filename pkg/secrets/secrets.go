// Package secrets mints and checks the bearer tokens oracle nodes present.
// Tokens are random, never derived; servers may hold either the raw token
// or only its bcrypt hash.
package secrets

import (
	"crypto/rand"
	"encoding/base64"
	"errors"

	"golang.org/x/crypto/bcrypt"

	dErrors "veripay/pkg/domain-errors"
)

// tokenBytes is the entropy per generated token. 32 bytes keeps tokens
// comfortably beyond brute force while staying short enough for headers.
const tokenBytes = 32

// Generate returns a fresh URL-safe token for an oracle node or operator.
func Generate() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not generate token")
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Hash derives the bcrypt digest of a token for storage. Configuring the
// server with the digest instead of the raw token keeps the credential out
// of the environment.
func Hash(secret string) (string, error) {
	if secret == "" {
		return "", dErrors.New(dErrors.CodeValidation, "secret cannot be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", dErrors.New(dErrors.CodeValidation, "secret is too long")
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not hash secret")
	}
	return string(hashed), nil
}

// Verify reports whether a presented token matches a stored bcrypt digest.
// A mismatch is an unauthorized error so callers can map it straight to a
// 401 response.
func Verify(secret, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return dErrors.New(dErrors.CodeUnauthorized, "invalid secret")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "could not verify secret")
	}
	return nil
}
