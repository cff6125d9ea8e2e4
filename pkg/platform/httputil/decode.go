package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	dErrors "veripay/pkg/domain-errors"
)

// Validatable lets a request type veto itself after decoding. Validation
// errors that already carry a domain code keep it, so a missing invoice
// identifier answers as missing_identifier rather than a generic 400.
type Validatable interface {
	Validate() error
}

// DecodeJSON reads the request body into T. A body that does not parse is
// the caller's fault: the response is written here as a bad_request and the
// second return is false. Bodies cut off by the size cap land here too.
func DecodeJSON[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "failed to decode request body",
			"error", err,
			"request_id", requestID,
		)
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return nil, false
	}
	return &req, true
}

// DecodeValid decodes the body and, when T implements Validatable, runs its
// Validate. On any failure the error response is already written; callers
// just return.
//
//	req, ok := httputil.DecodeValid[VerifyRequest](w, r, h.logger, ctx, requestID)
//	if !ok {
//	    return
//	}
func DecodeValid[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	req, ok := DecodeJSON[T](w, r, logger, ctx, requestID)
	if !ok {
		return nil, false
	}

	v, ok := any(req).(Validatable)
	if !ok {
		return req, true
	}

	if err := v.Validate(); err != nil {
		logger.WarnContext(ctx, "invalid request",
			"error", err,
			"request_id", requestID,
		)
		var domainErr *dErrors.Error
		if errors.As(err, &domainErr) {
			WriteError(w, err)
		} else {
			WriteError(w, dErrors.New(dErrors.CodeValidation, err.Error()))
		}
		return nil, false
	}

	return req, true
}
