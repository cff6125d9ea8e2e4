package handler

import (
	"github.com/shopspring/decimal"

	"veripay/internal/invoice/models"
	"veripay/internal/verify"
	dErrors "veripay/pkg/domain-errors"
)

// VerifyRequest is the request body for single-invoice verification.
// The identifier accepts a JSON string or number; numeric identifiers are
// preserved digit-for-digit rather than round-tripped through a float.
type VerifyRequest struct {
	InvoiceID models.RawID     `json:"invoiceId"`
	Amount    *decimal.Decimal `json:"amount,omitempty"`
}

// Validate checks that an identifier was supplied and canonicalizes cleanly.
// The canonical form is recomputed by the engine, which stays the single
// authority for the stripping rules.
func (r *VerifyRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if _, err := r.InvoiceID.Canonicalize(); err != nil {
		return err
	}
	return nil
}

// ToDomain converts the wire request into an engine request.
func (r *VerifyRequest) ToDomain() verify.Request {
	return verify.Request{RawID: r.InvoiceID, ClaimedAmount: r.Amount}
}

// BulkVerifyRequest carries a batch of verification items.
type BulkVerifyRequest struct {
	Items []VerifyRequest `json:"items"`
}

// Validate bounds the batch shape only. Per-item identifier problems are not
// rejected here: the engine folds them into per-item negative verdicts so one
// bad entry cannot fail the whole batch.
func (r *BulkVerifyRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if len(r.Items) == 0 {
		return dErrors.New(dErrors.CodeValidation, "items are required")
	}
	return nil
}

// ToDomain converts the wire batch into engine requests, preserving order.
func (r *BulkVerifyRequest) ToDomain() []verify.Request {
	reqs := make([]verify.Request, 0, len(r.Items))
	for _, item := range r.Items {
		reqs = append(reqs, item.ToDomain())
	}
	return reqs
}
