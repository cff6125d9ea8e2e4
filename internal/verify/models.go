package verify

import (
	"time"

	"github.com/shopspring/decimal"

	"veripay/internal/invoice/models"
)

// Reason encodes why a verification reached its verdict.
type Reason string

const (
	ReasonVerified            Reason = "verified"
	ReasonNotFound            Reason = "invoice_not_found"
	ReasonStatusNotVerifiable Reason = "status_not_verifiable"
	ReasonAmountMismatch      Reason = "amount_mismatch"
	ReasonMissingID           Reason = "missing_identifier"
)

// Modes toggles the optional rule stages. Both are deployment
// configuration, fixed at engine construction rather than per request.
type Modes struct {
	// StatusGating restricts verification to pending invoices.
	StatusGating bool
	// AmountCheck reconciles claimed amounts against the stored amount.
	AmountCheck bool
}

// Request is the domain-level input for a single verification.
type Request struct {
	RawID models.RawID
	// ClaimedAmount is optional; amount reconciliation only runs when the
	// caller claims an amount and AmountCheck mode is on.
	ClaimedAmount *decimal.Decimal
}

// Verdict is the structured outcome of one verification. A negative
// verdict is a first-class result, not an error: only infrastructure
// failures surface as errors from the engine.
type Verdict struct {
	Valid       bool
	InvoiceID   models.InvoiceID
	Amount      *decimal.Decimal // stored amount echo; nil when no record was found
	Reason      Reason
	Message     string
	EvaluatedAt time.Time
}

// BulkVerdict aggregates per-item verdicts. Results preserve input order.
type BulkVerdict struct {
	Results    []Verdict
	Total      int
	ValidCount int
}
