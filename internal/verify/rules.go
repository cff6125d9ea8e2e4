package verify

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"veripay/internal/invoice/models"
)

// amountTolerance is the business epsilon for amount reconciliation.
// Claimed amounts within 0.001 of the stored amount reconcile; a
// difference of 0.0011 is already a mismatch. The comparison is exact
// decimal arithmetic, never binary floating point.
var amountTolerance = decimal.RequireFromString("0.001")

const (
	msgVerified = "Invoice verified successfully"
	msgNotFound = "Invoice not found"
	msgMissing  = "Invoice ID is required"
)

// evaluateRecord applies the verification rule chain to a found record.
// Rule priority (fail-fast):
//  1. Status gate (when enabled): only pending invoices are verifiable
//  2. Amount reconciliation (when enabled and an amount was claimed)
func evaluateRecord(modes Modes, rec *models.Record, claimed *decimal.Decimal, evalTime time.Time) Verdict {
	amount := rec.Amount

	if modes.StatusGating && rec.Status != models.StatusPending {
		return Verdict{
			Valid:       false,
			InvoiceID:   rec.ID,
			Amount:      &amount,
			Reason:      ReasonStatusNotVerifiable,
			Message:     fmt.Sprintf("Invoice status is %s; only pending invoices can be verified", rec.Status),
			EvaluatedAt: evalTime,
		}
	}

	if modes.AmountCheck && claimed != nil && !withinTolerance(rec.Amount, *claimed) {
		return Verdict{
			Valid:       false,
			InvoiceID:   rec.ID,
			Amount:      &amount,
			Reason:      ReasonAmountMismatch,
			Message:     fmt.Sprintf("Amount mismatch: invoice amount is %s, claimed %s", rec.Amount, claimed),
			EvaluatedAt: evalTime,
		}
	}

	return Verdict{
		Valid:       true,
		InvoiceID:   rec.ID,
		Amount:      &amount,
		Reason:      ReasonVerified,
		Message:     msgVerified,
		EvaluatedAt: evalTime,
	}
}

// withinTolerance reports whether two amounts differ by at most the
// business epsilon.
func withinTolerance(stored, claimed decimal.Decimal) bool {
	return stored.Sub(claimed).Abs().Cmp(amountTolerance) <= 0
}

// notFoundVerdict is the negative verdict for an unknown canonical id.
// An unknown id is a business outcome, never a fault.
func notFoundVerdict(id models.InvoiceID, evalTime time.Time) Verdict {
	return Verdict{
		Valid:       false,
		InvoiceID:   id,
		Reason:      ReasonNotFound,
		Message:     msgNotFound,
		EvaluatedAt: evalTime,
	}
}

// missingIDVerdict is the per-item verdict used by bulk verification for
// items whose identifier cannot be canonicalized. The single-item HTTP
// surface rejects these with a validation fault instead; a bulk response
// has no per-item status to carry that, so the item fails in place.
func missingIDVerdict(evalTime time.Time) Verdict {
	return Verdict{
		Valid:       false,
		Reason:      ReasonMissingID,
		Message:     msgMissing,
		EvaluatedAt: evalTime,
	}
}
