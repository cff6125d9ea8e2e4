package verify

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"veripay/internal/invoice/models"
)

// TestWithinTolerance_Boundary validates the amount reconciliation
// invariant: differences up to and including 0.001 reconcile, anything
// beyond does not, using exact decimal arithmetic.
func TestWithinTolerance_Boundary(t *testing.T) {
	tests := []struct {
		name    string
		stored  string
		claimed string
		want    bool
	}{
		{"exact match", "100.50", "100.50", true},
		{"claimed above by tolerance", "100.50", "100.501", true},
		{"claimed below by tolerance", "100.50", "100.499", true},
		{"just over tolerance", "100.50", "100.5011", false},
		{"just under tolerance", "100.50", "100.4989", false},
		{"trailing zeros are equal", "100.5", "100.500", true},
		{"high precision within", "0.1", "0.100999", true},
		{"high precision beyond", "0.1", "0.101001", false},
		{"zero amounts", "0", "0.001", true},
		{"negative direction", "0", "-0.001", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stored := decimal.RequireFromString(tt.stored)
			claimed := decimal.RequireFromString(tt.claimed)
			assert.Equal(t, tt.want, withinTolerance(stored, claimed))
		})
	}
}

func TestEvaluateRecord_Messages(t *testing.T) {
	evalTime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rec := &models.Record{
		ID:     "42",
		Amount: decimal.RequireFromString("100.50"),
		Status: models.StatusPaid,
	}

	t.Run("status gate names the actual status", func(t *testing.T) {
		v := evaluateRecord(Modes{StatusGating: true}, rec, nil, evalTime)
		assert.False(t, v.Valid)
		assert.Equal(t, "Invoice status is paid; only pending invoices can be verified", v.Message)
	})

	t.Run("amount mismatch names both amounts", func(t *testing.T) {
		claimed := decimal.RequireFromString("90.00")
		v := evaluateRecord(Modes{AmountCheck: true}, rec, &claimed, evalTime)
		assert.False(t, v.Valid)
		assert.Equal(t, "Amount mismatch: invoice amount is 100.5, claimed 90", v.Message)
	})

	t.Run("verdict echoes the stored amount", func(t *testing.T) {
		v := evaluateRecord(Modes{}, rec, nil, evalTime)
		assert.True(t, v.Valid)
		assert.NotNil(t, v.Amount)
		assert.True(t, v.Amount.Equal(rec.Amount))
		assert.Equal(t, evalTime, v.EvaluatedAt)
	})
}
