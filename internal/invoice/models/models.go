// Package models defines the invoice domain types shared by the record
// store, the verification engine, and the seeder.
package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	dErrors "veripay/pkg/domain-errors"
)

// Status represents the settlement lifecycle state of an invoice.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
	StatusDisputed  Status = "disputed"
)

// ValidStatuses is the single source of truth for supported invoice statuses.
var ValidStatuses = map[Status]bool{
	StatusPending:   true,
	StatusPaid:      true,
	StatusRejected:  true,
	StatusCancelled: true,
	StatusDisputed:  true,
}

// IsValid checks if the status is one of the supported enum values.
func (s Status) IsValid() bool {
	return ValidStatuses[s]
}

func (s Status) String() string { return string(s) }

// ParseStatus validates and parses a status string (case-insensitive).
//
// Usage: call at trust boundaries (seed files, API inputs).
//
// Errors: returns CodeValidation for unsupported statuses.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, "unsupported invoice status: "+raw)
	}
	return s, nil
}

// Record is a stored invoice against which claims are verified.
// Amount uses decimal arithmetic end to end; verification rules never
// touch binary floating point.
type Record struct {
	ID       InvoiceID
	Amount   decimal.Decimal
	Status   Status
	Supplier string

	// Reporting metadata. Not consulted by verification rules.
	CreatedAt *time.Time
	Category  string
	Currency  string
}
