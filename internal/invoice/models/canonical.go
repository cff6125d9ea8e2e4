package models

import (
	"encoding/json"
	"fmt"
	"strings"

	dErrors "veripay/pkg/domain-errors"
)

// InvoiceID is a canonical invoice identifier: trimmed, leading zeros
// stripped, the all-zeros form collapsed to "0". The empty string is
// never a valid InvoiceID, so store keys and lookups always agree.
type InvoiceID string

func (id InvoiceID) String() string { return string(id) }

// CanonicalID normalizes a raw identifier string into its canonical form.
//
// Usage: call at trust boundaries (API inputs, seed files, URL params).
// Canonicalization is idempotent: CanonicalID of a canonical id returns
// the id unchanged.
//
// Errors: returns CodeMissingIdentifier when the input is empty or blank.
func CanonicalID(raw string) (InvoiceID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", dErrors.New(dErrors.CodeMissingIdentifier, "invoice id is required")
	}
	stripped := strings.TrimLeft(trimmed, "0")
	if stripped == "" {
		// "0", "00", "000" all name the zero id.
		return "0", nil
	}
	return InvoiceID(stripped), nil
}

// RawID is an invoice identifier as received on the wire, before
// canonicalization. JSON strings and numbers are both accepted; numbers
// keep their literal token text so large ids survive without a float
// round-trip. JSON null and an absent field are equivalent.
type RawID struct {
	text    string
	present bool
}

// NewRawID wraps an identifier string for canonicalization. Used by the
// URL-param lookup path and by tests.
func NewRawID(s string) RawID {
	return RawID{text: s, present: true}
}

// Present reports whether a non-null value appeared on the wire.
func (r RawID) Present() bool { return r.present }

// UnmarshalJSON accepts a JSON string or number token. null leaves the
// value absent; any other JSON type is rejected.
func (r *RawID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = RawID{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = RawID{text: s, present: true}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invoice id must be a string or number: %w", err)
	}
	*r = RawID{text: n.String(), present: true}
	return nil
}

// Canonicalize produces the canonical id, failing on absent or blank input.
func (r RawID) Canonicalize() (InvoiceID, error) {
	if !r.present {
		return "", dErrors.New(dErrors.CodeMissingIdentifier, "invoice id is required")
	}
	return CanonicalID(r.text)
}
