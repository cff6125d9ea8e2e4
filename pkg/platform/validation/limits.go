// Package validation holds the trust-boundary size limits and the checks
// that enforce them on operator- and caller-supplied input.
package validation

import (
	"fmt"

	dErrors "veripay/pkg/domain-errors"
)

// HTTP body limits
const (
	// MaxBodySize caps request bodies at 1 MB. The largest legal bulk
	// payload fits with a wide margin; reads past the cap fail and the
	// request is rejected during decoding.
	MaxBodySize = 1 << 20
)

// Seed fixture limits
const (
	// MaxSeedRecords is the maximum number of invoices one seed file may
	// install.
	MaxSeedRecords = 10_000

	// MaxSupplierLength is the maximum length of a supplier name.
	MaxSupplierLength = 200

	// MaxCategoryLength is the maximum length of a spending category.
	MaxCategoryLength = 100

	// MaxCurrencyLength bounds currency designators. ISO codes are three
	// letters; the slack tolerates non-ISO legacy designators.
	MaxCurrencyLength = 8
)

// CheckSliceCount validates that a slice does not exceed the maximum count.
func CheckSliceCount(fieldName string, count, max int) error {
	if count > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("too many %s: max %d allowed", fieldName, max))
	}
	return nil
}

// CheckStringLength validates that a string does not exceed the maximum length.
func CheckStringLength(fieldName, value string, max int) error {
	if len(value) > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s exceeds max length of %d", fieldName, max))
	}
	return nil
}
