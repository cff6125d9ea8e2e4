package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "veripay/pkg/domain-errors"
)

// LimitsSuite tests the validation helper functions.
//
// Justification: These are trust-boundary validators. The invariants
// "max+1 must fail" and "max must pass" are security-critical.
type LimitsSuite struct {
	suite.Suite
}

func TestLimitsSuite(t *testing.T) {
	suite.Run(t, new(LimitsSuite))
}

func (s *LimitsSuite) TestCheckSliceCount() {
	s.Run("passes when count equals max", func() {
		err := CheckSliceCount("invoices", 100, 100)
		s.NoError(err)
	})

	s.Run("passes when count is below max", func() {
		err := CheckSliceCount("invoices", 5, 100)
		s.NoError(err)
	})

	s.Run("passes when count is zero", func() {
		err := CheckSliceCount("invoices", 0, 100)
		s.NoError(err)
	})

	s.Run("fails when count exceeds max", func() {
		err := CheckSliceCount("invoices", 101, 100)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Contains(err.Error(), "too many invoices")
		s.Contains(err.Error(), "max 100 allowed")
	})
}

func (s *LimitsSuite) TestCheckStringLength() {
	s.Run("passes when length equals max", func() {
		str := strings.Repeat("a", MaxSupplierLength)
		err := CheckStringLength("supplier", str, MaxSupplierLength)
		s.NoError(err)
	})

	s.Run("passes when length is below max", func() {
		err := CheckStringLength("supplier", "Acme", MaxSupplierLength)
		s.NoError(err)
	})

	s.Run("passes for empty string", func() {
		err := CheckStringLength("supplier", "", MaxSupplierLength)
		s.NoError(err)
	})

	s.Run("fails when length exceeds max", func() {
		str := strings.Repeat("a", MaxSupplierLength+1)
		err := CheckStringLength("supplier", str, MaxSupplierLength)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Contains(err.Error(), "supplier exceeds max length of 200")
	})
}
