package seeder

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"veripay/internal/invoice/models"
	dErrors "veripay/pkg/domain-errors"
)

// recordingWriter captures seeded records in order.
type recordingWriter struct {
	records []models.Record
	err     error
}

func (w *recordingWriter) Save(_ context.Context, rec models.Record) error {
	if w.err != nil {
		return w.err
	}
	w.records = append(w.records, rec)
	return nil
}

type SeederSuite struct {
	suite.Suite

	writer *recordingWriter
	seeder *Seeder
}

func TestSeederSuite(t *testing.T) {
	suite.Run(t, new(SeederSuite))
}

func (s *SeederSuite) SetupTest() {
	s.writer = &recordingWriter{}
	s.seeder = New(s.writer, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (s *SeederSuite) writeSeedFile(content string) string {
	path := filepath.Join(s.T().TempDir(), "invoices.yaml")
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o600))
	return path
}

func (s *SeederSuite) TestSeed_DefaultsWhenNoPath() {
	count, err := s.seeder.Seed(context.Background(), "")

	s.Require().NoError(err)
	s.Equal(len(Defaults()), count)
	s.Len(s.writer.records, count)
}

func (s *SeederSuite) TestSeed_FromFile() {
	path := s.writeSeedFile(`
invoices:
  - id: "0042"
    amount: "100.50"
    status: PENDING
    supplier: Meridian Parts
    createdAt: 2026-02-01T10:00:00Z
    category: spares
    currency: EUR
  - id: 777
    amount: 9.99
    status: paid
    supplier: Corner Print Shop
`)

	count, err := s.seeder.Seed(context.Background(), path)

	s.Require().NoError(err)
	s.Equal(2, count)
	s.Require().Len(s.writer.records, 2)

	first := s.writer.records[0]
	s.Equal(models.InvoiceID("42"), first.ID)
	s.True(first.Amount.Equal(decimal.RequireFromString("100.50")))
	s.Equal(models.StatusPending, first.Status)
	s.Equal("Meridian Parts", first.Supplier)
	s.Require().NotNil(first.CreatedAt)
	s.Equal(time.Date(2026, time.February, 1, 10, 0, 0, 0, time.UTC), first.CreatedAt.UTC())
	s.Equal("spares", first.Category)
	s.Equal("EUR", first.Currency)

	second := s.writer.records[1]
	s.Equal(models.InvoiceID("777"), second.ID)
	s.True(second.Amount.Equal(decimal.RequireFromString("9.99")))
	s.Equal(models.StatusPaid, second.Status)
	s.Nil(second.CreatedAt)
}

func (s *SeederSuite) TestSeed_MissingFileIsInfrastructureFault() {
	_, err := s.seeder.Seed(context.Background(), filepath.Join(s.T().TempDir(), "absent.yaml"))

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInfrastructure))
	s.Empty(s.writer.records)
}

func (s *SeederSuite) TestSeed_MalformedYAMLRejected() {
	path := s.writeSeedFile("invoices: [::not yaml::")

	_, err := s.seeder.Seed(context.Background(), path)

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *SeederSuite) TestSeed_EmptyFileRejected() {
	path := s.writeSeedFile("invoices: []\n")

	_, err := s.seeder.Seed(context.Background(), path)

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Contains(err.Error(), "no invoices")
}

func (s *SeederSuite) TestSeed_UnknownStatusRejected() {
	path := s.writeSeedFile(`
invoices:
  - id: "1"
    amount: "10.00"
    status: archived
    supplier: Acme
`)

	_, err := s.seeder.Seed(context.Background(), path)

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Contains(err.Error(), "seed record 0")
}

func (s *SeederSuite) TestSeed_InvalidAmountRejected() {
	path := s.writeSeedFile(`
invoices:
  - id: "1"
    amount: "ten euros"
    status: pending
    supplier: Acme
`)

	_, err := s.seeder.Seed(context.Background(), path)

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *SeederSuite) TestSeed_BlankIDRejected() {
	path := s.writeSeedFile(`
invoices:
  - id: "   "
    amount: "10.00"
    status: pending
    supplier: Acme
`)

	_, err := s.seeder.Seed(context.Background(), path)

	s.Require().Error(err)
	// CanonicalID's code survives the wrap.
	s.True(dErrors.HasCode(err, dErrors.CodeMissingIdentifier))
}

func (s *SeederSuite) TestSeed_OversizedSupplierRejected() {
	path := s.writeSeedFile(`
invoices:
  - id: "1"
    amount: "10.00"
    status: pending
    supplier: "` + strings.Repeat("a", 201) + `"
`)

	_, err := s.seeder.Seed(context.Background(), path)

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Contains(err.Error(), "supplier exceeds max length")
}

func (s *SeederSuite) TestSeed_CanonicalCollisionRejected() {
	path := s.writeSeedFile(`
invoices:
  - id: "0042"
    amount: "10.00"
    status: pending
    supplier: Acme
  - id: "42"
    amount: "20.00"
    status: paid
    supplier: Globex
`)

	_, err := s.seeder.Seed(context.Background(), path)

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Contains(err.Error(), "collide")
	s.Empty(s.writer.records)
}

func (s *SeederSuite) TestSeed_StoreFaultSurfaced() {
	s.writer.err = dErrors.New(dErrors.CodeInfrastructure, "store offline")

	_, err := s.seeder.Seed(context.Background(), "")

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInfrastructure))
}

func (s *SeederSuite) TestDefaults() {
	defaults := Defaults()

	s.NotEmpty(defaults)

	statuses := make(map[models.Status]bool)
	ids := make(map[models.InvoiceID]bool)
	for _, rec := range defaults {
		statuses[rec.Status] = true
		s.False(ids[rec.ID], "duplicate default id %s", rec.ID)
		ids[rec.ID] = true

		canonical, err := models.CanonicalID(rec.ID.String())
		s.Require().NoError(err)
		s.Equal(rec.ID, canonical, "default id %s is not canonical", rec.ID)
	}

	for status := range models.ValidStatuses {
		s.True(statuses[status], "no default record with status %s", status)
	}
	s.True(ids[models.InvoiceID("0")], "defaults must include the literal zero id")
}
