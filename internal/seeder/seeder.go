// Package seeder installs the invoice records the server starts with,
// either from a YAML fixture file or from a small built-in set.
package seeder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"veripay/internal/invoice/models"
	dErrors "veripay/pkg/domain-errors"
	"veripay/pkg/platform/validation"
)

// RecordWriter defines the slice of the record store the seeder needs.
type RecordWriter interface {
	Save(ctx context.Context, rec models.Record) error
}

// Seeder validates seed records and writes them into a store.
type Seeder struct {
	records RecordWriter
	logger  *slog.Logger
}

// New creates a new seeder.
func New(records RecordWriter, logger *slog.Logger) *Seeder {
	return &Seeder{
		records: records,
		logger:  logger,
	}
}

// Seed installs invoice records into the store. When path is non-empty the
// records come from the YAML file at path; otherwise the built-in defaults
// are installed. Returns the number of records written.
func (s *Seeder) Seed(ctx context.Context, path string) (int, error) {
	records := Defaults()
	source := "defaults"

	if path != "" {
		loaded, err := s.loadFile(path)
		if err != nil {
			return 0, err
		}
		records = loaded
		source = path
	}

	for _, rec := range records {
		if err := s.records.Save(ctx, rec); err != nil {
			return 0, dErrors.Wrap(err, dErrors.CodeInfrastructure, "failed to seed record "+rec.ID.String())
		}
	}

	s.logger.InfoContext(ctx, "seeded invoice records",
		"count", len(records),
		"source", source,
	)
	return len(records), nil
}

// seedFile is the YAML fixture shape:
//
//	invoices:
//	  - id: "12345"
//	    amount: "5000.00"
//	    status: pending
//	    supplier: Acme Industrial Supplies
type seedFile struct {
	Invoices []seedRecord `yaml:"invoices"`
}

type seedRecord struct {
	ID        string     `yaml:"id"`
	Amount    string     `yaml:"amount"`
	Status    string     `yaml:"status"`
	Supplier  string     `yaml:"supplier"`
	CreatedAt *time.Time `yaml:"createdAt"`
	Category  string     `yaml:"category"`
	Currency  string     `yaml:"currency"`
}

func (s *Seeder) loadFile(path string) ([]models.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInfrastructure, "failed to read seed file")
	}

	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "failed to parse seed file")
	}
	if len(file.Invoices) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "seed file contains no invoices")
	}
	if err := validation.CheckSliceCount("invoices", len(file.Invoices), validation.MaxSeedRecords); err != nil {
		return nil, err
	}

	records := make([]models.Record, 0, len(file.Invoices))
	// Raw ids that differ only in leading zeros collapse to the same
	// canonical key; collisions are rejected here instead of silently
	// overwriting each other in the store.
	seen := make(map[models.InvoiceID]string, len(file.Invoices))
	for i, raw := range file.Invoices {
		rec, err := raw.toRecord()
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeValidation, fmt.Sprintf("seed record %d is invalid", i))
		}
		if prior, dup := seen[rec.ID]; dup {
			return nil, dErrors.New(dErrors.CodeValidation,
				fmt.Sprintf("seed records %q and %q collide on canonical id %q", prior, raw.ID, rec.ID))
		}
		seen[rec.ID] = raw.ID
		records = append(records, rec)
	}
	return records, nil
}

func (r seedRecord) toRecord() (models.Record, error) {
	id, err := models.CanonicalID(r.ID)
	if err != nil {
		return models.Record{}, err
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(r.Amount))
	if err != nil {
		return models.Record{}, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("invalid amount %q", r.Amount))
	}

	status, err := models.ParseStatus(r.Status)
	if err != nil {
		return models.Record{}, err
	}

	if err := validation.CheckStringLength("supplier", r.Supplier, validation.MaxSupplierLength); err != nil {
		return models.Record{}, err
	}
	if err := validation.CheckStringLength("category", r.Category, validation.MaxCategoryLength); err != nil {
		return models.Record{}, err
	}
	if err := validation.CheckStringLength("currency", r.Currency, validation.MaxCurrencyLength); err != nil {
		return models.Record{}, err
	}

	return models.Record{
		ID:        id,
		Amount:    amount,
		Status:    status,
		Supplier:  r.Supplier,
		CreatedAt: r.CreatedAt,
		Category:  r.Category,
		Currency:  r.Currency,
	}, nil
}

// Defaults returns the built-in fixture set used when no seed file is
// configured. It covers every lifecycle status plus the literal zero id.
func Defaults() []models.Record {
	created := func(day int) *time.Time {
		t := time.Date(2026, time.January, day, 9, 30, 0, 0, time.UTC)
		return &t
	}
	return []models.Record{
		{ID: "12345", Amount: decimal.RequireFromString("5000.00"), Status: models.StatusPending, Supplier: "Acme Industrial Supplies", CreatedAt: created(5), Category: "manufacturing", Currency: "EUR"},
		{ID: "67890", Amount: decimal.RequireFromString("1200.50"), Status: models.StatusPending, Supplier: "Northwind Logistics", CreatedAt: created(8), Category: "freight", Currency: "EUR"},
		{ID: "24680", Amount: decimal.RequireFromString("349.99"), Status: models.StatusPaid, Supplier: "Globex Office Services", CreatedAt: created(11), Category: "supplies", Currency: "USD"},
		{ID: "13579", Amount: decimal.RequireFromString("78.25"), Status: models.StatusRejected, Supplier: "Initech Consulting", CreatedAt: created(14), Category: "services", Currency: "USD"},
		{ID: "86420", Amount: decimal.RequireFromString("9100.00"), Status: models.StatusCancelled, Supplier: "Contoso Facilities", CreatedAt: created(17), Category: "maintenance", Currency: "GBP"},
		{ID: "97531", Amount: decimal.RequireFromString("410.10"), Status: models.StatusDisputed, Supplier: "Stark Materials", CreatedAt: created(20), Category: "materials", Currency: "EUR"},
		{ID: "0", Amount: decimal.RequireFromString("15.00"), Status: models.StatusPending, Supplier: "Cityworks Petty Cash", CreatedAt: created(23), Category: "misc", Currency: "EUR"},
	}
}
