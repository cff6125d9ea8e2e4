// Package store persists invoice records keyed by canonical id.
package store

import (
	"context"

	"veripay/internal/invoice/models"
	"veripay/internal/sentinel"
)

// ErrNotFound is returned when no record exists for a canonical id.
var ErrNotFound = sentinel.ErrNotFound

// RecordStore provides read access to stored invoices plus the narrow
// write surface used by seeding. Implementations must be safe for
// concurrent use and must key strictly by canonical id; callers
// canonicalize before lookup.
type RecordStore interface {
	FindByID(ctx context.Context, id models.InvoiceID) (*models.Record, error)
	List(ctx context.Context) ([]models.Record, error)
	Save(ctx context.Context, rec models.Record) error
	Count(ctx context.Context) (int, error)
}
