package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"veripay/internal/invoice/models"
	"veripay/internal/sentinel"
)

// InMemory stores invoice records in memory, keyed by canonical id.
// It is the reference RecordStore used by the demo deployment and tests.
type InMemory struct {
	mu      sync.RWMutex
	records map[models.InvoiceID]models.Record
}

// NewInMemory creates an in-memory record store pre-seeded with the given
// records. Seed ids are assumed canonical; Save enforces the invariant.
func NewInMemory(seed ...models.Record) *InMemory {
	s := &InMemory{records: make(map[models.InvoiceID]models.Record, len(seed))}
	for _, rec := range seed {
		s.records[rec.ID] = rec
	}
	return s
}

// FindByID retrieves a record by canonical id. Returns ErrNotFound when
// no record exists.
func (s *InMemory) FindByID(_ context.Context, id models.InvoiceID) (*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rec, ok := s.records[id]; ok {
		return &rec, nil
	}
	return nil, ErrNotFound
}

// List returns all records ordered by id for deterministic output.
func (s *InMemory) List(_ context.Context) ([]models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Save stores a record, replacing any existing record with the same id.
func (s *InMemory) Save(_ context.Context, rec models.Record) error {
	if rec.ID == "" {
		return fmt.Errorf("record id must be canonical and non-empty: %w", sentinel.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = rec
	return nil
}

// Count returns the number of stored records.
func (s *InMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}
