// Package verify implements the invoice verification engine: it
// canonicalizes claimed identifiers, looks up the record, and applies
// the configured rule chain to produce a verdict.
package verify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"veripay/internal/invoice/models"
	"veripay/internal/invoice/store"
	"veripay/internal/platform/tracer"
	"veripay/internal/verify/metrics"
	dErrors "veripay/pkg/domain-errors"
)

const (
	// DefaultBulkLimit caps the number of items per bulk request.
	DefaultBulkLimit = 100

	// bulkConcurrency bounds the evaluation fan-out per request.
	bulkConcurrency = 8
)

// RecordFinder is the engine's read port onto the invoice store.
type RecordFinder interface {
	FindByID(ctx context.Context, id models.InvoiceID) (*models.Record, error)
}

// Service evaluates verification claims against stored invoice records.
// It holds no per-request state and is safe for concurrent use: the same
// canonical id under the same modes always yields the same verdict.
type Service struct {
	finder    RecordFinder
	modes     Modes
	bulkLimit int
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    tracer.Tracer
	now       func() time.Time
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger for the service.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithMetrics sets the metrics collector for the service.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTracer sets the tracer for the service.
func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithBulkLimit overrides the maximum bulk batch size.
func WithBulkLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.bulkLimit = n
		}
	}
}

// WithClock injects the timestamp source for verdicts. Tests use this
// for deterministic EvaluatedAt values.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a verification service with the given record finder and
// rule modes. Panics if finder is nil - fail fast at startup.
func New(finder RecordFinder, modes Modes, opts ...Option) *Service {
	if finder == nil {
		panic("verify.New: record finder is required")
	}
	s := &Service{
		finder:    finder,
		modes:     modes,
		bulkLimit: DefaultBulkLimit,
		tracer:    tracer.NewNoop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Modes returns the rule modes the engine was built with.
func (s *Service) Modes() Modes { return s.modes }

// BulkLimit returns the maximum accepted bulk batch size.
func (s *Service) BulkLimit() int { return s.bulkLimit }

// Verify evaluates a single claim. A claim whose identifier cannot be
// canonicalized is a caller fault and returns an error; every evaluated
// claim produces a verdict, negative outcomes included. Only record
// store failures surface as infrastructure errors.
func (s *Service) Verify(ctx context.Context, req Request) (*Verdict, error) {
	id, err := req.RawID.Canonicalize()
	if err != nil {
		return nil, err
	}
	return s.verifyCanonical(ctx, id, req.ClaimedAmount)
}

// VerifyBulk evaluates items independently and concurrently. Results
// preserve input order, and each item's verdict matches what Verify
// would return for it alone. The first infrastructure fault cancels the
// batch; items that cannot be canonicalized fail in place as negative
// verdicts since a bulk response carries no per-item status.
func (s *Service) VerifyBulk(ctx context.Context, reqs []Request) (*BulkVerdict, error) {
	if len(reqs) > s.bulkLimit {
		return nil, dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("batch size %d exceeds the limit of %d items", len(reqs), s.bulkLimit))
	}

	ctx, span := s.tracer.Start(ctx, tracer.SpanVerifyBulk,
		tracer.Int64(tracer.AttrBatchSize, int64(len(reqs))),
	)

	results := make([]Verdict, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bulkConcurrency)

	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			v, err := s.verifyItem(gctx, req)
			if err != nil {
				return err
			}
			results[i] = *v
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		span.End(err)
		return nil, err
	}

	validCount := 0
	for i := range results {
		if results[i].Valid {
			validCount++
		}
	}

	span.SetAttributes(tracer.Int64(tracer.AttrValidCount, int64(validCount)))
	span.End(nil)

	if s.metrics != nil {
		s.metrics.ObserveBatchSize(len(results))
	}

	return &BulkVerdict{
		Results:    results,
		Total:      len(results),
		ValidCount: validCount,
	}, nil
}

// verifyItem folds canonicalization failures into a per-item verdict.
func (s *Service) verifyItem(ctx context.Context, req Request) (*Verdict, error) {
	id, err := req.RawID.Canonicalize()
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeMissingIdentifier) {
			v := missingIDVerdict(s.now())
			s.observe(&v)
			return &v, nil
		}
		return nil, err
	}
	return s.verifyCanonical(ctx, id, req.ClaimedAmount)
}

func (s *Service) verifyCanonical(ctx context.Context, id models.InvoiceID, claimed *decimal.Decimal) (*Verdict, error) {
	start := time.Now()
	evalTime := s.now()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveVerifyLatency(time.Since(start))
		}
	}()

	ctx, span := s.tracer.Start(ctx, tracer.SpanVerify,
		tracer.String(tracer.AttrInvoiceID, id.String()),
	)

	rec, err := s.finder.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			v := notFoundVerdict(id, evalTime)
			s.endSpan(span, &v)
			s.observe(&v)
			return &v, nil
		}

		fault := dErrors.Wrap(err, dErrors.CodeInfrastructure, "invoice lookup failed")
		span.End(fault)
		if s.logger != nil {
			s.logger.ErrorContext(ctx, "record store lookup failed",
				"invoice_id", id.String(),
				"error", err,
			)
		}
		return nil, fault
	}

	v := evaluateRecord(s.modes, rec, claimed, evalTime)
	s.endSpan(span, &v)
	s.observe(&v)

	if s.logger != nil {
		s.logger.DebugContext(ctx, "verification evaluated",
			"invoice_id", v.InvoiceID.String(),
			"valid", v.Valid,
			"reason", string(v.Reason),
		)
	}
	return &v, nil
}

func (s *Service) endSpan(span tracer.Span, v *Verdict) {
	span.SetAttributes(
		tracer.Bool(tracer.AttrValid, v.Valid),
		tracer.String(tracer.AttrReason, string(v.Reason)),
	)
	span.End(nil)
}

func (s *Service) observe(v *Verdict) {
	if s.metrics != nil {
		s.metrics.IncrementVerdict(v.Valid, string(v.Reason))
	}
}
