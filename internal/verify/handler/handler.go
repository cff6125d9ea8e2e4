package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"veripay/internal/invoice/models"
	"veripay/internal/invoice/store"
	"veripay/internal/platform/tracer"
	"veripay/internal/verify"
	"veripay/internal/verify/metrics"
	dErrors "veripay/pkg/domain-errors"
	"veripay/pkg/platform/httputil"
	"veripay/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/handler_mock.go -package=mocks

// VerifyService defines the engine operations used by handlers.
type VerifyService interface {
	Verify(ctx context.Context, req verify.Request) (*verify.Verdict, error)
	VerifyBulk(ctx context.Context, reqs []verify.Request) (*verify.BulkVerdict, error)
}

// RecordReader exposes read access to stored invoices for lookup endpoints.
type RecordReader interface {
	FindByID(ctx context.Context, id models.InvoiceID) (*models.Record, error)
	List(ctx context.Context) ([]models.Record, error)
}

// Handler handles HTTP requests for invoice verification.
type Handler struct {
	service VerifyService
	records RecordReader
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  tracer.Tracer
}

// HandlerOption configures the Handler.
type HandlerOption func(*Handler)

// WithHandlerMetrics sets the metrics recorder for lookup endpoints.
func WithHandlerMetrics(m *metrics.Metrics) HandlerOption {
	return func(h *Handler) {
		h.metrics = m
	}
}

// WithHandlerTracer sets the tracer for the handler.
// When set, lookups emit an invoice.lookup span around the store fetch.
func WithHandlerTracer(t tracer.Tracer) HandlerOption {
	return func(h *Handler) {
		h.tracer = t
	}
}

// New creates a new verification handler.
func New(service VerifyService, records RecordReader, logger *slog.Logger, opts ...HandlerOption) *Handler {
	h := &Handler{
		service: service,
		records: records,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the verification routes on the given router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/verify-invoice", h.HandleVerify)
	r.Post("/verify-invoices", h.HandleVerifyBulk)
	r.Get("/invoice/{invoiceId}", h.HandleLookup)
}

// RegisterAdmin mounts operator-only routes on the given router.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/invoices", h.HandleListInvoices)
}

// HandleVerify handles POST /api/verify-invoice requests.
//
// Business outcomes (unknown invoice, status gate, amount mismatch) are
// 200 responses carrying a negative verdict; only malformed requests and
// infrastructure faults surface as HTTP errors.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeValid[VerifyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	v, err := h.service.Verify(ctx, req.ToDomain())
	if err != nil {
		h.logger.ErrorContext(ctx, "verification failed",
			"request_id", requestID,
			"error", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toWireResult(*v))
}

// HandleVerifyBulk handles POST /api/verify-invoices requests.
func (h *Handler) HandleVerifyBulk(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeValid[BulkVerifyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	bulk, err := h.service.VerifyBulk(ctx, req.ToDomain())
	if err != nil {
		h.logger.ErrorContext(ctx, "bulk verification failed",
			"request_id", requestID,
			"batch_size", len(req.Items),
			"error", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toWireBulk(bulk))
}

// HandleLookup handles GET /api/invoice/{invoiceId} requests.
// The path identifier goes through the same canonicalization as request
// bodies, so /api/invoice/0042 and /api/invoice/42 address the same record.
func (h *Handler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	id, err := models.CanonicalID(chi.URLParam(r, "invoiceId"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	ctx, span := h.startLookupSpan(ctx, id)

	rec, err := h.records.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.endLookup(span, "not_found", nil)
			httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "invoice not found"))
			return
		}
		h.logger.ErrorContext(ctx, "invoice lookup failed",
			"request_id", requestID,
			"invoice_id", id,
			"error", err)
		h.endLookup(span, "error", err)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInfrastructure, "invoice lookup failed"))
		return
	}

	h.endLookup(span, "found", nil)
	httputil.WriteJSON(w, http.StatusOK, toWireInvoice(rec))
}

// HandleListInvoices handles GET /api/invoices requests.
func (h *Handler) HandleListInvoices(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	records, err := h.records.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "invoice listing failed",
			"request_id", requestID,
			"error", err)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInfrastructure, "invoice listing failed"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toWireList(records))
}

func (h *Handler) startLookupSpan(ctx context.Context, id models.InvoiceID) (context.Context, tracer.Span) {
	if h.tracer == nil {
		return ctx, nil
	}
	return h.tracer.Start(ctx, tracer.SpanLookup,
		tracer.String(tracer.AttrInvoiceID, id.String()),
	)
}

// endLookup closes the lookup span and counts the outcome.
func (h *Handler) endLookup(span tracer.Span, result string, err error) {
	if span != nil {
		span.SetAttributes(tracer.String(tracer.AttrLookupResult, result))
		span.End(err)
	}
	if h.metrics != nil {
		h.metrics.IncrementLookup(result)
	}
}
