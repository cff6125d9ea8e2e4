package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"veripay/internal/invoice/store"
	"veripay/internal/platform/config"
	"veripay/internal/platform/health"
	"veripay/internal/platform/httpserver"
	"veripay/internal/platform/logger"
	"veripay/internal/platform/tracer"
	"veripay/internal/ratelimit"
	"veripay/internal/seeder"
	httptransport "veripay/internal/transport/http"
	"veripay/internal/verify"
	verifyhandler "veripay/internal/verify/handler"
	verifymetrics "veripay/internal/verify/metrics"
	"veripay/pkg/platform/middleware/auth"
	"veripay/pkg/platform/middleware/request"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	// .env is optional; deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing veripay",
		"addr", cfg.Addr,
		"status_gating", cfg.StatusGating,
		"amount_check", cfg.AmountCheck,
	)

	recordStore := store.NewInMemory()

	seedCount, err := seeder.New(recordStore, log).Seed(context.Background(), cfg.SeedFile)
	if err != nil {
		log.Error("seeding failed", "seed_file", cfg.SeedFile, "error", err)
		os.Exit(1)
	}

	var trc tracer.Tracer = tracer.NewNoop()
	if cfg.TracingEnabled {
		trc = tracer.NewOTel()
	}

	engineMetrics := verifymetrics.New()
	engine := verify.New(recordStore,
		verify.Modes{
			StatusGating: cfg.StatusGating,
			AmountCheck:  cfg.AmountCheck,
		},
		verify.WithLogger(log),
		verify.WithMetrics(engineMetrics),
		verify.WithTracer(trc),
		verify.WithBulkLimit(cfg.MaxBulkItems),
	)

	verifyHandler := verifyhandler.New(engine, recordStore, log,
		verifyhandler.WithHandlerMetrics(engineMetrics),
		verifyhandler.WithHandlerTracer(trc))

	checker, err := ratelimit.NewChecker(ratelimit.NewMemoryStore(),
		ratelimit.WithLogger(log),
		ratelimit.WithConfig(&ratelimit.Config{
			IPLimits: map[ratelimit.EndpointClass]ratelimit.Limit{
				ratelimit.ClassVerify: {RequestsPerWindow: cfg.RateLimitVerifyPerMinute, Window: time.Minute},
				ratelimit.ClassLookup: {RequestsPerWindow: cfg.RateLimitLookupPerMinute, Window: time.Minute},
				ratelimit.ClassAdmin:  {RequestsPerWindow: cfg.RateLimitAdminPerMinute, Window: time.Minute},
			},
		}),
	)
	if err != nil {
		log.Error("rate limiter init failed", "error", err)
		os.Exit(1)
	}

	healthHandler := health.New()
	healthHandler.RegisterCheck("record_store", func(ctx context.Context) error {
		_, err := recordStore.Count(ctx)
		return err
	})

	router := httptransport.NewRouter(cfg, log, httptransport.Deps{
		Verify:  verifyHandler,
		Health:  healthHandler,
		Auth:    auth.NewVerifier(cfg.APIToken, cfg.APITokenHash),
		Limiter: ratelimit.NewMiddleware(checker, log),
		Metrics: request.NewMetrics(),
	})

	srv := httpserver.New(cfg.Addr, router, cfg.RequestTimeout)

	log.Info("starting http server",
		"addr", cfg.Addr,
		"seeded_records", seedCount,
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown on SIGINT and SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
