package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	identityservice "kyc-gateway/internal/identity/service"
	identitystore "kyc-gateway/internal/identity/store"
	"kyc-gateway/internal/kyc/objectstore"
	kycservice "kyc-gateway/internal/kyc/service"
	kycstore "kyc-gateway/internal/kyc/store"
	"kyc-gateway/internal/kyc/verifier"
	"kyc-gateway/internal/platform/config"
	"kyc-gateway/internal/platform/database"
	"kyc-gateway/internal/platform/health"
	"kyc-gateway/internal/platform/httpserver"
	"kyc-gateway/internal/platform/logger"
	"kyc-gateway/internal/platform/metrics"
	httptransport "kyc-gateway/internal/transport/http"
	"kyc-gateway/migrations"
)

const shutdownTimeout = 10 * time.Second

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal service packages.
func main() {
	log := logger.New()
	if err := run(log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.FromEnv()
	m := metrics.New()

	log.Info("initializing kyc-gateway",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"postgres", cfg.DatabaseURL != "",
		"s3", cfg.S3Bucket != "",
	)

	healthHandler := health.New(cfg.Environment)

	dbCfg := database.DefaultConfig()
	dbCfg.URL = cfg.DatabaseURL
	pool, err := database.New(dbCfg)
	if err != nil {
		return err
	}
	defer pool.Close() //nolint:errcheck

	var (
		users identityservice.Store
		docs  kycservice.DocumentStore
	)
	if pool != nil {
		if err := migrations.Apply(ctx, pool.DB()); err != nil {
			return err
		}
		users = identitystore.NewPostgres(pool.DB())
		docs = kycstore.NewPostgres(pool.DB())
		healthHandler.RegisterCheck("database", func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pool.Health(pingCtx)
		})
	} else {
		users = identitystore.New()
		docs = kycstore.New()
	}

	var objects objectstore.Store
	if cfg.S3Bucket != "" {
		objects, err = objectstore.NewS3(ctx, objectstore.S3Config{
			Bucket:   cfg.S3Bucket,
			Region:   cfg.S3Region,
			Endpoint: cfg.S3Endpoint,
		})
		if err != nil {
			return err
		}
	} else {
		objects = objectstore.NewMemory()
	}

	identitySvc := identityservice.NewService(users, log, identityservice.WithMetrics(m))
	kycSvc := kycservice.NewService(users, docs, objects,
		verifier.NewMock(cfg.VerifierMinDelay, cfg.VerifierMaxDelay),
		log, kycservice.WithMetrics(m))

	router := httptransport.NewRouter(httptransport.Dependencies{
		Identity: identitySvc,
		KYC:      kycSvc,
		Health:   healthHandler,
		Metrics:  m,
		Logger:   log,
	})
	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()

	// The server no longer accepts submissions; let in-flight verifications
	// commit their outcomes before the process exits.
	kycSvc.Wait()
	log.Info("server stopped")
	return err
}
