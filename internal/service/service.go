package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vitalsd/internal/alerts"
	"vitalsd/internal/config"
	"vitalsd/internal/handlers"
	"vitalsd/internal/logger"
	"vitalsd/internal/middleware"
	"vitalsd/internal/pipeline"
	"vitalsd/internal/store"
)

// Service is the high-level coordinator: it owns the external-service
// clients, the orchestrator, and the HTTP server.
type Service struct {
	cfg        *config.Config
	keyed      store.Keyed
	archive    store.Archive
	dispatcher *alerts.KafkaDispatcher
	httpServer *http.Server
	wg         sync.WaitGroup
}

// New constructs a Service with given config.
func New(cfg *config.Config) *Service {
	return &Service{cfg: cfg}
}

// Run initializes the clients, starts the HTTP server, and blocks
// until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	log := logger.WithComponent("service")
	log.Info().Msg("service starting")

	if err := s.initClients(ctx); err != nil {
		log.Error().Err(err).Msg("failed to initialize clients")
		return fmt.Errorf("failed to initialize clients: %w", err)
	}

	orchestrator := pipeline.New(pipeline.Config{
		Keyed:      s.keyed,
		Archive:    s.archive,
		Dispatcher: s.dispatcher,
		Ranges:     s.cfg.Ranges,
	})

	s.initHTTPServer(orchestrator)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		log.Info().Str("addr", s.cfg.HTTPAddr).Msg("starting HTTP server")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	return s.shutdown()
}

// initClients constructs the process-wide external-service handles.
// They are expensive to build and reused across all requests.
func (s *Service) initClients(ctx context.Context) error {
	keyed, err := store.NewRedisKeyed(ctx, s.cfg.Keyed)
	if err != nil {
		return err
	}
	s.keyed = keyed

	archive, err := store.NewPostgresArchive(ctx, s.cfg.Archive)
	if err != nil {
		keyed.Close()
		return err
	}
	s.archive = archive

	dispatcher, err := alerts.NewKafkaDispatcher(s.cfg.Alerts)
	if err != nil {
		archive.Close()
		keyed.Close()
		return err
	}
	s.dispatcher = dispatcher

	return nil
}

// initHTTPServer wires the routes and middleware.
func (s *Service) initHTTPServer(orchestrator *pipeline.Orchestrator) {
	mux := http.NewServeMux()

	ingestHandler := handlers.NewIngestHandler(handlers.IngestConfig{
		Orchestrator: orchestrator,
	})
	mux.Handle("/vitals", middleware.Chain(
		ingestHandler,
		middleware.Recovery,
		middleware.Logging,
	))

	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/stats", s.statsHandler)
	mux.Handle("/metrics", promhttp.Handler())

	s.httpServer = &http.Server{
		Addr:         s.cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// shutdown performs graceful shutdown
func (s *Service) shutdown() error {
	log := logger.WithComponent("service")
	log.Info().Msg("initiating graceful shutdown")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Info().Msg("stopping HTTP server")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("closing alert dispatcher")
	if err := s.dispatcher.Close(); err != nil {
		log.Error().Err(err).Msg("dispatcher close error")
	}

	log.Info().Msg("closing stores")
	if err := s.archive.Close(); err != nil {
		log.Error().Err(err).Msg("archive store close error")
	}
	if err := s.keyed.Close(); err != nil {
		log.Error().Err(err).Msg("keyed store close error")
	}

	s.wg.Wait()

	log.Info().Msg("service stopped gracefully")
	return nil
}

// healthHandler checks connectivity to all three backing services
func (s *Service) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]func(context.Context) error{
		"keyed":      s.keyed.HealthCheck,
		"archive":    s.archive.HealthCheck,
		"dispatcher": s.dispatcher.HealthCheck,
	}
	for name, check := range checks {
		if err := check(ctx); err != nil {
			http.Error(w, fmt.Sprintf("unhealthy: %s: %v", name, err), http.StatusServiceUnavailable)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"healthy","timestamp":"%s"}`, time.Now().Format(time.RFC3339))
}

// statsHandler returns current dispatcher statistics
func (s *Service) statsHandler(w http.ResponseWriter, r *http.Request) {
	stats := s.dispatcher.Stats()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{
		"alerts": {
			"published": %d,
			"failed": %d
		}
	}`,
		stats.Published,
		stats.Failed,
	)
}
