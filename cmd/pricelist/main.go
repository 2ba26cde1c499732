package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tpcpricelists/pricelist/internal/audit"
	"github.com/tpcpricelists/pricelist/internal/cache"
	"github.com/tpcpricelists/pricelist/internal/config"
	"github.com/tpcpricelists/pricelist/internal/dashboard"
	"github.com/tpcpricelists/pricelist/internal/domain"
	"github.com/tpcpricelists/pricelist/internal/fetcher"
	"github.com/tpcpricelists/pricelist/internal/nonce"
	"github.com/tpcpricelists/pricelist/internal/pdf"
	"github.com/tpcpricelists/pricelist/internal/seed"
	"github.com/tpcpricelists/pricelist/internal/server"
)

func main() {
	// 1. Setup
	godotenv.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Bad configuration", "err", err)
		os.Exit(1)
	}

	// 2. Cache store
	store, err := newStore(cfg)
	if err != nil {
		logger.Error("Failed to open cache store", "err", err)
		os.Exit(1)
	}
	defer store.Close()
	logger.Info("Cache store ready", "backend", cfg.CacheBackend, "ttl", cfg.CacheTTL.String())

	// 3. Fetcher
	fetch, err := fetcher.New(cfg)
	if err != nil {
		logger.Error("Failed to initialize fetcher", "err", err)
		os.Exit(1)
	}
	logger.Info("Fetcher initialized", "mode", cfg.FetchMode)

	// 4. Seed owners for the form's autocomplete (optional)
	seedOwners, err := seed.LoadOwners(cfg.SeedPath)
	if err != nil {
		logger.Warn("No seed owner list", "path", cfg.SeedPath, "err", err)
	}

	// 5. Audit writer
	events := make(chan domain.Event, 100)
	var writerWg sync.WaitGroup
	writer := &audit.WriterService{FilePath: cfg.AuditPath}
	writerWg.Add(1)
	go writer.Start(&writerWg, events)

	// 6. HTTP wiring
	srv := server.New(
		store,
		nonce.NewGuard(cfg.NonceTTL),
		fetch,
		pdf.NewBuilder(cfg.PageCapacity),
		cfg.RequestTimeout,
		seedOwners,
		events,
	)

	mux := http.NewServeMux()
	mux.Handle("/stats", dashboard.Handler(cfg.AuditPath))
	mux.Handle("/", srv)

	httpSrv := &http.Server{Addr: ":" + cfg.Port, Handler: mux}

	go func() {
		logger.Info("Starting server", "port", cfg.Port)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "err", err)
			os.Exit(1)
		}
	}()

	// 7. Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	logger.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown failed", "err", err)
	}

	close(events)
	writerWg.Wait()
	logger.Info("Server stopped.")
}

func newStore(cfg config.Config) (cache.Store, error) {
	switch cfg.CacheBackend {
	case "memory":
		return cache.NewMemory(), nil
	case "sqlite":
		return cache.OpenSQLite(cfg.CacheDBPath, cfg.CacheTTL)
	default:
		return nil, fmt.Errorf("unknown CACHE_BACKEND: %s (use 'memory' or 'sqlite')", cfg.CacheBackend)
	}
}
