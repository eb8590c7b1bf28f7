package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/libvault/registry/pkg/events"
	"github.com/libvault/registry/pkg/gateway"
	"github.com/libvault/registry/pkg/ledger"
	"github.com/libvault/registry/pkg/logging"
	"github.com/libvault/registry/pkg/registry"
	"github.com/libvault/registry/pkg/store"
)

func setupLogger(colors bool, file string) *logging.ColoredLogger {
	var logger *logging.ColoredLogger
	var err error
	if file != "" {
		logger, err = logging.NewFileLogger(logging.ComponentGeneral, file, colors)
	} else {
		logger, err = logging.NewColoredLogger(logging.ComponentGeneral, colors)
	}
	if err != nil {
		panic(err)
	}
	return logger
}

func main() {
	bootLogger := setupLogger(true, "")
	cfg := parseDaemonConfig(bootLogger)
	logger := setupLogger(cfg.Logging.Colors, cfg.Logging.File)

	bus := events.NewBus(logger)
	bank := ledger.New()

	var persist registry.Persister = registry.NopPersister{}
	var db *store.SQLiteStore
	if cfg.Store.Path != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		opened, err := store.Open(ctx, cfg.Store.Path, logger)
		cancel()
		if err != nil {
			logger.ComponentError(logging.ComponentStore, "failed to open store", zap.Error(err))
			os.Exit(1)
		}
		db = opened
		defer db.Close()
		persist = db

		// Every published event lands in the audit log.
		bus.Subscribe(db.AuditHandler())
	}

	svc := registry.NewService(bank, bus, persist, logger)

	if db != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		state, err := db.LoadState(ctx)
		cancel()
		if err != nil {
			logger.ComponentError(logging.ComponentStore, "failed to load persisted state", zap.Error(err))
			os.Exit(1)
		}
		svc.Load(state)
		logger.ComponentInfo(logging.ComponentStore, "Restored persisted state",
			zap.Int("libraries", len(state.Libraries)),
			zap.Int("balances", len(state.Balances)))
	}

	g := gateway.New(logger, cfg, svc, bus, db)
	defer g.Close()

	server := &http.Server{
		Addr:    cfg.Gateway.ListenAddr,
		Handler: http.MaxBytesHandler(g.Routes(), cfg.Gateway.MaxBodyBytes),
	}

	go func() {
		logger.ComponentInfo(logging.ComponentGeneral, "Registry HTTP server starting",
			zap.String("addr", cfg.Gateway.ListenAddr),
			zap.Bool("persistent", db != nil),
			zap.Bool("dev_mode", cfg.Auth.DevMode),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.ComponentError(logging.ComponentGeneral, "HTTP server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.ComponentInfo(logging.ComponentGeneral, "Shutting down registry HTTP server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.ComponentError(logging.ComponentGeneral, "HTTP server shutdown error", zap.Error(err))
	}
	logger.ComponentInfo(logging.ComponentGeneral, "Registry shutdown complete")
}
