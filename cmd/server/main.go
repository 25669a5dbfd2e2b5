package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/saisujan42/Live-Polling-System/internal/adapter/metrics"
	"github.com/saisujan42/Live-Polling-System/internal/broadcast"
	"github.com/saisujan42/Live-Polling-System/internal/engine"
	"github.com/saisujan42/Live-Polling-System/internal/platform/config"
	"github.com/saisujan42/Live-Polling-System/internal/platform/logging"
	"github.com/saisujan42/Live-Polling-System/internal/platform/version"
	"github.com/saisujan42/Live-Polling-System/internal/server"
)

func runGracefulShutdown(cfg *config.Config, srv *server.Server, pollEngine *engine.Engine, hub *broadcast.Broadcaster) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		// Closing client connections first lets their read loops leave the roster while the
		// engine is still running.
		hub.Stop()
		pollEngine.Stop()

		close(done)
	}()

	return done
}

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func healthChecks(pollEngine *engine.Engine, hub *broadcast.Broadcaster) []server.HealthCheck {
	return []server.HealthCheck{
		{Name: "engine", Check: func(ctx context.Context) error {
			_, err := pollEngine.Participants(ctx)
			return err
		}},
		{Name: "broadcaster", Check: func(context.Context) error {
			if hub.GetClientCount() < 0 {
				return broadcast.ErrStopped
			}
			return nil
		}},
	}
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	info := version.Get()
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port, "version", info.String())

	metricsSet := metrics.NewSet()

	hub := broadcast.NewBroadcaster(clock, metricsSet.WebSocket)
	pollEngine := engine.NewEngine(engine.Config{
		DefaultTimeLimit: cfg.DefaultTimeLimit,
		DefaultCreator:   cfg.DefaultCreator,
	}, hub, clock, metricsSet.Poll)

	srv := server.NewServer(cfg, pollEngine, hub, metricsSet, clock, healthChecks(pollEngine, hub))

	done := runGracefulShutdown(cfg, srv, pollEngine, hub)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
