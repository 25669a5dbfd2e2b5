package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/saisujan42/Live-Polling-System/internal/adapter/metrics"
	"github.com/saisujan42/Live-Polling-System/internal/domain"
	"github.com/saisujan42/Live-Polling-System/internal/platform/config"
)

type pollEngine interface {
	Join(connID, identity string)
	Leave(connID string)
	Kick(identity string)
	CreatePoll(ctx context.Context, req domain.CreatePollRequest) (string, error)
	SubmitVote(pollID, identity, optionText string)
	RelayChat(msg domain.ChatMessage)
	ListPolls(ctx context.Context, creator string) ([]domain.PollSummary, error)
	GetPoll(ctx context.Context, pollID string) (domain.PollSummary, error)
	Participants(ctx context.Context) ([]string, error)
}

type connectionHub interface {
	Register(connID string, conn *websocket.Conn) error
	Unregister(connID string)
}

type Server struct {
	echo   *echo.Echo
	config *config.Config

	engine  pollEngine
	hub     connectionHub
	metrics *metrics.Set

	limits       *ConnectionLimits
	upgrader     websocket.Upgrader
	healthChecks []HealthCheck

	clock     clockwork.Clock
	startTime time.Time
}

func NewServer(cfg *config.Config, engine pollEngine, hub connectionHub, metricsSet *metrics.Set, clock clockwork.Clock, healthChecks []HealthCheck) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:    e,
		config:  cfg,
		engine:  engine,
		hub:     hub,
		metrics: metricsSet,
		limits: NewConnectionLimits(clock, int64(cfg.MaxWebSocketConnections), cfg.MaxConnectionsPerIP,
			cfg.ConnectionRatePerSecond, cfg.ConnectionRateBurst),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     newCheckOrigin(cfg.Origins()),
		},
		healthChecks: healthChecks,
		clock:        clock,
		startTime:    clock.Now(),
	}

	srv.registerRoutes()

	return srv
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
