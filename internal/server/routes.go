package server

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/saisujan42/Live-Polling-System/internal/adapter/metrics"
	"github.com/saisujan42/Live-Polling-System/internal/platform/correlation"
	apperrors "github.com/saisujan42/Live-Polling-System/internal/platform/errors"
)

func (s *Server) registerRoutes() {
	s.echo.Use(correlationMiddleware)
	s.echo.Use(s.setupRequestLoggerMiddleware())
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: s.config.Origins(),
	}))
	s.echo.Use(s.metrics.HTTP.Middleware())
	s.echo.Use(apperrors.Middleware(s.metrics.HTTP.ErrorsTotal))

	s.registerHealthRoutes()
	s.echo.GET("/metrics", echo.WrapHandler(metrics.Handler(s.metrics.Registry)))

	loginLimiter := newLoginLimiter(s.config.LoginRatePerSecond, s.config.LoginRateBurst)
	s.echo.POST("/presenter-login", s.handlePresenterLogin, loginLimiter)
	s.echo.POST("/teacher-login", s.handlePresenterLogin, loginLimiter)

	s.echo.GET("/polls/:identity", s.handleListPolls)
	s.echo.GET("/poll/:id", s.handleGetPoll)
	s.echo.GET("/participants", s.handleParticipants)

	s.echo.GET("/ws", s.handleWebSocket)
}

func correlationMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := correlation.WithID(c.Request().Context(), correlation.NewID())
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

func (s *Server) setupRequestLoggerMiddleware() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			slog.InfoContext(c.Request().Context(), "Request", attrs...)
			return nil
		},
	})
}
