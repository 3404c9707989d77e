// Package server exposes the agent's admin HTTP surface: liveness ping,
// health checks, and a status summary. No authentication; bind it privately.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/serikabot/serika/internal/healthcheck"
)

// StatusInfo is the snapshot served by /status.
type StatusInfo struct {
	Version        string
	Commit         string
	Platform       string
	BotName        string
	StartedAt      time.Time
	Sessions       int
	ActiveChannels []string
}

// StatusFunc supplies a fresh snapshot per request.
type StatusFunc func() StatusInfo

type Server struct {
	echo *echo.Echo
	addr string
}

func NewServer(addr string, checker healthcheck.Checker, status StatusFunc, log *slog.Logger) *Server {
	if addr == "" {
		addr = ":8080"
	}
	if log == nil {
		log = slog.Default()
	}
	logger := log.With(slog.String("component", "server"))

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status))
			return nil
		},
	}))

	e.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	})

	e.GET("/health", func(c echo.Context) error {
		checks := checker.ListChecks(c.Request().Context())
		overall := healthcheck.Overall(checks)
		code := http.StatusOK
		if overall == healthcheck.StatusError {
			code = http.StatusServiceUnavailable
		}
		return c.JSON(code, map[string]any{
			"status": overall,
			"checks": checks,
		})
	})

	e.GET("/status", func(c echo.Context) error {
		info := status()
		return c.JSON(http.StatusOK, map[string]any{
			"version":         info.Version,
			"commit":          info.Commit,
			"platform":        info.Platform,
			"bot_name":        info.BotName,
			"uptime_seconds":  int(time.Since(info.StartedAt).Seconds()),
			"sessions":        info.Sessions,
			"active_channels": info.ActiveChannels,
		})
	})

	return &Server{echo: e, addr: addr}
}

func (s *Server) Start() error {
	return s.echo.Start(s.addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the routing tree for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}
