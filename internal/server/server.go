// Package server exposes the webhook endpoint and a health check over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	HealthPath      = "/healthz"
	shutdownTimeout = 10 * time.Second
	bodyLimit       = "2M"
)

// Stats reports process state for the health check.
type Stats interface {
	ChatCount() int
}

type healthResponse struct {
	Status string `json:"status"`
	Chats  int    `json:"chats"`
}

// New builds the HTTP server. webhook, when non-nil, receives Telegram
// updates POSTed to webhookPath.
func New(webhookPath string, webhook http.Handler, stats Stats) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		Skipper: func(c echo.Context) bool {
			return c.Path() == HealthPath
		},
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			slog.Debug("http request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"duration", v.Latency,
			)
			return nil
		},
	}))
	e.Use(middleware.BodyLimit(bodyLimit))

	e.GET(HealthPath, func(c echo.Context) error {
		return c.JSON(http.StatusOK, healthResponse{Status: "ok", Chats: stats.ChatCount()})
	})
	if webhook != nil {
		e.POST(webhookPath, echo.WrapHandler(webhook))
	}
	return e
}

// Run serves e on addr until ctx is cancelled, then shuts it down gracefully.
func Run(ctx context.Context, e *echo.Echo, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
