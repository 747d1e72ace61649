// Package api exposes the catalog and timeline services over HTTP. It is
// the server-side proxy consumed by the presentation layer: thin
// handlers over the cached services, no assembly logic of its own.
package api

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/metscout/metscout/internal/catalog"
	"github.com/metscout/metscout/internal/conf"
	"github.com/metscout/metscout/internal/logging"
	"github.com/metscout/metscout/internal/observability"
	"github.com/metscout/metscout/internal/timeline"
)

// Controller manages the API routes and handlers.
type Controller struct {
	Echo      *echo.Echo
	Group     *echo.Group
	Settings  *conf.Settings
	Catalog   *catalog.Service
	Assembler *timeline.Assembler
	Metrics   *observability.Metrics // may be nil
	apiLogger *slog.Logger
}

// ErrorResponse is the standard JSON error payload.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	Code          int    `json:"code"`
	CorrelationID string `json:"correlation_id"`
}

// New creates the API controller and registers all routes.
func New(settings *conf.Settings, catalogSvc *catalog.Service, assembler *timeline.Assembler, m *observability.Metrics) *Controller {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	c := &Controller{
		Echo:      e,
		Settings:  settings,
		Catalog:   catalogSvc,
		Assembler: assembler,
		Metrics:   m,
		apiLogger: logging.ForService("api"),
	}
	if c.apiLogger == nil {
		c.apiLogger = slog.Default().With("service", "api")
	}

	c.Group = e.Group("/api/v1")
	c.initArtworkRoutes()
	c.initTimelineRoutes()

	e.GET("/health", c.Health)
	if m != nil {
		e.GET("/metrics", echo.WrapHandler(m.Handler()))
	}

	return c
}

// Start runs the HTTP server until Shutdown is called.
func (c *Controller) Start() error {
	addr := fmt.Sprintf("%s:%d", c.Settings.Server.Host, c.Settings.Server.Port)
	c.apiLogger.Info("starting API server", "addr", addr)
	return c.Echo.Start(addr)
}

// Shutdown stops the HTTP server gracefully.
func (c *Controller) Shutdown(ctx context.Context) error {
	return c.Echo.Shutdown(ctx)
}

// Health reports liveness.
func (c *Controller) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleError logs an error and writes the standard error payload.
func (c *Controller) HandleError(ctx echo.Context, err error, message string, code int) error {
	resp := ErrorResponse{
		Message:       message,
		Code:          code,
		CorrelationID: newCorrelationID(),
	}
	if err != nil {
		resp.Error = err.Error()
	}

	c.apiLogger.Error("API error",
		"correlation_id", resp.CorrelationID,
		"message", message,
		"error", resp.Error,
		"code", code,
		"path", ctx.Request().URL.Path,
		"method", ctx.Request().Method,
		"ip", ctx.RealIP())

	return ctx.JSON(code, resp)
}

// newCorrelationID generates a short id tying a response to its log line.
func newCorrelationID() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "00000000"
	}
	return hex.EncodeToString(b)
}
