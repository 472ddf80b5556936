package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/yominosekai/kshot/internal/profile"
	"github.com/yominosekai/kshot/server/internal/observability"
	"github.com/yominosekai/kshot/server/middleware"
	apiv1 "github.com/yominosekai/kshot/server/router/api/v1"
	"github.com/yominosekai/kshot/store"
)

// Server wires the HTTP layer on top of the store and the analytics service.
type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
	startTime  time.Time
}

// NewServer creates a server serving the activity API.
func NewServer(ctx context.Context, profile *profile.Profile, store *store.Store) (*Server, error) {
	s := &Server{
		Profile:   profile,
		Store:     store,
		startTime: time.Now(),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	s.echoServer = e

	e.Use(echomw.Recover())
	e.Use(requestLogger())
	e.Use(middleware.NewRateLimiter(30, 60).Middleware())

	e.GET("/healthz", s.healthzHandler)

	apiV1Service := apiv1.NewAPIV1Service(profile, store)
	apiV1Service.RegisterRoutes(e)

	return s, nil
}

// Start begins serving HTTP requests. It blocks until the listener fails or
// the server is shut down.
func (s *Server) Start(ctx context.Context) error {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	slog.Info("server started", slog.String("address", address), slog.String("mode", s.Profile.Mode))
	if err := s.echoServer.Start(address); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "failed to start server")
	}
	return nil
}

// Shutdown gracefully stops the server and closes the store.
func (s *Server) Shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.echoServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown server", slog.Any("error", err))
	}
	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close store", slog.Any("error", err))
	}
	slog.Info("server stopped")
}

func (s *Server) healthzHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.Profile.Version,
		"uptime":  time.Since(s.startTime).Round(time.Second).String(),
		"metrics": observability.GlobalMetrics().Snapshot(),
	})
}

// requestLogger logs each request with a request ID and records route metrics.
// An upstream X-Request-Id header is honored when present.
func requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			requestID := req.Header.Get(echo.HeaderXRequestID)

			var reqCtx *observability.RequestContext
			if requestID != "" {
				reqCtx = observability.NewRequestContextWithID(slog.Default(), requestID, req.Method, req.URL.Path)
			} else {
				reqCtx = observability.NewRequestContext(slog.Default(), req.Method, req.URL.Path)
			}
			c.Response().Header().Set(echo.HeaderXRequestID, reqCtx.RequestID)
			c.SetRequest(req.WithContext(observability.WithRequestContext(req.Context(), reqCtx)))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			observability.GlobalMetrics().RecordRequest(c.Path(), status, reqCtx.Duration())
			reqCtx.Info("request completed",
				slog.Int(observability.LogFieldStatus, status),
				slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()),
				slog.String(observability.LogFieldRemoteIP, c.RealIP()),
			)
			return nil
		}
	}
}
