package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DjordjeVuckovic/tsp-results/internal/apperr"
	mw "github.com/DjordjeVuckovic/tsp-results/pkg/middleware"
	pkgserver "github.com/DjordjeVuckovic/tsp-results/pkg/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

const (
	GracefulShutdownTimeout = 10 * time.Second
)

type Server struct {
	Echo *echo.Echo

	cfg    *Config
	health pkgserver.HealthChecker
	ctx    context.Context
	stop   context.CancelFunc
}

func New(cfg *Config, health pkgserver.HealthChecker) *Server {
	e := echo.New()
	e.HideBanner = true
	e.DisableHTTP2 = !cfg.UseHttp2

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	return &Server{
		Echo:   e,
		cfg:    cfg,
		health: health,
		ctx:    ctx,
		stop:   stop,
	}
}

// Context is cancelled when the process receives a shutdown signal.
func (s *Server) Context() context.Context {
	return s.ctx
}

func (s *Server) ShutdownSignal() <-chan struct{} {
	return s.ctx.Done()
}

func (s *Server) SetupMiddlewares() *Server {
	s.Echo.Use(mw.Logger(mw.WithSkippedPaths("/health", "/metrics")))
	s.Echo.Use(middleware.Recover())
	s.Echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: s.cfg.CorsOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
	}))
	return s
}

func (s *Server) SetupErrorHandler() *Server {
	s.Echo.HTTPErrorHandler = apperr.GlobalErrorHandler()
	return s
}

func (s *Server) SetupHealthChecks(path string) *Server {
	s.Echo.GET(path, func(c echo.Context) error {
		if !s.health.Healthy(c.Request().Context()) {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	return s
}

func (s *Server) SetupMetrics(path string) *Server {
	s.Echo.GET(path, echo.WrapHandler(promhttp.Handler()))
	return s
}

func (s *Server) SetupOpenApi(path string) *Server {
	s.Echo.GET(path, echoSwagger.WrapHandler)
	return s
}

// Start serves until a shutdown signal arrives, then drains in-flight
// requests within GracefulShutdownTimeout.
func (s *Server) Start() error {
	defer s.stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "port", s.cfg.Port, "http2", s.cfg.UseHttp2)
		if err := s.Echo.Start(":" + s.cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-s.ctx.Done():
	}

	ctx, cancel := context.WithTimeout(context.Background(), GracefulShutdownTimeout)
	defer cancel()

	if err := s.Echo.Shutdown(ctx); err != nil {
		return err
	}
	slog.Info("Server stopped")
	return nil
}
