package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/threelok/news-relay/internal/logger"
)

// Server couples a gin engine with its http.Server.
type Server struct {
	router *gin.Engine
	http   *http.Server
	logger logger.Logger
	config *Config

	// cancelRequests cancels the base context of every request. SSE streams
	// only end through it; http.Server.Shutdown alone would wait them out.
	cancelRequests context.CancelCauseFunc
}

// maxDrainGrace bounds how long short requests may finish on their own
// during shutdown before their contexts are cancelled.
const maxDrainGrace = 5 * time.Second

var errShuttingDown = errors.New("server shutting down")

// New creates a server. setupRoutes runs after the standard middleware is
// installed, so every route gets recovery, request IDs, access logs and CORS.
func New(cfg *Config, log logger.Logger, setupRoutes func(*gin.Engine)) *Server {
	cfg.SetDefaults()

	mode := gin.ReleaseMode
	if cfg.Debug {
		mode = gin.DebugMode
	}
	gin.SetMode(mode)

	router := gin.New()
	router.Use(
		RecoveryMiddleware(log),
		RequestIDLoggerMiddleware(log),
		AccessLogMiddleware(),
		CORSMiddleware(cfg.CORS),
	)
	if setupRoutes != nil {
		setupRoutes(router)
	}

	baseCtx, cancelRequests := context.WithCancelCause(context.Background())

	return &Server{
		router:         router,
		cancelRequests: cancelRequests,
		http: &http.Server{
			BaseContext:       func(net.Listener) context.Context { return baseCtx },
			Addr:              net.JoinHostPort("", strconv.Itoa(cfg.Port)),
			Handler:           router,
			ReadHeaderTimeout: cfg.ReadTimeout,
			ReadTimeout:       cfg.ReadTimeout,
			// WriteTimeout caps a whole SSE stream, not just one frame.
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		logger: log,
		config: cfg,
	}
}

// Router returns the gin engine, mostly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run serves until SIGINT/SIGTERM or ctx cancellation, then drains in-flight
// requests for up to the shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return s.RunListener(ctx, ln)
}

// RunListener is Run on an existing listener, which it takes ownership of.
func (s *Server) RunListener(ctx context.Context, ln net.Listener) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.serve(ln)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
		s.logger.Info("Shutdown requested", logger.String("cause", context.Cause(ctx).Error()))
	}

	//nolint:contextcheck // ctx is already done
	return s.Shutdown(context.Background())
}

// Shutdown stops accepting connections and waits for active ones. Requests
// still running after the drain grace (open streams, in practice) have their
// contexts cancelled so they end through their normal ctx.Done path.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	grace := min(maxDrainGrace, s.config.ShutdownTimeout/2)
	s.logger.Info("Shutting down HTTP server",
		logger.Duration("timeout", s.config.ShutdownTimeout),
		logger.Duration("drain_grace", grace),
	)

	cancelAfterGrace := time.AfterFunc(grace, func() { s.cancelRequests(errShuttingDown) })
	defer cancelAfterGrace.Stop()
	defer s.cancelRequests(errShuttingDown)

	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

func (s *Server) serve(ln net.Listener) error {
	s.logger.Info("HTTP server listening",
		logger.String("addr", ln.Addr().String()),
		logger.String("version", s.config.ServiceVersion),
		logger.Duration("write_timeout", s.http.WriteTimeout),
	)

	err := s.http.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return fmt.Errorf("serve: %w", err)
}
