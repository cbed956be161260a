package server

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/threelok/news-relay/internal/logger"
)

// Builder provides a fluent API for building a Server.
type Builder struct {
	config      *Config
	logger      logger.Logger
	setupRoutes func(*gin.Engine)
}

// NewBuilder creates a builder for the named service.
func NewBuilder(serviceName string, port int) *Builder {
	return &Builder{
		config: &Config{
			Port:        port,
			ServiceName: serviceName,
		},
	}
}

// WithLogger sets the logger.
func (b *Builder) WithLogger(log logger.Logger) *Builder {
	b.logger = log
	return b
}

// WithDebug enables or disables gin debug mode.
func (b *Builder) WithDebug(debug bool) *Builder {
	b.config.Debug = debug
	return b
}

// WithVersion sets the service version reported by /health.
func (b *Builder) WithVersion(version string) *Builder {
	b.config.ServiceVersion = version
	return b
}

// WithTimeouts sets read, write and idle timeouts.
func (b *Builder) WithTimeouts(read, write, idle time.Duration) *Builder {
	b.config.ReadTimeout = read
	b.config.WriteTimeout = write
	b.config.IdleTimeout = idle
	return b
}

// WithShutdownTimeout bounds graceful shutdown.
func (b *Builder) WithShutdownTimeout(d time.Duration) *Builder {
	b.config.ShutdownTimeout = d
	return b
}

// WithCORSOrigins sets allowed CORS origins.
func (b *Builder) WithCORSOrigins(origins []string) *Builder {
	b.config.CORS.AllowedOrigins = origins
	return b
}

// WithRoutes sets the route setup function.
func (b *Builder) WithRoutes(setupRoutes func(*gin.Engine)) *Builder {
	b.setupRoutes = setupRoutes
	return b
}

// Build creates the server. Health routes are always registered.
func (b *Builder) Build() *Server {
	if b.logger == nil {
		b.logger = logger.Must(logger.Config{Development: b.config.Debug})
	}

	cfg := b.config
	wrapped := func(router *gin.Engine) {
		RegisterHealthRoutes(router, cfg.ServiceName, cfg.ServiceVersion)
		if b.setupRoutes != nil {
			b.setupRoutes(router)
		}
	}

	return New(cfg, b.logger, wrapped)
}
