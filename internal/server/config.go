// Package server provides the gin HTTP server, its middleware chain and
// health endpoints.
package server

import (
	"net/http"
	"slices"
	"time"
)

// Default timeout values. The write timeout bounds a whole SSE response, so it
// is generous.
const (
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultCORSMaxAge      = 12 * time.Hour

	defaultServiceVersion = "dev"
)

var (
	defaultCORSMethods = []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodOptions}
	defaultCORSHeaders = []string{
		"Origin", "Accept", "Accept-Encoding", "Cache-Control",
		"Content-Type", "Content-Length", "X-Requested-With", HeaderRequestID,
	}
)

// Config holds the HTTP server configuration.
type Config struct {
	Port            int
	Debug           bool
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	CORS            CORSConfig
	ServiceName     string
	ServiceVersion  string
}

// CORSConfig configures CORSMiddleware. Credentials are never allowed since
// the relay has no cookies or auth.
type CORSConfig struct {
	// AllowedOrigins may contain "*" to allow any origin.
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         time.Duration
}

// SetDefaults fills every zero value.
func (c *Config) SetDefaults() {
	c.ReadTimeout = orDefault(c.ReadTimeout, DefaultReadTimeout)
	c.WriteTimeout = orDefault(c.WriteTimeout, DefaultWriteTimeout)
	c.IdleTimeout = orDefault(c.IdleTimeout, DefaultIdleTimeout)
	c.ShutdownTimeout = orDefault(c.ShutdownTimeout, DefaultShutdownTimeout)
	c.ServiceVersion = orDefault(c.ServiceVersion, defaultServiceVersion)
	c.CORS.SetDefaults()
}

// SetDefaults allows any origin with the methods and headers the relay's
// routes accept.
func (c *CORSConfig) SetDefaults() {
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if len(c.AllowedMethods) == 0 {
		c.AllowedMethods = slices.Clone(defaultCORSMethods)
	}
	if len(c.AllowedHeaders) == 0 {
		c.AllowedHeaders = slices.Clone(defaultCORSHeaders)
	}
	c.MaxAge = orDefault(c.MaxAge, DefaultCORSMaxAge)
}

func orDefault[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
