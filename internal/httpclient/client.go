// Package httpclient builds the outbound HTTP clients used for the feed,
// scraper and LLM calls.
package httpclient

import (
	"net/http"
	"time"
)

const (
	// DefaultTimeout is the default end-to-end timeout for a request.
	DefaultTimeout = 30 * time.Second

	DefaultMaxIdleConns          = 100
	DefaultMaxIdleConnsPerHost   = 10
	DefaultIdleConnTimeout       = 90 * time.Second
	DefaultResponseHeaderTimeout = 30 * time.Second
	DefaultExpectContinueTimeout = 1 * time.Second
	DefaultTLSHandshakeTimeout   = 10 * time.Second
)

// Config configures an HTTP client.
type Config struct {
	// Timeout bounds the whole exchange including the body. Negative disables it,
	// which streaming callers need since a completion can outlive any fixed bound.
	Timeout time.Duration

	MaxIdleConnsPerHost   int
	ResponseHeaderTimeout time.Duration
}

// New creates an HTTP client with a tuned transport.
// A nil cfg yields all defaults.
func New(cfg *Config) *http.Client {
	if cfg == nil {
		cfg = &Config{}
	}

	timeout := cfg.Timeout
	switch {
	case timeout == 0:
		timeout = DefaultTimeout
	case timeout < 0:
		timeout = 0
	}

	perHost := cfg.MaxIdleConnsPerHost
	if perHost == 0 {
		perHost = DefaultMaxIdleConnsPerHost
	}

	headerTimeout := cfg.ResponseHeaderTimeout
	if headerTimeout == 0 {
		headerTimeout = DefaultResponseHeaderTimeout
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          DefaultMaxIdleConns,
		MaxIdleConnsPerHost:   perHost,
		IdleConnTimeout:       DefaultIdleConnTimeout,
		ResponseHeaderTimeout: headerTimeout,
		ExpectContinueTimeout: DefaultExpectContinueTimeout,
		TLSHandshakeTimeout:   DefaultTLSHandshakeTimeout,
		ForceAttemptHTTP2:     true,
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
