// Package api assembles the relay's HTTP server.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/threelok/news-relay/internal/config"
	"github.com/threelok/news-relay/internal/handler"
	"github.com/threelok/news-relay/internal/logger"
	"github.com/threelok/news-relay/internal/metrics"
	"github.com/threelok/news-relay/internal/server"
)

// NewServer creates the HTTP server.
func NewServer(
	feedHandler *handler.FeedHandler,
	scrapeHandler *handler.ScrapeHandler,
	m *metrics.Metrics,
	cfg *config.Config,
	log logger.Logger,
) *server.Server {
	return server.NewBuilder(cfg.Service.Name, cfg.Service.Port).
		WithLogger(log).
		WithDebug(cfg.Service.Debug).
		WithVersion(cfg.Service.Version).
		WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.IdleTimeout).
		WithShutdownTimeout(cfg.Server.ShutdownTimeout).
		WithCORSOrigins(cfg.Server.CORSOrigins).
		WithRoutes(func(router *gin.Engine) {
			SetupRoutes(router, feedHandler, scrapeHandler, m)
		}).
		Build()
}
