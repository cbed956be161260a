package api

import (
	"github.com/gin-gonic/gin"

	"github.com/threelok/news-relay/internal/handler"
	"github.com/threelok/news-relay/internal/metrics"
)

// Route paths.
const (
	PathLatestNews = "/latestnewstelugu"
	PathScrape     = "/scrape"
	PathMetrics    = "/metrics"
)

// SetupRoutes registers the relay routes.
// Health routes are registered by the server builder. m may be nil, in
// which case /metrics is not served.
func SetupRoutes(
	router *gin.Engine,
	feedHandler *handler.FeedHandler,
	scrapeHandler *handler.ScrapeHandler,
	m *metrics.Metrics,
) {
	router.GET(PathLatestNews, feedHandler.LatestNews)
	router.POST(PathScrape, scrapeHandler.Scrape)

	if m != nil {
		router.GET(PathMetrics, gin.WrapH(m.Handler()))
	}
}
