package bootstrap

import (
	"fmt"

	"github.com/threelok/news-relay/internal/api"
	"github.com/threelok/news-relay/internal/config"
	"github.com/threelok/news-relay/internal/feed"
	"github.com/threelok/news-relay/internal/handler"
	"github.com/threelok/news-relay/internal/httpclient"
	"github.com/threelok/news-relay/internal/llm"
	"github.com/threelok/news-relay/internal/logger"
	"github.com/threelok/news-relay/internal/metrics"
	"github.com/threelok/news-relay/internal/scraper"
	"github.com/threelok/news-relay/internal/server"
)

// NewScraper builds the article scraper.
func NewScraper(cfg config.ScraperConfig) *scraper.Scraper {
	return scraper.New(scraper.Config{
		Selectors: scraper.Selectors{
			Title:     cfg.TitleSelector,
			Image:     cfg.ImageSelector,
			ImageAttr: cfg.ImageAttr,
			Body:      cfg.BodySelector,
		},
		UserAgent:    cfg.UserAgent,
		Timeout:      cfg.Timeout,
		MaxBodyBytes: cfg.MaxBodyBytes,
	}, httpclient.New(&httpclient.Config{Timeout: cfg.Timeout}))
}

// NewFeedClient builds the category feed client.
func NewFeedClient(cfg config.FeedConfig) *feed.Client {
	return feed.New(feed.Config{
		URLTemplate:       cfg.URLTemplate,
		Timeout:           cfg.Timeout,
		MaxBodyBytes:      cfg.MaxBodyBytes,
		DefaultCategoryID: config.DefaultCategoryID,
	}, httpclient.New(&httpclient.Config{Timeout: cfg.Timeout}))
}

// NewStreamer builds the completion streamer. Its client has no overall
// timeout; the request context bounds each stream.
func NewStreamer(cfg config.LLMConfig) (llm.Streamer, error) {
	return llm.New(cfg, httpclient.New(&httpclient.Config{Timeout: -1}))
}

// HTTPComponents holds everything the serve command runs.
type HTTPComponents struct {
	Server  *server.Server
	Metrics *metrics.Metrics
}

// NewHTTPComponents wires collaborators, handlers and the server.
func NewHTTPComponents(cfg *config.Config, log logger.Logger) (*HTTPComponents, error) {
	streamer, err := NewStreamer(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("create streamer: %w", err)
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics.Namespace)
	}

	feedHandler := handler.NewFeedHandler(NewFeedClient(cfg.Feed), config.DefaultCategoryID, m)
	scrapeHandler := handler.NewScrapeHandler(
		NewScraper(cfg.Scraper),
		streamer,
		llm.RequestFromConfig(cfg.LLM, ""),
		m,
	)

	log.Info("Relay components initialized",
		logger.String("llm_provider", cfg.LLM.Provider),
		logger.String("llm_model", cfg.LLM.Model),
		logger.Bool("metrics_enabled", m != nil),
	)

	return &HTTPComponents{
		Server:  api.NewServer(feedHandler, scrapeHandler, m, cfg, log),
		Metrics: m,
	}, nil
}
