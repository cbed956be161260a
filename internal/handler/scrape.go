package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/threelok/news-relay/internal/domain"
	"github.com/threelok/news-relay/internal/llm"
	"github.com/threelok/news-relay/internal/logger"
	"github.com/threelok/news-relay/internal/metrics"
	"github.com/threelok/news-relay/internal/sse"
)

type scrapeRequest struct {
	URL string `json:"url"`
}

// ScrapeHandler scrapes an article and streams its rewrite as SSE.
type ScrapeHandler struct {
	scraper  ArticleScraper
	streamer llm.Streamer
	// params carries the fixed model settings; Prompt is filled per request.
	params  llm.Request
	metrics *metrics.Metrics
}

// NewScrapeHandler creates a ScrapeHandler. m may be nil.
func NewScrapeHandler(
	scraper ArticleScraper,
	streamer llm.Streamer,
	params llm.Request,
	m *metrics.Metrics,
) *ScrapeHandler {
	return &ScrapeHandler{
		scraper:  scraper,
		streamer: streamer,
		params:   params,
		metrics:  m,
	}
}

// Scrape handles POST /scrape.
//
// Any failure before the first frame is answered with a JSON error. Once the
// metadata frame is out, the status is committed and a failing completion is
// reported with a single "error" event.
func (h *ScrapeHandler) Scrape(c *gin.Context) {
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()
	log := logger.FromContext(ctx)

	var req scrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.URL) == "" {
		h.metrics.ObserveRequest(metrics.RouteScrape, metrics.OutcomeBadRequest)
		c.JSON(http.StatusBadRequest, gin.H{"error": msgURLRequired})
		return
	}
	articleURL := strings.TrimSpace(req.URL)
	log = log.With(logger.String("article_url", articleURL))

	start := time.Now()
	article, err := h.scraper.Scrape(ctx, articleURL)
	h.metrics.ObserveUpstream(metrics.CollaboratorScraper, metrics.Outcome(err), time.Since(start))
	if err != nil {
		h.fail(c, log, "Failed to scrape article", err)
		return
	}

	params := h.params
	params.Prompt = llm.BuildPrompt(article.BodyText)

	start = time.Now()
	fragments, err := h.streamer.Stream(ctx, params)
	if err != nil {
		h.metrics.ObserveUpstream(metrics.CollaboratorLLM, metrics.OutcomeError, time.Since(start))
		h.fail(c, log, "Failed to open completion stream", err)
		return
	}

	outcome := h.relay(ctx, sse.NewWriter(c.Writer), article, fragments, log)
	h.metrics.ObserveUpstream(metrics.CollaboratorLLM, outcome, time.Since(start))
	h.metrics.ObserveRequest(metrics.RouteScrape, outcome)
}

// relay writes the metadata frame and then one content frame per fragment.
// It returns the request outcome label.
func (h *ScrapeHandler) relay(
	ctx context.Context,
	w *sse.Writer,
	article *domain.ScrapeResult,
	fragments <-chan llm.Fragment,
	log logger.Logger,
) string {
	if err := w.SendData(article.Meta()); err != nil {
		log.Debug("Client went away before metadata", logger.Error(err))
		return metrics.OutcomeClientGone
	}

	count := 0
	for frag := range fragments {
		if frag.Err != nil {
			log.Error("Completion stream failed mid-way",
				failureFields(frag.Err, logger.Int("fragments", count))...,
			)
			if err := w.Send(sse.Event{
				Type: eventTypeFailure,
				Data: domain.ErrorEvent{Error: msgStreamFailed},
			}); err != nil {
				log.Debug("Could not deliver stream error frame", logger.Error(err))
			}
			return metrics.OutcomeStreamError
		}

		if err := w.SendData(domain.ContentEvent{Content: frag.Text}); err != nil {
			log.Debug("Client went away mid-stream",
				logger.Int("fragments", count),
				logger.Error(err),
			)
			return metrics.OutcomeClientGone
		}
		count++
		h.metrics.AddFragment()
	}

	if ctx.Err() != nil {
		log.Debug("Stream stopped by cancellation", logger.Int("fragments", count))
		return metrics.OutcomeClientGone
	}

	log.Info("Rewrite streamed", logger.Int("fragments", count))
	return metrics.OutcomeOK
}

func (h *ScrapeHandler) fail(c *gin.Context, log logger.Logger, msg string, err error) {
	log.Error(msg, failureFields(err)...)
	h.metrics.ObserveRequest(metrics.RouteScrape, metrics.OutcomeError)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msgScrapeFailed})
}
