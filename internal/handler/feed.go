package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/threelok/news-relay/internal/logger"
	"github.com/threelok/news-relay/internal/metrics"
)

const contentTypeJSON = "application/json; charset=utf-8"

// FeedHandler proxies category listings.
type FeedHandler struct {
	feed            CategoryFetcher
	defaultCategory string
	metrics         *metrics.Metrics
}

// NewFeedHandler creates a FeedHandler. m may be nil.
func NewFeedHandler(feed CategoryFetcher, defaultCategory string, m *metrics.Metrics) *FeedHandler {
	return &FeedHandler{feed: feed, defaultCategory: defaultCategory, metrics: m}
}

// LatestNews handles GET /latestnewstelugu.
func (h *FeedHandler) LatestNews(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.FromContext(ctx)

	categoryID := c.Query("categoryId")
	if categoryID == "" {
		categoryID = h.defaultCategory
	}

	start := time.Now()
	body, err := h.feed.FetchCategory(ctx, categoryID)
	h.metrics.ObserveUpstream(metrics.CollaboratorFeed, metrics.Outcome(err), time.Since(start))

	if err != nil {
		log.Error("Failed to fetch category feed",
			failureFields(err, logger.String("category_id", categoryID))...,
		)
		h.metrics.ObserveRequest(metrics.RouteFeed, metrics.OutcomeError)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgFetchFailed})
		return
	}

	h.metrics.ObserveRequest(metrics.RouteFeed, metrics.OutcomeOK)
	c.Data(http.StatusOK, contentTypeJSON, body)
}
