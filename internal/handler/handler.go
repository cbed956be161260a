// Package handler holds the relay's HTTP handlers.
package handler

import (
	"context"

	"github.com/threelok/news-relay/internal/domain"
	relayerrors "github.com/threelok/news-relay/internal/errors"
	"github.com/threelok/news-relay/internal/logger"
)

// Client-facing error messages. Upstream detail is logged, never returned.
const (
	msgFetchFailed   = "Failed to fetch data"
	msgURLRequired   = "URL is required"
	msgScrapeFailed  = "Failed to scrape content or get AI response"
	msgStreamFailed  = "Failed to get AI response"
	eventTypeFailure = "error"
)

// ArticleScraper extracts the fields of an article page.
type ArticleScraper interface {
	Scrape(ctx context.Context, url string) (*domain.ScrapeResult, error)
}

// CategoryFetcher returns a category listing as raw JSON.
type CategoryFetcher interface {
	FetchCategory(ctx context.Context, categoryID string) ([]byte, error)
}

// describeFailure gives the log reason for a collaborator error kind.
func describeFailure(kind domain.ErrorKind) string {
	switch kind {
	case domain.KindFetch:
		return "upstream unreachable or url unusable"
	case domain.KindStatus:
		return "upstream returned an error status"
	case domain.KindDecode:
		return "upstream body could not be parsed"
	case domain.KindEmpty:
		return "required field was empty"
	case domain.KindStream:
		return "completion stream failed"
	default:
		return "unexpected error"
	}
}

// failureFields describes a collaborator error for the log.
func failureFields(err error, extra ...logger.Field) []logger.Field {
	fields := make([]logger.Field, 0, len(extra)+3)
	fields = append(fields, extra...)
	fields = append(fields,
		logger.String("reason", describeFailure(domain.KindOf(err))),
		logger.Error(err),
	)
	if status, ok := relayerrors.GetHTTPStatusCode(err); ok {
		fields = append(fields, logger.Int("upstream_status", status))
	}
	return fields
}
