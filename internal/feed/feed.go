// Package feed proxies the news provider's category listing endpoint.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/threelok/news-relay/internal/domain"
	relayerrors "github.com/threelok/news-relay/internal/errors"
	"github.com/threelok/news-relay/internal/httpclient"
	"github.com/threelok/news-relay/internal/logger"
)

const opFetchCategory = "fetch category"

var (
	errInvalidJSON = errors.New("upstream body is not valid JSON")
	errTooLarge    = errors.New("upstream body exceeds size limit")
)

// Config configures a Client.
type Config struct {
	// URLTemplate holds one %s verb that receives the escaped category id.
	URLTemplate  string
	Timeout      time.Duration
	MaxBodyBytes int64
	// DefaultCategoryID replaces an empty id.
	DefaultCategoryID string
}

// Client fetches category listings.
type Client struct {
	http *http.Client
	cfg  Config
}

// New creates a feed Client. A nil client gets one built from cfg.Timeout.
func New(cfg Config, client *http.Client) *Client {
	if client == nil {
		client = httpclient.New(&httpclient.Config{Timeout: cfg.Timeout})
	}
	return &Client{http: client, cfg: cfg}
}

// CategoryURL builds the upstream URL for categoryID.
func (c *Client) CategoryURL(categoryID string) string {
	if categoryID == "" {
		categoryID = c.cfg.DefaultCategoryID
	}
	return fmt.Sprintf(c.cfg.URLTemplate, url.PathEscape(categoryID))
}

// FetchCategory returns the upstream JSON document for categoryID unchanged.
// The body is only checked for well-formedness.
func (c *Client) FetchCategory(ctx context.Context, categoryID string) ([]byte, error) {
	target := c.CategoryURL(categoryID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, domain.NewError(domain.KindFetch, opFetchCategory, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, domain.NewError(domain.KindFetch, opFetchCategory, fmt.Errorf("get %s: %w", target, err))
	}
	defer func() { _ = resp.Body.Close() }()

	if httpErr := relayerrors.CheckSuccess(resp); httpErr != nil {
		return nil, domain.NewError(domain.KindStatus, opFetchCategory, httpErr)
	}

	body, err := c.readBody(resp.Body)
	if err != nil {
		return nil, err
	}

	if !json.Valid(body) {
		return nil, domain.NewError(domain.KindDecode, opFetchCategory, errInvalidJSON)
	}

	logger.FromContext(ctx).Debug("Category feed fetched",
		logger.String("url", target),
		logger.Int("bytes", len(body)),
	)

	return body, nil
}

func (c *Client) readBody(r io.Reader) ([]byte, error) {
	limit := c.cfg.MaxBodyBytes
	if limit <= 0 {
		body, err := io.ReadAll(r)
		if err != nil {
			return nil, domain.NewError(domain.KindFetch, opFetchCategory, fmt.Errorf("read body: %w", err))
		}
		return body, nil
	}

	// One extra byte tells a body at the limit apart from a truncated one.
	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, domain.NewError(domain.KindFetch, opFetchCategory, fmt.Errorf("read body: %w", err))
	}
	if int64(len(body)) > limit {
		return nil, domain.NewError(domain.KindDecode, opFetchCategory, errTooLarge)
	}

	return body, nil
}
