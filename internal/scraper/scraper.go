// Package scraper fetches an article page and extracts its title, lead image
// and body text with fixed CSS selectors.
package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/threelok/news-relay/internal/domain"
	relayerrors "github.com/threelok/news-relay/internal/errors"
	"github.com/threelok/news-relay/internal/httpclient"
	"github.com/threelok/news-relay/internal/logger"
)

const opScrape = "scrape article"

var (
	errUnsupportedScheme = errors.New("url scheme must be http or https")
	errMissingHost       = errors.New("url has no host")
	errEmptyTitle        = errors.New("title selector matched no text")
	errEmptyBody         = errors.New("body selector matched no text")
	errPageTooLarge      = errors.New("page exceeds size limit")
)

// Selectors names the CSS selectors used for extraction.
type Selectors struct {
	Title string
	// Image selects the lead <img>; ImageAttr is read from its first match.
	Image     string
	ImageAttr string
	Body      string
}

// Config configures a Scraper.
type Config struct {
	Selectors    Selectors
	UserAgent    string
	Timeout      time.Duration
	MaxBodyBytes int64
}

// Scraper extracts a domain.ScrapeResult from an article URL.
type Scraper struct {
	client *http.Client
	cfg    Config
}

// New creates a Scraper. A nil client gets one built from cfg.Timeout.
func New(cfg Config, client *http.Client) *Scraper {
	if client == nil {
		client = httpclient.New(&httpclient.Config{Timeout: cfg.Timeout})
	}
	return &Scraper{client: client, cfg: cfg}
}

// Scrape fetches rawURL and extracts the configured fields. Every failure is
// a *domain.Error; a result is only returned when title and body are present.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) (*domain.ScrapeResult, error) {
	pageURL, err := parseArticleURL(rawURL)
	if err != nil {
		return nil, domain.NewError(domain.KindFetch, opScrape, err)
	}

	doc, err := s.fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	result := s.extract(doc, pageURL)
	switch {
	case result.Title == "":
		return nil, domain.NewError(domain.KindEmpty, opScrape, errEmptyTitle)
	case result.BodyText == "":
		return nil, domain.NewError(domain.KindEmpty, opScrape, errEmptyBody)
	}

	logger.FromContext(ctx).Debug("Article scraped",
		logger.String("url", pageURL.String()),
		logger.Int("title_len", len(result.Title)),
		logger.Int("body_len", len(result.BodyText)),
		logger.Bool("has_image", result.ImageURL != ""),
	)

	return result, nil
}

func (s *Scraper) fetch(ctx context.Context, pageURL *url.URL) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), http.NoBody)
	if err != nil {
		return nil, domain.NewError(domain.KindFetch, opScrape, fmt.Errorf("create request: %w", err))
	}
	if s.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", s.cfg.UserAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, domain.NewError(domain.KindFetch, opScrape, fmt.Errorf("fetch page: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if httpErr := relayerrors.CheckSuccess(resp); httpErr != nil {
		return nil, domain.NewError(domain.KindStatus, opScrape, httpErr)
	}

	page, err := s.readPage(resp.Body)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, domain.NewError(domain.KindDecode, opScrape, fmt.Errorf("parse html: %w", err))
	}

	return doc, nil
}

// readPage reads the whole page. A page over MaxBodyBytes is rejected rather
// than parsed truncated, since a cut-off body would still match selectors.
func (s *Scraper) readPage(r io.Reader) ([]byte, error) {
	limit := s.cfg.MaxBodyBytes
	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}

	page, err := io.ReadAll(r)
	if err != nil {
		return nil, domain.NewError(domain.KindFetch, opScrape, fmt.Errorf("read page: %w", err))
	}
	if limit > 0 && int64(len(page)) > limit {
		return nil, domain.NewError(domain.KindDecode, opScrape,
			fmt.Errorf("%w: %d bytes", errPageTooLarge, limit))
	}
	return page, nil
}

func (s *Scraper) extract(doc *goquery.Document, pageURL *url.URL) *domain.ScrapeResult {
	sel := s.cfg.Selectors

	result := &domain.ScrapeResult{
		Title:    strings.TrimSpace(doc.Find(sel.Title).Text()),
		BodyText: strings.TrimSpace(doc.Find(sel.Body).Text()),
	}

	if src, ok := doc.Find(sel.Image).First().Attr(sel.ImageAttr); ok {
		result.ImageURL = resolveReference(pageURL, strings.TrimSpace(src))
	}

	return result
}

func parseArticleURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errUnsupportedScheme
	}
	if u.Host == "" {
		return nil, errMissingHost
	}
	return u, nil
}

// resolveReference makes a relative image src absolute. Absolute or
// unparseable values are returned unchanged.
func resolveReference(base *url.URL, ref string) string {
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil || u.IsAbs() {
		return ref
	}
	return base.ResolveReference(u).String()
}
