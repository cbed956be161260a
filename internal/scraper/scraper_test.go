package scraper_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threelok/news-relay/internal/domain"
	"github.com/threelok/news-relay/internal/scraper"
)

const articleHTML = `<!doctype html>
<html><head><title>ignored</title></head>
<body>
  <h1 class="articleHD">  Rain lashes Vijayawada  </h1>
  <div class="article-img"><img src="%s" alt=""></div>
  <div class="category_desc">
    <p>Heavy rain hit the city.</p>
    <p> Schools are closed.</p>
  </div>
</body></html>`

func defaultConfig() scraper.Config {
	return scraper.Config{
		Selectors: scraper.Selectors{
			Title:     ".articleHD",
			Image:     ".article-img img",
			ImageAttr: "src",
			Body:      ".category_desc p",
		},
		UserAgent:    "news-relay-test",
		MaxBodyBytes: 1 << 20,
	}
}

func serveHTML(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "news-relay-test", r.UserAgent())
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestScrape_ExtractsFields(t *testing.T) {
	t.Parallel()

	srv := serveHTML(t, http.StatusOK, fmt.Sprintf(articleHTML, "https://cdn.example/lead.jpg"))
	s := scraper.New(defaultConfig(), srv.Client())

	got, err := s.Scrape(context.Background(), srv.URL+"/news/1")
	require.NoError(t, err)

	assert.Equal(t, "Rain lashes Vijayawada", got.Title)
	assert.Equal(t, "https://cdn.example/lead.jpg", got.ImageURL)
	assert.Equal(t, "Heavy rain hit the city. Schools are closed.", got.BodyText)
}

func TestScrape_ResolvesRelativeImage(t *testing.T) {
	t.Parallel()

	srv := serveHTML(t, http.StatusOK, fmt.Sprintf(articleHTML, "/img/lead.jpg"))
	s := scraper.New(defaultConfig(), srv.Client())

	got, err := s.Scrape(context.Background(), srv.URL+"/news/1")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/img/lead.jpg", got.ImageURL)
}

func TestScrape_MissingImageIsAllowed(t *testing.T) {
	t.Parallel()

	page := `<html><body><h1 class="articleHD">T</h1><div class="category_desc"><p>Body</p></div></body></html>`
	srv := serveHTML(t, http.StatusOK, page)
	s := scraper.New(defaultConfig(), srv.Client())

	got, err := s.Scrape(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Empty(t, got.ImageURL)
}

func TestScrape_EmptyTitle(t *testing.T) {
	t.Parallel()

	page := `<html><body><div class="category_desc"><p>Body</p></div></body></html>`
	srv := serveHTML(t, http.StatusOK, page)
	s := scraper.New(defaultConfig(), srv.Client())

	got, err := s.Scrape(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Nil(t, got)
	assert.Equal(t, domain.KindEmpty, domain.KindOf(err))
}

func TestScrape_EmptyBody(t *testing.T) {
	t.Parallel()

	page := `<html><body><h1 class="articleHD">T</h1><div class="category_desc"><p>   </p></div></body></html>`
	srv := serveHTML(t, http.StatusOK, page)
	s := scraper.New(defaultConfig(), srv.Client())

	_, err := s.Scrape(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Equal(t, domain.KindEmpty, domain.KindOf(err))
}

func TestScrape_UpstreamStatus(t *testing.T) {
	t.Parallel()

	srv := serveHTML(t, http.StatusNotFound, "gone")
	s := scraper.New(defaultConfig(), srv.Client())

	_, err := s.Scrape(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Equal(t, domain.KindStatus, domain.KindOf(err))
}

func TestScrape_RejectsNonHTTPURL(t *testing.T) {
	t.Parallel()

	s := scraper.New(defaultConfig(), nil)

	for _, raw := range []string{"ftp://example.com/a", "not a url", "file:///etc/passwd", "http://"} {
		_, err := s.Scrape(context.Background(), raw)
		require.Error(t, err, raw)
		assert.Equal(t, domain.KindFetch, domain.KindOf(err), raw)
	}
}

func TestScrape_TransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	s := scraper.New(defaultConfig(), nil)
	_, err := s.Scrape(context.Background(), url)
	require.Error(t, err)
	assert.Equal(t, domain.KindFetch, domain.KindOf(err))
}

func TestScrape_OversizedPageIsRejected(t *testing.T) {
	t.Parallel()

	page := fmt.Sprintf(articleHTML, "https://cdn.example/lead.jpg")
	srv := serveHTML(t, http.StatusOK, page)

	cfg := defaultConfig()
	// Cut inside the body paragraphs so a truncated parse would still find text.
	cfg.MaxBodyBytes = int64(strings.Index(page, "Schools"))
	s := scraper.New(cfg, srv.Client())

	got, err := s.Scrape(context.Background(), srv.URL+"/news/1")
	require.Error(t, err)
	assert.Nil(t, got)
	assert.Equal(t, domain.KindDecode, domain.KindOf(err))
}

func TestScrape_PageAtLimitIsAccepted(t *testing.T) {
	t.Parallel()

	page := fmt.Sprintf(articleHTML, "https://cdn.example/lead.jpg")
	srv := serveHTML(t, http.StatusOK, page)

	cfg := defaultConfig()
	cfg.MaxBodyBytes = int64(len(page))
	s := scraper.New(cfg, srv.Client())

	got, err := s.Scrape(context.Background(), srv.URL+"/news/1")
	require.NoError(t, err)
	assert.Equal(t, "Heavy rain hit the city. Schools are closed.", got.BodyText)
}
