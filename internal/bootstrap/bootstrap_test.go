package bootstrap_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threelok/news-relay/internal/bootstrap"
	"github.com/threelok/news-relay/internal/config"
	"github.com/threelok/news-relay/internal/logger"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("llm:\n  groq_api_key: test-key\nmetrics:\n  enabled: true\n"), 0o600))

	cfg, err := bootstrap.LoadConfig(path, false)
	require.NoError(t, err)
	return cfg
}

func TestLoadConfig_DebugFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: warn\n"), 0o600))

	cfg, err := bootstrap.LoadConfig(path, true)
	require.NoError(t, err)
	assert.True(t, cfg.Service.Debug)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestNewHTTPComponents_Routes(t *testing.T) {
	cfg := testConfig(t)

	comps, err := bootstrap.NewHTTPComponents(cfg, logger.NewNop())
	require.NoError(t, err)
	require.NotNil(t, comps.Metrics)

	router := comps.Server.Router()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/scrape", http.NoBody))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"URL is required"}`, w.Body.String())
}

func TestNewHTTPComponents_CORSPreflight(t *testing.T) {
	cfg := testConfig(t)

	comps, err := bootstrap.NewHTTPComponents(cfg, logger.NewNop())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodOptions, "/scrape", http.NoBody)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	w := httptest.NewRecorder()
	comps.Server.Router().ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestNewScraper_UsesConfiguredSelectors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><h2 class="headline">H</h2><article><p>Text</p></article></body></html>`))
	}))
	defer srv.Close()

	cfg := testConfig(t)
	cfg.Scraper.TitleSelector = ".headline"
	cfg.Scraper.BodySelector = "article p"

	got, err := bootstrap.NewScraper(cfg.Scraper).Scrape(t.Context(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "H", got.Title)
	assert.Equal(t, "Text", got.BodyText)
}
