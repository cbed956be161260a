// Package config loads the relay configuration from YAML, .env files and
// environment variables.
package config

import (
	"time"
)

// LLM provider names accepted in llm.provider.
const (
	ProviderGroq      = "groq"
	ProviderAnthropic = "anthropic"
)

// Default configuration values.
const (
	defaultServiceName = "news-relay"
	defaultVersion     = "0.1.0"
	defaultServicePort = 3000

	defaultReadTimeout     = 30 * time.Second
	defaultWriteTimeout    = 10 * time.Minute
	defaultIdleTimeout     = 120 * time.Second
	defaultShutdownTimeout = 30 * time.Second

	defaultFeedURLTemplate = "https://www.andhrajyothy.com/cms/articles/category/%s"
	defaultFeedTimeout     = 30 * time.Second
	defaultMaxBodyBytes    = 10 << 20

	defaultTitleSelector = ".articleHD"
	defaultImageSelector = ".article-img img"
	defaultImageAttr     = "src"
	defaultBodySelector  = ".category_desc p"
	defaultUserAgent     = "Mozilla/5.0 (compatible; NewsRelay/1.0)"
	defaultScrapeTimeout = 30 * time.Second

	defaultGroqBaseURL      = "https://api.groq.com/openai/v1"
	defaultGroqModel        = "llama-3.3-70b-versatile"
	defaultAnthropicModel   = "claude-sonnet-4-5"
	defaultTemperature      float64 = 0.5
	defaultTopP             float64 = 0.5
	defaultMaxTokens        = 8000
	defaultSystemPersona    = "You are a helpful news writer named 3lok news AI Assistent, and you are created by a company called 3Lok."
	defaultLoggingLevel     = "info"
	defaultLoggingFormat    = "json"
	defaultProfilingPort    = 6060
	defaultFeedCategoryID   = "1"
	defaultMetricsNamespace = "news_relay"
)

// DefaultCategoryID is used when a caller omits the category.
const DefaultCategoryID = defaultFeedCategoryID

// Config holds the application configuration.
type Config struct {
	Service   ServiceConfig   `yaml:"service"`
	Server    ServerConfig    `yaml:"server"`
	Feed      FeedConfig      `yaml:"feed"`
	Scraper   ScraperConfig   `yaml:"scraper"`
	LLM       LLMConfig       `yaml:"llm"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Logging   LoggingConfig   `yaml:"logging"`
	Profiling ProfilingConfig `yaml:"profiling"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Port    int    `env:"NEWS_RELAY_PORT" yaml:"port"`
	Debug   bool   `env:"APP_DEBUG"       yaml:"debug"`
}

// ServerConfig holds HTTP server tuning.
type ServerConfig struct {
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CORSOrigins     []string      `env:"CORS_ORIGINS" yaml:"cors_origins"`
}

// FeedConfig describes the upstream category feed.
type FeedConfig struct {
	// URLTemplate contains a single %s verb replaced by the category id.
	URLTemplate  string        `env:"FEED_URL_TEMPLATE" yaml:"url_template"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
}

// ScraperConfig holds the article selectors and fetch settings.
type ScraperConfig struct {
	TitleSelector string        `yaml:"title_selector"`
	ImageSelector string        `yaml:"image_selector"`
	ImageAttr     string        `yaml:"image_attr"`
	BodySelector  string        `yaml:"body_selector"`
	UserAgent     string        `yaml:"user_agent"`
	Timeout       time.Duration `yaml:"timeout"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes"`
}

// LLMConfig configures the completion-stream provider.
type LLMConfig struct {
	Provider        string `env:"LLM_PROVIDER"      yaml:"provider"`
	Model           string `env:"LLM_MODEL"         yaml:"model"`
	BaseURL         string `env:"LLM_BASE_URL"      yaml:"base_url"`
	GroqAPIKey      string `env:"GROQ_API_KEY"      yaml:"groq_api_key"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY" yaml:"anthropic_api_key"`

	// Temperature and TopP are pointers so an explicit 0 survives defaulting.
	Temperature   *float64 `yaml:"temperature"`
	TopP          *float64 `yaml:"top_p"`
	MaxTokens     int      `yaml:"max_tokens"`
	SystemPersona string   `yaml:"system_persona"`
}

// APIKey returns the key for the configured provider.
func (c *LLMConfig) APIKey() string {
	if c.Provider == ProviderAnthropic {
		return c.AnthropicAPIKey
	}
	return c.GroqAPIKey
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled   bool   `env:"METRICS_ENABLED" yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// ProfilingConfig enables the localhost pprof listener.
type ProfilingConfig struct {
	Enabled bool `env:"ENABLE_PROFILING" yaml:"enabled"`
	Port    int  `env:"PPROF_PORT"       yaml:"port"`
}

// Load loads configuration from the specified path.
func Load(path string) (*Config, error) {
	return loadWithDefaults[Config](path, setDefaults)
}

func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setServerDefaults(&cfg.Server)
	setFeedDefaults(&cfg.Feed)
	setScraperDefaults(&cfg.Scraper)
	setLLMDefaults(&cfg.LLM)
	setMetricsDefaults(&cfg.Metrics)
	setLoggingDefaults(&cfg.Logging)

	if cfg.Profiling.Port == 0 {
		cfg.Profiling.Port = defaultProfilingPort
	}
}

func setServiceDefaults(svc *ServiceConfig) {
	if svc.Name == "" {
		svc.Name = defaultServiceName
	}
	if svc.Version == "" {
		svc.Version = defaultVersion
	}
	if svc.Port == 0 {
		svc.Port = defaultServicePort
	}
}

func setServerDefaults(srv *ServerConfig) {
	if srv.ReadTimeout == 0 {
		srv.ReadTimeout = defaultReadTimeout
	}
	if srv.WriteTimeout == 0 {
		srv.WriteTimeout = defaultWriteTimeout
	}
	if srv.IdleTimeout == 0 {
		srv.IdleTimeout = defaultIdleTimeout
	}
	if srv.ShutdownTimeout == 0 {
		srv.ShutdownTimeout = defaultShutdownTimeout
	}
	if len(srv.CORSOrigins) == 0 {
		srv.CORSOrigins = []string{"*"}
	}
}

func setFeedDefaults(feed *FeedConfig) {
	if feed.URLTemplate == "" {
		feed.URLTemplate = defaultFeedURLTemplate
	}
	if feed.Timeout == 0 {
		feed.Timeout = defaultFeedTimeout
	}
	if feed.MaxBodyBytes == 0 {
		feed.MaxBodyBytes = defaultMaxBodyBytes
	}
}

func setScraperDefaults(s *ScraperConfig) {
	if s.TitleSelector == "" {
		s.TitleSelector = defaultTitleSelector
	}
	if s.ImageSelector == "" {
		s.ImageSelector = defaultImageSelector
	}
	if s.ImageAttr == "" {
		s.ImageAttr = defaultImageAttr
	}
	if s.BodySelector == "" {
		s.BodySelector = defaultBodySelector
	}
	if s.UserAgent == "" {
		s.UserAgent = defaultUserAgent
	}
	if s.Timeout == 0 {
		s.Timeout = defaultScrapeTimeout
	}
	if s.MaxBodyBytes == 0 {
		s.MaxBodyBytes = defaultMaxBodyBytes
	}
}

func setLLMDefaults(l *LLMConfig) {
	if l.Provider == "" {
		l.Provider = ProviderGroq
	}
	if l.Model == "" {
		l.Model = defaultGroqModel
		if l.Provider == ProviderAnthropic {
			l.Model = defaultAnthropicModel
		}
	}
	if l.BaseURL == "" && l.Provider == ProviderGroq {
		l.BaseURL = defaultGroqBaseURL
	}
	if l.Temperature == nil {
		l.Temperature = ptr(defaultTemperature)
	}
	if l.TopP == nil {
		l.TopP = ptr(defaultTopP)
	}
	if l.MaxTokens == 0 {
		l.MaxTokens = defaultMaxTokens
	}
	if l.SystemPersona == "" {
		l.SystemPersona = defaultSystemPersona
	}
}

func ptr[T any](v T) *T { return &v }

func setMetricsDefaults(m *MetricsConfig) {
	if m.Namespace == "" {
		m.Namespace = defaultMetricsNamespace
	}
}

func setLoggingDefaults(log *LoggingConfig) {
	if log.Level == "" {
		log.Level = defaultLoggingLevel
	}
	if log.Format == "" {
		log.Format = defaultLoggingFormat
	}
}
