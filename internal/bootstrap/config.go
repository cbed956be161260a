// Package bootstrap builds the relay's components from configuration.
package bootstrap

import (
	"fmt"

	"github.com/threelok/news-relay/internal/config"
	"github.com/threelok/news-relay/internal/logger"
)

const defaultConfigPath = "config.yml"

// LoadConfig loads configuration from path (or CONFIG_PATH, or ./config.yml
// when path is empty). debug forces debug mode on.
func LoadConfig(path string, debug bool) (*config.Config, error) {
	if path == "" {
		path = config.GetConfigPath(defaultConfigPath)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if debug {
		cfg.Service.Debug = true
		cfg.Logging.Level = "debug"
	}

	return cfg, nil
}

// CreateLogger creates the service logger from configuration. Empty
// outputPaths means stdout.
func CreateLogger(cfg *config.Config, outputPaths ...string) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
		OutputPaths: outputPaths,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log.With(logger.String("service", cfg.Service.Name)), nil
}
