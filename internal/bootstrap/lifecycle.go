package bootstrap

import (
	"context"
	"fmt"

	"github.com/threelok/news-relay/internal/config"
	"github.com/threelok/news-relay/internal/logger"
	"github.com/threelok/news-relay/internal/profiling"
)

// Serve runs the relay until ctx is cancelled or a shutdown signal arrives.
func Serve(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	if cfg.Profiling.Enabled {
		profiling.Start(ctx, cfg.Profiling.Port, log)
	}

	comps, err := NewHTTPComponents(cfg, log)
	if err != nil {
		return err
	}

	log.Info("News relay starting",
		logger.Int("port", cfg.Service.Port),
		logger.String("version", cfg.Service.Version),
	)

	if runErr := comps.Server.Run(ctx); runErr != nil {
		return fmt.Errorf("server: %w", runErr)
	}

	log.Info("News relay exited cleanly")
	return nil
}
