package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/threelok/news-relay/internal/bootstrap"
	"github.com/threelok/news-relay/internal/logger"
)

func newFeedCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "feed [categoryId]",
		Short: "Print the upstream category feed",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// stdout carries the result.
			cfg, log, err := opts.setup("stderr")
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			if err = cfg.ValidateCore(); err != nil {
				return fmt.Errorf("validate config: %w", err)
			}

			var categoryID string
			if len(args) == 1 {
				categoryID = args[0]
			}

			ctx := logger.WithContext(cmd.Context(), log)
			body, err := bootstrap.NewFeedClient(cfg.Feed).FetchCategory(ctx, categoryID)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(body))
			return err
		},
	}
}
