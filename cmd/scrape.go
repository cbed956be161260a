package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/threelok/news-relay/internal/bootstrap"
	"github.com/threelok/news-relay/internal/logger"
)

type scrapeOutput struct {
	Title string `json:"title"`
	Image string `json:"image"`
	Body  string `json:"body"`
}

func newScrapeCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "scrape <url>",
		Short: "Scrape an article and print the extracted fields as JSON",
		Args:  cobra.ExactArgs(1),
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

			ctx := logger.WithContext(cmd.Context(), log)
			article, err := bootstrap.NewScraper(cfg.Scraper).Scrape(ctx, args[0])
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetEscapeHTML(false)
			enc.SetIndent("", "  ")
			return enc.Encode(scrapeOutput{
				Title: article.Title,
				Image: article.ImageURL,
				Body:  article.BodyText,
			})
		},
	}
}
