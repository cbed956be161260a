// Package cmd implements the news-relay command-line interface.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/threelok/news-relay/internal/bootstrap"
	"github.com/threelok/news-relay/internal/config"
	"github.com/threelok/news-relay/internal/logger"
)

// Version is set at build time with -ldflags "-X .../cmd.Version=...".
var Version = "dev"

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	configFile string
	debug      bool
}

// NewRootCommand builds the command tree. Running it without a subcommand
// starts the server.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "news-relay",
		Short: "Relay a news feed and stream AI rewrites of articles",
		Long: `news-relay proxies a news provider's category feed and, given an article URL,
scrapes it and streams a Telugu rewrite from a hosted LLM as server-sent events.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "",
		"config file (default is $CONFIG_PATH or ./config.yml)")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug mode")

	root.AddCommand(
		newServeCommand(opts),
		newScrapeCommand(opts),
		newFeedCommand(opts),
		newVersionCommand(),
	)

	return root
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// setup loads configuration and a logger for a command. outputPaths
// overrides the logger's destination.
func (o *globalOptions) setup(outputPaths ...string) (*config.Config, logger.Logger, error) {
	cfg, err := bootstrap.LoadConfig(o.configFile, o.debug)
	if err != nil {
		return nil, nil, err
	}

	log, err := bootstrap.CreateLogger(cfg, outputPaths...)
	if err != nil {
		return nil, nil, err
	}

	return cfg, log, nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "news-relay version %s\n", Version)
		},
	}
}
