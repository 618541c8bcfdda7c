package commands

import (
	"fmt"
	"os"

	"github.com/anonto42/nano-midea/social/pkg/config"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "social",
	Short: "Social network API server",
	Long: `social serves the social network REST API: accounts, friendships, posts with
visibility scopes, groups, messaging, notifications, stories, pages and events.

Configuration comes from the environment (and a .env file when present).

Examples:
  social serve      # run the HTTP server (default)
  social migrate    # create or update the schema and exit`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads configuration and configures the global logger
func bootstrap() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	config.SetupLogger(cfg)
	return cfg, nil
}
