// Package cmd defines and implements the CLI commands for the wikiscraper executable.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/wiki-scraper/internal/app"
	"github.com/JakeFAU/wiki-scraper/internal/batch"
	"github.com/JakeFAU/wiki-scraper/internal/config"
	"github.com/JakeFAU/wiki-scraper/internal/logging"
	"github.com/JakeFAU/wiki-scraper/internal/router"
	"github.com/JakeFAU/wiki-scraper/internal/wiki"
)

var cfgFile string

// appKeyType is the key for storing the App in the context.
type appKeyType string

const appKey appKeyType = "app"

// App defines the services the commands use. Tests inject a fake.
type App interface {
	Close()
	Logger() *zap.Logger
	Config() config.Config
	NewBatch(lang wiki.Language, out io.Writer) (*batch.Runner, error)
	NewRouter(sender router.Sender) (*router.Router, error)
}

// newApp is the application factory, replaceable in tests.
var newApp = func(cfg config.Config, logger *zap.Logger) (App, error) {
	return app.New(cfg, logger)
}

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wikiscraper",
		Short: "Scrape Wikipedia articles from the command line or a Telegram bot.",
		Long: `wikiscraper extracts structured records from Wikipedia pages.
Run "scrape" for a one-shot search or homepage discovery written to JSON
(and optionally PDF), or "bot" to serve the same features to Telegram users.`,
		SilenceUsage: true,

		// Builds the application after flags are parsed and before the
		// subcommand's RunE.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger, err := logging.New(cfg.Logging)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			zap.ReplaceGlobals(logger)

			appInstance, err := newApp(cfg, logger)
			if err != nil {
				return fmt.Errorf("failed to initialize application services: %w", err)
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, appInstance))
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if appInstance, ok := cmd.Context().Value(appKey).(App); ok && appInstance != nil {
				appInstance.Close()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML, JSON or TOML)")

	cmd.AddCommand(newScrapeCmd())
	cmd.AddCommand(newBotCmd())

	return cmd
}

func resolveApp(ctx context.Context) (App, error) {
	appInstance, ok := ctx.Value(appKey).(App)
	if !ok || appInstance == nil {
		return nil, errors.New("application services not initialized")
	}
	return appInstance, nil
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		zap.L().Error("command execution failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
