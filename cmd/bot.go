package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/JakeFAU/wiki-scraper/internal/api"
	"github.com/JakeFAU/wiki-scraper/internal/telegram"
)

// newBotCmd creates the chat bot command.
func newBotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Serve Wikipedia search, PDF export and bookmarks over Telegram",
		Long: `Long-polls the Telegram Bot API and answers commands until interrupted.
The token comes from telegram.token, WIKISCRAPER_TELEGRAM_TOKEN or
TELEGRAM_BOT_TOKEN. When server.port is set, /healthz, /readyz and /metrics
are served on that port.`,
		RunE: runBot,
	}
}

func runBot(cmd *cobra.Command, _ []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	cfg := appInstance.Config()
	if err := cfg.ValidateBot(); err != nil {
		return err
	}
	logger := appInstance.Logger()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	botAPI, err := telegram.NewAPI(cfg.Telegram.Token, cfg.Telegram.Debug, logger)
	if err != nil {
		return err
	}
	logger.Info("authorized on telegram", zap.String("username", botAPI.Self.UserName))

	bot := telegram.New(botAPI, telegram.Config{
		PollTimeout: cfg.Telegram.PollTimeout(),
		MaxInFlight: cfg.Telegram.MaxInFlight,
	}, logger.Named("telegram"))
	r, err := appInstance.NewRouter(bot)
	if err != nil {
		return fmt.Errorf("init router: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// The ops server has nothing to report once polling ends.
		defer stop()
		return bot.Run(gctx, r)
	})
	if cfg.Server.Port > 0 {
		server := api.NewServer(map[string]api.ReadinessCheck{"telegram": bot.Ready}, logger.Named("api"))
		g.Go(func() error {
			return server.ListenAndServe(gctx, fmt.Sprintf(":%d", cfg.Server.Port))
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("run bot: %w", err)
	}
	logger.Info("bot stopped")
	return nil
}
