// Package app initializes and holds long-lived application services, acting as
// a dependency injection container for the command line entry points.
package app

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/JakeFAU/wiki-scraper/internal/batch"
	"github.com/JakeFAU/wiki-scraper/internal/clock/system"
	"github.com/JakeFAU/wiki-scraper/internal/config"
	"github.com/JakeFAU/wiki-scraper/internal/exporter"
	collyfetcher "github.com/JakeFAU/wiki-scraper/internal/fetcher/colly"
	"github.com/JakeFAU/wiki-scraper/internal/id/uuid"
	"github.com/JakeFAU/wiki-scraper/internal/policy/ratelimit"
	"github.com/JakeFAU/wiki-scraper/internal/router"
	"github.com/JakeFAU/wiki-scraper/internal/scraper"
	"github.com/JakeFAU/wiki-scraper/internal/storage/local"
	"github.com/JakeFAU/wiki-scraper/internal/storage/memory"
	"github.com/JakeFAU/wiki-scraper/internal/wiki"
)

// App holds the shared services: the logger, one scraper per language and the
// exporter. It is built once at startup and handed to the commands.
type App struct {
	cfg      config.Config
	logger   *zap.Logger
	scrapers map[wiki.Language]*scraper.Client
	exporter *exporter.Exporter
}

// New wires the services described by cfg.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		return nil, errors.New("app: logger is required")
	}
	fetcher := collyfetcher.New(collyfetcher.Config{
		UserAgent:      cfg.HTTP.UserAgent,
		AcceptLanguage: cfg.HTTP.AcceptLanguage,
		Timeout:        cfg.HTTP.Timeout(),
	}, logger.Named("fetcher"))

	logger.Info("application services initialized",
		zap.String("base_url_template", cfg.Wiki.BaseURLTemplate),
		zap.Duration("fetch_timeout", cfg.HTTP.Timeout()),
	)
	return &App{
		cfg:      cfg,
		logger:   logger,
		scrapers: scraper.NewSet(cfg.Wiki.BaseURLTemplate, fetcher, logger.Named("scraper")),
		exporter: exporter.New(nil, logger.Named("exporter")),
	}, nil
}

// Logger returns the shared logger.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Config returns the loaded configuration.
func (a *App) Config() config.Config {
	return a.cfg
}

// Scraper returns the bundle for lang.
func (a *App) Scraper(lang wiki.Language) (*scraper.Client, error) {
	c, ok := a.scrapers[lang]
	if !ok {
		return nil, fmt.Errorf("no scraper for language %q", lang)
	}
	return c, nil
}

// NewBatch builds a batch runner for lang that reports to out.
func (a *App) NewBatch(lang wiki.Language, out io.Writer) (*batch.Runner, error) {
	client, err := a.Scraper(lang)
	if err != nil {
		return nil, err
	}
	store, err := local.New(local.Config{BaseDir: a.cfg.Batch.OutputDir})
	if err != nil {
		return nil, fmt.Errorf("open output directory: %w", err)
	}
	return batch.New(batch.Config{
		Scraper:        client,
		Exporter:       a.exporter,
		Store:          store,
		Throttle:       ratelimit.NewHostLimiter(ratelimit.HostConfig{Interval: a.cfg.Batch.Delay(), Burst: 1}),
		Out:            out,
		MaxLinks:       a.cfg.Batch.MaxLinks,
		SampleArticles: a.cfg.Batch.SampleArticles,
		Logger:         a.logger.Named("batch"),
	})
}

// NewRouter builds a command router that replies through sender.
func (a *App) NewRouter(sender router.Sender) (*router.Router, error) {
	scrapers := make(map[wiki.Language]router.Scraper, len(a.scrapers))
	for lang, c := range a.scrapers {
		scrapers[lang] = c
	}
	return router.New(router.Config{
		Scrapers: scrapers,
		Sessions: memory.NewSessionStore(),
		Cooldown: ratelimit.NewCooldown(a.cfg.RateLimit.Windows()),
		Exporter: a.exporter,
		Sender:   sender,
		Clock:    system.New(),
		IDs:      uuid.New(),
		TempDir:  a.cfg.Export.TempDir,
		Logger:   a.logger.Named("router"),
	})
}

// Close flushes buffered logs.
func (a *App) Close() {
	// Sync fails on non-file sinks such as a terminal; nothing useful to do then.
	_ = a.logger.Sync()
}
