// Package scraper bundles a fetcher, extractor and resolver for one language
// edition.
package scraper

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/JakeFAU/wiki-scraper/internal/extractor"
	"github.com/JakeFAU/wiki-scraper/internal/resolver"
	"github.com/JakeFAU/wiki-scraper/internal/wiki"
)

// Client scrapes a single site.
type Client struct {
	site      wiki.Site
	fetcher   wiki.Fetcher
	extractor *extractor.Extractor
	resolver  *resolver.Resolver
	logger    *zap.Logger
}

// Landing holds everything harvested from a single fetch of the site homepage.
type Landing struct {
	Homepage       wiki.HomepageRecord
	ArticleLinks   []string
	StructuredData []wiki.StructuredDataEntry
}

// New builds a Client for site.
func New(site wiki.Site, fetcher wiki.Fetcher, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("language", string(site.Language)))
	return &Client{
		site:      site,
		fetcher:   fetcher,
		extractor: extractor.New(logger.Named("extractor")),
		resolver:  resolver.New(fetcher, site, logger.Named("resolver")),
		logger:    logger,
	}
}

// NewSet builds one Client per supported language from a base URL template.
func NewSet(baseURLTemplate string, fetcher wiki.Fetcher, logger *zap.Logger) map[wiki.Language]*Client {
	set := make(map[wiki.Language]*Client, len(wiki.Languages()))
	for _, lang := range wiki.Languages() {
		set[lang] = New(wiki.NewSite(lang, baseURLTemplate), fetcher, logger)
	}
	return set
}

// Site returns the edition this client is bound to.
func (c *Client) Site() wiki.Site {
	return c.site
}

// Resolve maps a free-text query to an article address.
func (c *Client) Resolve(ctx context.Context, query string) (string, error) {
	return c.resolver.Resolve(ctx, query)
}

// Article fetches and extracts the article at address.
func (c *Client) Article(ctx context.Context, address string) (wiki.ArticleRecord, error) {
	page, err := c.fetcher.Fetch(ctx, address)
	if err != nil {
		return wiki.ArticleRecord{}, fmt.Errorf("fetch article: %w", err)
	}
	doc, err := extractor.Parse(page.Body)
	if err != nil {
		return wiki.ArticleRecord{}, err
	}
	rec := c.extractor.Article(doc, address)
	c.logger.Info("scraped article", zap.String("url", address), zap.String("title", rec.Title))
	return rec, nil
}

// Random fetches the random-article redirect and extracts wherever it lands.
func (c *Client) Random(ctx context.Context) (wiki.ArticleRecord, error) {
	page, err := c.fetcher.Fetch(ctx, c.site.RandomURL())
	if err != nil {
		return wiki.ArticleRecord{}, fmt.Errorf("fetch random article: %w", err)
	}
	address := page.FinalURL
	if address == "" {
		address = page.URL
	}
	doc, err := extractor.Parse(page.Body)
	if err != nil {
		return wiki.ArticleRecord{}, err
	}
	return c.extractor.Article(doc, address), nil
}

// Landing fetches the homepage once and extracts its summary, up to maxLinks
// article links and any structured data.
func (c *Client) Landing(ctx context.Context, maxLinks int) (Landing, error) {
	page, err := c.fetcher.Fetch(ctx, c.site.BaseURL)
	if err != nil {
		return Landing{}, fmt.Errorf("fetch homepage: %w", err)
	}
	doc, err := extractor.Parse(page.Body)
	if err != nil {
		return Landing{}, err
	}
	landing := Landing{
		Homepage:       c.extractor.Homepage(doc),
		ArticleLinks:   extractor.ArticleLinks(doc, c.site, maxLinks),
		StructuredData: c.extractor.StructuredData(doc),
	}
	c.logger.Info("scraped homepage",
		zap.Int("links", len(landing.Homepage.Links)),
		zap.Int("images", len(landing.Homepage.Images)),
		zap.Int("article_links", len(landing.ArticleLinks)),
		zap.Int("structured_data", len(landing.StructuredData)),
	)
	return landing, nil
}
