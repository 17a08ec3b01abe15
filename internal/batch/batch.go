// Package batch implements the one-shot command line export: a single article
// search, or discovery of the homepage and a sample of linked articles.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/JakeFAU/wiki-scraper/internal/scraper"
	"github.com/JakeFAU/wiki-scraper/internal/wiki"
)

// Scraper is the single-language bundle the runner drives.
type Scraper interface {
	Site() wiki.Site
	Resolve(ctx context.Context, query string) (string, error)
	Article(ctx context.Context, address string) (wiki.ArticleRecord, error)
	Landing(ctx context.Context, maxLinks int) (scraper.Landing, error)
}

// Exporter writes an article record to a file.
type Exporter interface {
	Export(ctx context.Context, rec wiki.ArticleRecord, path string) error
}

// Store persists named artifacts.
type Store interface {
	Path(name string) (string, error)
	PutJSON(ctx context.Context, name string, v any) (string, error)
}

// Throttle spaces out requests to the same host.
type Throttle interface {
	Wait(ctx context.Context, rawURL string) error
}

// Config wires a Runner.
type Config struct {
	Scraper  Scraper
	Exporter Exporter
	Store    Store
	Throttle Throttle
	// Out receives the human readable report.
	Out io.Writer
	// MaxLinks caps the article links harvested in discovery mode.
	MaxLinks int
	// SampleArticles is how many harvested links are scraped in full.
	SampleArticles int
	Logger         *zap.Logger
}

// Options selects the mode of a run.
type Options struct {
	Query string
	PDF   bool
}

// Runner executes batch exports.
type Runner struct {
	cfg    Config
	logger *zap.Logger
}

const (
	reportRule        = "============================================================"
	reportCategories  = 5
	reportFacts       = 5
	reportValueChars  = 80
	defaultMaxLinks   = 10
	defaultSampleSize = 3
)

// New validates cfg and builds a Runner.
func New(cfg Config) (*Runner, error) {
	switch {
	case cfg.Scraper == nil:
		return nil, errors.New("batch: scraper is required")
	case cfg.Store == nil:
		return nil, errors.New("batch: store is required")
	case cfg.Exporter == nil:
		return nil, errors.New("batch: exporter is required")
	}
	if cfg.Out == nil {
		cfg.Out = io.Discard
	}
	if cfg.MaxLinks <= 0 {
		cfg.MaxLinks = defaultMaxLinks
	}
	if cfg.SampleArticles <= 0 {
		cfg.SampleArticles = defaultSampleSize
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Runner{cfg: cfg, logger: cfg.Logger}, nil
}

// Run dispatches on opts: a query selects search mode, PDF alone only prints a
// warning, and no options selects discovery mode.
func (r *Runner) Run(ctx context.Context, opts Options) error {
	query := strings.TrimSpace(opts.Query)
	switch {
	case query != "":
		return r.Search(ctx, query, opts.PDF)
	case opts.PDF:
		r.logger.Warn("--pdf requires --search")
		r.printf("\nWarning: --pdf flag only works with --search argument.\n")
		r.printf("Example: wikiscraper scrape -s \"Python programming\" --pdf\n")
		return nil
	default:
		return r.Discover(ctx)
	}
}

// Search resolves query, reports the article and saves it as JSON and,
// when pdf is set, as a PDF document. A query without a match is reported
// and is not an error.
func (r *Runner) Search(ctx context.Context, query string, pdf bool) error {
	r.logger.Info("search mode", zap.String("query", query))
	address, err := r.cfg.Scraper.Resolve(ctx, query)
	if errors.Is(err, wiki.ErrNotFound) {
		r.logger.Error("article not found", zap.String("query", query))
		r.printf("\nNo article found for '%s'. Please try a different search term.\n", query)
		return nil
	}
	if err != nil {
		return fmt.Errorf("search %q: %w", query, err)
	}
	rec, err := r.cfg.Scraper.Article(ctx, address)
	if err != nil {
		return fmt.Errorf("scrape %s: %w", address, err)
	}
	r.report(rec)

	base := "wikipedia_search_" + SanitizeFilename(query)
	path, err := r.cfg.Store.PutJSON(ctx, base+".json", rec)
	if err != nil {
		return fmt.Errorf("save article: %w", err)
	}
	r.printf("\nJSON data saved to: %s\n", path)

	if !pdf {
		return nil
	}
	pdfPath, err := r.cfg.Store.Path(base + ".pdf")
	if err != nil {
		return fmt.Errorf("pdf path: %w", err)
	}
	r.printf("\nExporting to PDF...\n")
	if err := r.cfg.Exporter.Export(ctx, rec, pdfPath); err != nil {
		r.printf("Failed to export PDF. Check logs for details.\n")
		return err
	}
	r.printf("PDF exported to: %s\n", pdfPath)
	return nil
}

func (r *Runner) report(rec wiki.ArticleRecord) {
	r.printf("\n%s\nARTICLE FOUND: %s\n%s\n", reportRule, rec.Title, reportRule)
	r.printf("\nURL: %s\n", rec.URL)
	r.printf("\nSummary:\n%s\n\n", rec.Summary)

	categories := rec.Categories
	if len(categories) > reportCategories {
		categories = categories[:reportCategories]
	}
	r.printf("Categories: %s\n", strings.Join(categories, ", "))
	r.printf("References: %d\n", rec.References)

	if rec.Infobox.Len() == 0 {
		return
	}
	r.printf("\nInfobox:\n")
	for i, fact := range rec.Infobox.Facts() {
		if i == reportFacts {
			break
		}
		value := fact.Value
		if utf8.RuneCountInString(value) > reportValueChars {
			value = string([]rune(value)[:reportValueChars]) + "..."
		}
		r.printf("  • %s: %s\n", fact.Label, value)
	}
}

type articleList struct {
	ArticleLinks []string `json:"article_links"`
	Total        int      `json:"total"`
}

type articleDetails struct {
	Articles []wiki.ArticleRecord `json:"articles"`
	Total    int                  `json:"total"`
}

type structuredData struct {
	JSONLD []wiki.StructuredDataEntry `json:"json_ld"`
}

// Discover saves the homepage, its article links, a sample of fully scraped
// articles and any structured data blocks.
func (r *Runner) Discover(ctx context.Context) error {
	site := r.cfg.Scraper.Site()
	lang := string(site.Language)
	r.logger.Info("discovery mode", zap.String("site", site.BaseURL))

	if err := r.wait(ctx, site.BaseURL); err != nil {
		return err
	}
	landing, err := r.cfg.Scraper.Landing(ctx, r.cfg.MaxLinks)
	if err != nil {
		return fmt.Errorf("scrape homepage: %w", err)
	}
	if err := r.save(ctx, "wikipedia_homepage_"+lang+".json", landing.Homepage); err != nil {
		return err
	}

	if len(landing.ArticleLinks) > 0 {
		if err := r.save(ctx, "wikipedia_articles_"+lang+".json", articleList{
			ArticleLinks: landing.ArticleLinks,
			Total:        len(landing.ArticleLinks),
		}); err != nil {
			return err
		}

		articles, err := r.sample(ctx, landing.ArticleLinks)
		if err != nil {
			return err
		}
		if len(articles) > 0 {
			if err := r.save(ctx, "wikipedia_articles_detail_"+lang+".json", articleDetails{
				Articles: articles,
				Total:    len(articles),
			}); err != nil {
				return err
			}
		}
	}

	if len(landing.StructuredData) > 0 {
		if err := r.save(ctx, "wikipedia_jsonld_"+lang+".json", structuredData{JSONLD: landing.StructuredData}); err != nil {
			return err
		}
	}
	r.logger.Info("scraping completed")
	return nil
}

// sample scrapes the first SampleArticles links. Articles that fail are
// logged and skipped.
func (r *Runner) sample(ctx context.Context, links []string) ([]wiki.ArticleRecord, error) {
	if len(links) > r.cfg.SampleArticles {
		links = links[:r.cfg.SampleArticles]
	}
	articles := make([]wiki.ArticleRecord, 0, len(links))
	for _, link := range links {
		if err := r.wait(ctx, link); err != nil {
			return nil, err
		}
		rec, err := r.cfg.Scraper.Article(ctx, link)
		if err != nil {
			r.logger.Warn("skipping sample article", zap.String("url", link), zap.Error(err))
			continue
		}
		articles = append(articles, rec)
	}
	return articles, nil
}

func (r *Runner) wait(ctx context.Context, rawURL string) error {
	if r.cfg.Throttle == nil {
		return nil
	}
	if err := r.cfg.Throttle.Wait(ctx, rawURL); err != nil {
		return fmt.Errorf("throttle: %w", err)
	}
	return nil
}

func (r *Runner) save(ctx context.Context, name string, v any) error {
	path, err := r.cfg.Store.PutJSON(ctx, name, v)
	if err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	r.logger.Info("data saved", zap.String("path", path))
	return nil
}

func (r *Runner) printf(format string, args ...any) {
	fmt.Fprintf(r.cfg.Out, format, args...)
}

// SanitizeFilename replaces every rune that is not a letter or digit with an
// underscore.
func SanitizeFilename(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, s)
}
