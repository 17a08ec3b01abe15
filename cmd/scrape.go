package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JakeFAU/wiki-scraper/internal/batch"
	"github.com/JakeFAU/wiki-scraper/internal/wiki"
)

type scrapeOptions struct {
	search   string
	language string
	pdf      bool
}

// newScrapeCmd creates the one-shot batch export command.
func newScrapeCmd() *cobra.Command {
	opts := &scrapeOptions{}
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Search one article or discover the homepage and write JSON",
		Long: `Without --search, scrapes the homepage, its article links, a sample of
linked articles and any JSON-LD, writing one JSON file per section. With
--search, resolves the query to the best matching article and saves it as
JSON, plus PDF when --pdf is set.`,
		Example: `  wikiscraper scrape
  wikiscraper scrape -l id
  wikiscraper scrape -s "Python programming"
  wikiscraper scrape -s "Artificial Intelligence" --pdf`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScrape(cmd, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.search, "search", "s", "", "search for a specific article")
	cmd.Flags().StringVarP(&opts.language, "language", "l", "", "Wikipedia language (en or id; default from config)")
	cmd.Flags().BoolVar(&opts.pdf, "pdf", false, "also export the article to PDF (requires --search)")
	return cmd
}

func runScrape(cmd *cobra.Command, opts *scrapeOptions) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}

	lang := appInstance.Config().Wiki.Language()
	if opts.language != "" {
		if lang, err = wiki.ParseLanguage(opts.language); err != nil {
			return fmt.Errorf("--language: %w", err)
		}
	}

	runner, err := appInstance.NewBatch(lang, cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("init batch: %w", err)
	}
	return runner.Run(cmd.Context(), batch.Options{Query: opts.search, PDF: opts.pdf})
}
