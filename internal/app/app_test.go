package app_test

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JakeFAU/wiki-scraper/internal/app"
	"github.com/JakeFAU/wiki-scraper/internal/batch"
	"github.com/JakeFAU/wiki-scraper/internal/config"
	"github.com/JakeFAU/wiki-scraper/internal/router"
	"github.com/JakeFAU/wiki-scraper/internal/wiki"
)

func testConfig(t *testing.T, baseURLTemplate string) config.Config {
	t.Helper()
	return config.Config{
		HTTP: config.HTTPConfig{TimeoutSeconds: 5},
		Wiki: config.WikiConfig{BaseURLTemplate: baseURLTemplate, DefaultLanguage: "en"},
		RateLimit: config.RateLimitConfig{
			Search: 3 * time.Second, PDF: 5 * time.Second, Compare: 5 * time.Second, Random: 2 * time.Second,
		},
		Batch: config.BatchConfig{OutputDir: t.TempDir(), MaxLinks: 10, SampleArticles: 3},
	}
}

func TestNewRequiresLogger(t *testing.T) {
	t.Parallel()

	_, err := app.New(testConfig(t, "https://%s.wikipedia.org"), nil)
	require.Error(t, err)
}

func TestScraperPerLanguage(t *testing.T) {
	t.Parallel()

	a, err := app.New(testConfig(t, "https://%s.wikipedia.org"), zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	for _, lang := range wiki.Languages() {
		c, err := a.Scraper(lang)
		require.NoError(t, err)
		require.Equal(t, fmt.Sprintf("https://%s.wikipedia.org", lang), c.Site().BaseURL)
	}
	_, err = a.Scraper(wiki.Language("fr"))
	require.Error(t, err)
}

type discardSender struct{}

func (discardSender) Send(context.Context, router.Reply) error                 { return nil }
func (discardSender) SendDocument(context.Context, router.DocumentReply) error { return nil }
func (discardSender) Answer(context.Context, string, string) error             { return nil }

func TestNewRouter(t *testing.T) {
	t.Parallel()

	a, err := app.New(testConfig(t, "https://%s.wikipedia.org"), zap.NewNop())
	require.NoError(t, err)

	r, err := a.NewRouter(discardSender{})
	require.NoError(t, err)
	require.NotNil(t, r)
}

func TestNewBatchSearchesLocalSite(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/en/w/api.php", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `["%s",["Go"],[""],["http://%s/en/wiki/Go"]]`, r.URL.Query().Get("search"), r.Host)
	})
	mux.HandleFunc("/en/wiki/Go", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body><h1 class="firstHeading">Go</h1>
<div class="mw-parser-output"><p>Go is a language.</p></div></body></html>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cfg := testConfig(t, srv.URL+"/%s")
	a, err := app.New(cfg, zap.NewNop())
	require.NoError(t, err)

	var out bytes.Buffer
	runner, err := a.NewBatch(wiki.LanguageEnglish, &out)
	require.NoError(t, err)
	require.NoError(t, runner.Run(context.Background(), batch.Options{Query: "go lang"}))

	require.Contains(t, out.String(), "ARTICLE FOUND: Go")
	raw, err := os.ReadFile(filepath.Join(cfg.Batch.OutputDir, "wikipedia_search_go_lang.json"))
	require.NoError(t, err)
	require.Contains(t, string(raw), `"summary": "Go is a language."`)
}
