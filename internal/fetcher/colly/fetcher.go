// Package collyfetcher implements wiki.Fetcher using gocolly.
package collyfetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/JakeFAU/wiki-scraper/internal/metrics"
	"github.com/JakeFAU/wiki-scraper/internal/wiki"
)

// DefaultUserAgent mimics a desktop browser; the origin rejects unidentified clients.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

const (
	defaultAccept         = "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"
	defaultAcceptLanguage = "en-US,en;q=0.9"
	defaultTimeout        = 10 * time.Second
)

// Config controls collector behavior.
type Config struct {
	UserAgent      string
	AcceptLanguage string
	Timeout        time.Duration
}

// Fetcher implements wiki.Fetcher using the Colly collector.
type Fetcher struct {
	cfg           Config
	baseCollector *colly.Collector
	logger        *zap.Logger
}

type collectorHooks interface {
	OnRequest(colly.RequestCallback)
	OnResponse(colly.ResponseCallback)
	OnError(colly.ErrorCallback)
}

// New builds a Fetcher.
func New(cfg Config, logger *zap.Logger) *Fetcher {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.AcceptLanguage == "" {
		cfg.AcceptLanguage = defaultAcceptLanguage
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := colly.NewCollector(colly.Async(false))
	c.UserAgent = cfg.UserAgent
	c.IgnoreRobotsTxt = true
	c.AllowURLRevisit = true
	// Deliver every status to OnResponse; colly otherwise fails anything >= 203.
	c.ParseHTTPErrorResponse = true
	c.WithTransport(newHTTPTransport())
	c.SetRequestTimeout(cfg.Timeout)

	return &Fetcher{
		cfg:           cfg,
		baseCollector: c,
		logger:        logger,
	}
}

// Fetch executes a single HTTP GET. Transport failures and non-2xx statuses are
// returned as *wiki.NetworkError.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (wiki.Page, error) {
	var (
		result   wiki.Page
		fetchErr error
		status   int
	)
	start := time.Now()
	collector := f.baseCollector.Clone()
	f.configureCollectorHooks(collector, rawURL, &result, &fetchErr, &status)

	f.logger.Debug("fetching", zap.String("url", rawURL))
	if err := f.runCollector(ctx, collector, rawURL, &fetchErr); err != nil {
		code := 0
		if ctx.Err() == nil {
			// the visit goroutine has finished, so status is safe to read
			code = status
		}
		metrics.ObserveFetch(rawURL, "error", 0)
		f.logger.Warn("fetch failed",
			zap.String("url", rawURL),
			zap.Int("status_code", code),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return wiki.Page{}, &wiki.NetworkError{URL: rawURL, StatusCode: code, Err: err}
	}
	metrics.ObserveFetch(rawURL, "ok", len(result.Body))
	f.logger.Debug("fetched",
		zap.String("url", rawURL),
		zap.String("final_url", result.FinalURL),
		zap.Int("bytes", len(result.Body)),
		zap.Duration("duration", time.Since(start)),
	)
	return result, nil
}

func (f *Fetcher) configureCollectorHooks(
	hooks collectorHooks,
	rawURL string,
	result *wiki.Page,
	fetchErr *error,
	status *int,
) {
	hooks.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", defaultAccept)
		r.Headers.Set("Accept-Language", f.cfg.AcceptLanguage)
	})

	hooks.OnResponse(func(r *colly.Response) {
		*status = r.StatusCode
		if r.StatusCode < http.StatusOK || r.StatusCode >= http.StatusMultipleChoices {
			*fetchErr = fmt.Errorf("unexpected status %d %s", r.StatusCode, http.StatusText(r.StatusCode))
			return
		}
		*result = wiki.Page{
			URL:        rawURL,
			FinalURL:   r.Request.URL.String(),
			StatusCode: r.StatusCode,
			Body:       append([]byte(nil), r.Body...),
		}
	})

	hooks.OnError(func(r *colly.Response, err error) {
		if r != nil {
			*status = r.StatusCode
		}
		if err == nil {
			err = errors.New("unknown colly error")
		}
		*fetchErr = err
	})
}

func (f *Fetcher) runCollector(ctx context.Context, collector *colly.Collector, url string, fetchErr *error) error {
	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("colly fetch canceled: %w", ctx.Err())
	case err := <-done:
		if *fetchErr != nil {
			return fmt.Errorf("colly response failed: %w", *fetchErr)
		}
		if err != nil {
			return fmt.Errorf("colly visit failed: %w", err)
		}
		return nil
	}
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
