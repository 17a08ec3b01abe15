// Package resolver maps free-text queries to canonical article addresses using
// the site's opensearch endpoint.
package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/JakeFAU/wiki-scraper/internal/wiki"
)

// Resolver resolves queries against a single language edition.
type Resolver struct {
	fetcher wiki.Fetcher
	site    wiki.Site
	logger  *zap.Logger
}

// New builds a Resolver bound to site.
func New(fetcher wiki.Fetcher, site wiki.Site, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{fetcher: fetcher, site: site, logger: logger}
}

// Resolve returns the address of the best match for query. A missing candidate
// or an unexpected response shape yields *wiki.NotFoundError; transport
// failures are returned as they come from the fetcher.
func (r *Resolver) Resolve(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", &wiki.NotFoundError{Query: query}
	}

	r.logger.Info("searching", zap.String("query", query), zap.String("language", string(r.site.Language)))
	page, err := r.fetcher.Fetch(ctx, r.site.SearchURL(query))
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", query, err)
	}

	address, err := topMatch(page.Body)
	if err != nil {
		r.logger.Warn("no article found", zap.String("query", query), zap.Error(err))
		return "", &wiki.NotFoundError{Query: query}
	}
	r.logger.Info("resolved article", zap.String("query", query), zap.String("url", address))
	return address, nil
}

// topMatch reads the first address from an opensearch response of the form
// [query, [titles], [descriptions], [urls]].
func topMatch(body []byte) (string, error) {
	var resp []json.RawMessage
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode opensearch response: %w", err)
	}
	if len(resp) < 4 {
		return "", fmt.Errorf("opensearch response has %d elements", len(resp))
	}
	var urls []string
	if err := json.Unmarshal(resp[3], &urls); err != nil {
		return "", fmt.Errorf("decode opensearch urls: %w", err)
	}
	if len(urls) == 0 {
		return "", errors.New("no candidates")
	}
	u, err := url.Parse(urls[0])
	if err != nil || !u.IsAbs() || u.Host == "" {
		return "", fmt.Errorf("candidate %q is not an absolute address", urls[0])
	}
	return urls[0], nil
}
