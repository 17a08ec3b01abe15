// Command wikiscraper scrapes encyclopedia articles into structured records.
//
// Architecture overview:
//   - Fetch: internal/fetcher/colly retrieves pages with browser-like headers and maps every transport failure or
//     non-2xx status to wiki.NetworkError.
//   - Extract: internal/extractor parses HTML with goquery into homepage and article records. Missing markup yields
//     empty fields, never errors. Malformed JSON-LD blocks are logged and skipped.
//   - Resolve: internal/resolver asks the opensearch endpoint for the single best match of a free-text query.
//   - Export: internal/exporter renders an article into styled blocks and writes them as a PDF with fpdf.
//   - Chat: internal/telegram long-polls updates and hands each one to internal/router on its own goroutine. The
//     router owns per-user cooldowns (internal/policy/ratelimit) and session state (internal/storage/memory).
//   - Batch: internal/batch runs a single search or homepage discovery and writes JSON into the output directory.
//
// Quick checklist:
//   - Configure env vars: TELEGRAM_BOT_TOKEN (or WIKISCRAPER_TELEGRAM_TOKEN), WIKISCRAPER_HTTP_TIMEOUT_SECONDS,
//     WIKISCRAPER_RATELIMIT_SEARCH and friends, WIKISCRAPER_SERVER_PORT to expose /metrics. A .env file in the
//     working directory is read first.
//   - Batch: wikiscraper scrape -s "Python programming" --pdf, or wikiscraper scrape -l id for discovery.
//   - Chat: wikiscraper bot; SIGINT or SIGTERM drains in-flight commands before exit.
package main
