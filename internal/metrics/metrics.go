// Package metrics exposes Prometheus collectors for the scraper and bot.
package metrics

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	commandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wikiscraper_commands_total",
			Help: "Total number of bot commands handled, labeled by command and outcome.",
		},
		[]string{"command", "outcome"},
	)

	fetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wikiscraper_fetches_total",
			Help: "Total number of pages fetched, labeled by site and status.",
		},
		[]string{"site", "status"},
	)

	fetchBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wikiscraper_fetch_bytes_total",
			Help: "Total number of bytes fetched, labeled by site.",
		},
		[]string{"site"},
	)

	rateLimitRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wikiscraper_rate_limit_rejections_total",
			Help: "Total number of commands rejected by the per-user cooldown, labeled by class.",
		},
		[]string{"class"},
	)

	exportDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wikiscraper_export_duration_seconds",
			Help:    "Histogram of PDF export durations.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
	)

	politenessDelaySeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wikiscraper_politeness_delay_seconds",
			Help:    "Histogram of waits imposed by the per-host limiter.",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"domain"},
	)

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests, labeled by method and code.",
		},
		[]string{"method", "code"},
	)

	httpRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies, labeled by method and route.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"method", "route"},
	)
)

// SanitizeSite sanitizes a URL to extract a lowercase hostname.
// It returns "unknown" if the URL is invalid.
func SanitizeSite(rawURL string) string {
	if !strings.HasPrefix(rawURL, "http") {
		rawURL = "http://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	return strings.ToLower(u.Hostname())
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveFetch increments the fetch counters for the host of rawURL.
func ObserveFetch(rawURL string, status string, bytesFetched int) {
	site := SanitizeSite(rawURL)
	fetchesTotal.WithLabelValues(site, status).Inc()
	if bytesFetched > 0 {
		fetchBytesTotal.WithLabelValues(site).Add(float64(bytesFetched))
	}
}

// ObserveCommand counts a handled bot command.
func ObserveCommand(command, outcome string) {
	commandsTotal.WithLabelValues(command, outcome).Inc()
}

// ObserveRateLimitRejection counts a cooldown rejection.
func ObserveRateLimitRejection(class string) {
	rateLimitRejectionsTotal.WithLabelValues(class).Inc()
}

// ObserveExport records how long a PDF export took.
func ObserveExport(duration time.Duration) {
	exportDurationSeconds.Observe(duration.Seconds())
}

// ObservePolitenessDelay records the duration of a per-host wait.
func ObservePolitenessDelay(domain string, duration time.Duration) {
	politenessDelaySeconds.WithLabelValues(domain).Observe(duration.Seconds())
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}
