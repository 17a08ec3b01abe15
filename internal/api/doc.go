// Package api hosts the operational HTTP surface of the chat bot. Routes:
//   - GET /healthz and /readyz for liveness and readiness probes.
//   - GET /metrics for Prometheus scraping.
package api
