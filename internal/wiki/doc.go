// Package wiki defines the records, sites, sessions and error taxonomy shared by
// the fetcher, extractor, resolver, exporter, router and batch tool.
package wiki
