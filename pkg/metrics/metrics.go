// Package metrics defines the Prometheus collectors used by the search engine
// and its request history, and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result types for SearchQueriesTotal.
const (
	ResultHit        = "hit"
	ResultZeroResult = "zero_result"
	ResultError      = "error"
)

// Metrics holds all Prometheus collectors for the search server.
type Metrics struct {
	DocsIndexedTotal       prometheus.Counter
	DocsRejectedTotal      *prometheus.CounterVec
	DocumentCount          prometheus.Gauge
	SearchQueriesTotal     *prometheus.CounterVec
	SearchLatency          prometheus.Histogram
	SearchResultsCount     prometheus.Histogram
	SearchCandidates       prometheus.Histogram
	SearchExcludedTotal    prometheus.Counter
	HistoryNoResultQueries prometheus.Gauge
	HistoryEvictionsTotal  prometheus.Counter
	AnalyticsDroppedTotal  prometheus.Counter
	AnalyticsCircuitOpen   prometheus.Gauge
}

// New creates all collectors and registers them with reg. A nil reg uses the
// default Prometheus registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		DocsIndexedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "docs_indexed_total",
				Help: "Total documents indexed.",
			},
		),
		DocsRejectedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docs_rejected_total",
				Help: "Documents rejected at ingestion by error code.",
			},
			[]string{"code"},
		),
		DocumentCount: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "document_count",
				Help: "Number of documents currently held by the index.",
			},
		),
		SearchQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "search_queries_total",
				Help: "Total search queries by result type (hit, zero_result, error).",
			},
			[]string{"result_type"},
		),
		SearchLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "search_latency_seconds",
				Help:    "Search query latency in seconds.",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
			},
		),
		SearchResultsCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "search_results_count",
				Help:    "Number of results returned per search query.",
				Buckets: []float64{0, 1, 2, 3, 4, 5},
			},
		),
		SearchCandidates: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "search_candidates_count",
				Help:    "Documents scored per search query before minus-term exclusion.",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
		),
		SearchExcludedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "search_excluded_documents_total",
				Help: "Documents removed from search candidates by minus terms.",
			},
		),
		HistoryNoResultQueries: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "history_no_result_requests",
				Help: "No-result requests inside the request-history window.",
			},
		),
		HistoryEvictionsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "history_evictions_total",
				Help: "Requests evicted from the request-history window.",
			},
		),
		AnalyticsDroppedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "analytics_events_dropped_total",
				Help: "Analytics events dropped because the collector buffer was full or publishing failed.",
			},
		),
		AnalyticsCircuitOpen: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "analytics_circuit_open",
				Help: "1 while the analytics publisher circuit breaker is not closed.",
			},
		),
	}

	reg.MustRegister(
		m.DocsIndexedTotal,
		m.DocsRejectedTotal,
		m.DocumentCount,
		m.SearchQueriesTotal,
		m.SearchLatency,
		m.SearchResultsCount,
		m.SearchCandidates,
		m.SearchExcludedTotal,
		m.HistoryNoResultQueries,
		m.HistoryEvictionsTotal,
		m.AnalyticsDroppedTotal,
		m.AnalyticsCircuitOpen,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler for g. A nil g serves
// the default gatherer.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
