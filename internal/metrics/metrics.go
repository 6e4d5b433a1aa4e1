// Package metrics provides Prometheus metrics for neoscope.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// QueriesTotal counts approach queries by entry point and outcome
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "neoscope",
			Subsystem: "query",
			Name:      "queries_total",
			Help:      "Total number of close-approach queries by source and status",
		},
		[]string{"source", "status"},
	)

	// MatchesTotal counts approaches returned by queries
	MatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "neoscope",
			Subsystem: "query",
			Name:      "matches_total",
			Help:      "Total number of close approaches returned by queries",
		},
		[]string{"source"},
	)

	// QueryDuration tracks the time spent scanning and serializing results
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "neoscope",
			Subsystem: "query",
			Name:      "duration_seconds",
			Help:      "Duration of close-approach queries in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"source"},
	)

	// LookupsTotal counts NEO lookups by key and result
	LookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "neoscope",
			Subsystem: "lookup",
			Name:      "lookups_total",
			Help:      "Total number of NEO lookups by key kind and result",
		},
		[]string{"by", "result"},
	)

	// HTTPRequestsTotal tracks inbound HTTP requests
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "neoscope",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled",
		},
		[]string{"method", "route", "status_code"},
	)

	// StoreObjects reports the size of the loaded database
	StoreObjects = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "neoscope",
			Subsystem: "store",
			Name:      "objects",
			Help:      "Number of objects held by the linked database",
		},
		[]string{"kind"},
	)

	// ExportedTotal counts nodes written to the graph database
	ExportedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "neoscope",
			Subsystem: "export",
			Name:      "nodes_total",
			Help:      "Total number of nodes written to the graph database",
		},
		[]string{"label"},
	)
)

// RecordStore publishes the sizes of a freshly linked database.
func RecordStore(neos, approaches, orphans int) {
	StoreObjects.WithLabelValues("neo").Set(float64(neos))
	StoreObjects.WithLabelValues("approach").Set(float64(approaches))
	StoreObjects.WithLabelValues("orphan").Set(float64(orphans))
}
