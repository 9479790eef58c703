package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "userapi",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "userapi",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})

	// Store metrics

	StoreConflictsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "userapi",
		Name:      "store_conflicts_total",
		Help:      "Unique-constraint rejections, by collection.",
	}, []string{"collection"})

	// Snapshot metrics (memory backend flush job)

	SnapshotsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "userapi",
		Name:      "snapshots_total",
		Help:      "Periodic store snapshots, by outcome.",
	}, []string{"outcome"})

	SnapshotDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "userapi",
		Name:      "snapshot_duration_seconds",
		Help:      "Time taken to write one store snapshot.",
		Buckets:   prometheus.DefBuckets,
	})
)

func Register() {
	prometheus.MustRegister(
		HTTPRequestDuration,
		HTTPRequestsTotal,
		StoreConflictsTotal,
		SnapshotsTotal,
		SnapshotDuration,
	)
}
