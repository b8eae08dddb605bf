package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequestsTotal counts API requests by method, route and status.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insights_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// APIRequestDuration observes request handling time.
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "insights_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// DatasetRows is the row count of the most recently loaded export.
	DatasetRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "insights_dataset_rows",
			Help: "Number of ticket records in the loaded dataset",
		},
	)

	// DatasetLoadTimestamp is when the dataset was last (re)loaded.
	DatasetLoadTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "insights_dataset_load_timestamp_seconds",
			Help: "Unix timestamp of the last dataset load",
		},
	)
)
