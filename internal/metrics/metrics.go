package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bikeshare_http_requests_total",
		Help: "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bikeshare_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	EmptyFilterResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bikeshare_filter_empty_total",
		Help: "Filter evaluations that matched no rows, by whether they fell back to unfiltered data.",
	}, []string{"fallback"})

	ViewCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bikeshare_view_cache_total",
		Help: "Dashboard view cache lookups by result.",
	}, []string{"result"})

	DatasetLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bikeshare_dataset_loads_total",
		Help: "Dataset loads by trigger and outcome.",
	}, []string{"trigger", "result"})

	DatasetRows = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bikeshare_dataset_rows",
		Help: "Rows in the dataset currently served.",
	})
)
