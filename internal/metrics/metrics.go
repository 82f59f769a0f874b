package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitalsd_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vitalsd_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint", "status"},
	)

	// Ingestion metrics
	ReadingsIngestedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitalsd_readings_ingested_total",
			Help: "Total number of vital-sign readings ingested",
		},
		[]string{"status"}, // status: recorded, failed
	)

	IngestFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitalsd_ingest_failures_total",
			Help: "Total number of ingestion failures by stage",
		},
		[]string{"stage"}, // stage: parse, build, keyed_write, archive_write, dispatch
	)

	// Store metrics
	StoreWriteDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vitalsd_store_write_duration_seconds",
			Help:    "Time taken to write a record to a backing store",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"store"}, // store: keyed, archive
	)

	StoreWriteFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitalsd_store_write_failures_total",
			Help: "Total number of failed store writes",
		},
		[]string{"store"},
	)

	// Alert metrics
	AlertsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitalsd_alerts_published_total",
			Help: "Total number of alert notifications published",
		},
		[]string{"status"}, // status: success, failed
	)

	AlertPublishRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vitalsd_alert_publish_retries_total",
			Help: "Total number of alert publish retries",
		},
	)

	AbnormalVitalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitalsd_abnormal_vitals_total",
			Help: "Total number of out-of-range measurements observed",
		},
		[]string{"measurement"},
	)

	// Panic recovery
	PanicsRecovered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitalsd_panics_recovered_total",
			Help: "Total number of panics recovered",
		},
		[]string{"component"},
	)
)
