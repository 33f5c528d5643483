package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultOK    = "ok"
	ResultError = "error"
)

//nolint:gochecknoglobals // promauto collectors register once per process.
var (
	// ExtractionsTotal is labeled by source kind and by result, where result
	// is "ok" or the error kind.
	ExtractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docsummarizer_extractions_total",
			Help: "Total number of source extractions",
		},
		[]string{"kind", "result"},
	)

	ExtractionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "docsummarizer_extraction_duration_seconds",
			Help:    "Duration of source extractions in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"kind"},
	)

	SummariesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docsummarizer_summaries_total",
			Help: "Total number of summarization calls",
		},
		[]string{"provider", "result"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docsummarizer_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)
)
