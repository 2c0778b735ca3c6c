package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pharmachat_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pharmachat_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ChatTurnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pharmachat_chat_turns_total",
			Help: "Total number of chat turns answered, by persona and pipeline path.",
		},
		[]string{"persona", "path"},
	)

	RetrievedPassages = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pharmachat_retrieved_passages",
			Help:    "Number of corpus passages above the similarity threshold per retrieval.",
			Buckets: []float64{0, 1, 2, 3, 4, 5},
		},
	)

	MemoryCapturesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pharmachat_memory_captures_total",
			Help: "Total number of conversation exchanges handed to memory capture.",
		},
	)

	MemoryCaptureFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pharmachat_memory_capture_failures_total",
			Help: "Total number of memory capture attempts that failed. Failures never surface to callers.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		ChatTurnsTotal,
		RetrievedPassages,
		MemoryCapturesTotal,
		MemoryCaptureFailuresTotal,
	)
}
