package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APICallDuration is the latency of calls to the upstream project API.
	// endpoint is the route template, never the expanded path.
	APICallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "novapm",
			Name:      "api_call_duration_seconds",
			Help:      "Upstream API call duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		},
		[]string{"method", "endpoint", "status"},
	)

	PageRenders = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "novapm",
			Name:      "page_renders_total",
			Help:      "Console pages rendered, by page and outcome",
		},
		[]string{"page", "outcome"},
	)

	RefreshSuperseded = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "novapm",
			Name:      "refresh_superseded_total",
			Help:      "Refresh results discarded because a newer refresh started",
		},
	)
)

// RecordAPICall observes one upstream call. status 0 means the request never
// produced a response.
func RecordAPICall(method, endpoint string, status int, d time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	APICallDuration.WithLabelValues(method, endpoint, label).Observe(d.Seconds())
}

func RecordPageRender(page, outcome string) {
	PageRenders.WithLabelValues(page, outcome).Inc()
}
