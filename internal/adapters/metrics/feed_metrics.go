package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/idleprofit-go/internal/adapters/api"
)

// FeedMetricsCollector records reference feed downloads
type FeedMetricsCollector struct {
	fetchesTotal   *prometheus.CounterVec
	fetchDuration  *prometheus.HistogramVec
	payloadBytes   *prometheus.GaugeVec
	circuitState   *prometheus.GaugeVec
	lastSuccessful *prometheus.GaugeVec
}

var _ api.FetchObserver = (*FeedMetricsCollector)(nil)

var circuitStates = []string{"closed", "half_open", "open"}

// NewFeedMetricsCollector creates a new feed metrics collector
func NewFeedMetricsCollector() *FeedMetricsCollector {
	return &FeedMetricsCollector{
		fetchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "feed",
				Name:      "fetches_total",
				Help:      "Feed downloads by feed and status",
			},
			[]string{"feed", "status"},
		),
		fetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "feed",
				Name:      "fetch_duration_seconds",
				Help:      "Feed download duration including retries",
				Buckets:   []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0, 120.0},
			},
			[]string{"feed"},
		),
		payloadBytes: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "feed",
				Name:      "payload_bytes",
				Help:      "Size of the last successful download",
			},
			[]string{"feed"},
		),
		circuitState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "feed",
				Name:      "circuit_state",
				Help:      "1 for the current feed circuit breaker state, 0 otherwise",
			},
			[]string{"state"},
		),
		lastSuccessful: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "feed",
				Name:      "last_success_timestamp_seconds",
				Help:      "Unix time of the last successful download",
			},
			[]string{"feed"},
		),
	}
}

// Register registers all feed metrics with the Prometheus registry
func (c *FeedMetricsCollector) Register() error {
	c.RecordCircuitState("closed")
	return register(c.fetchesTotal, c.fetchDuration, c.payloadBytes, c.circuitState, c.lastSuccessful)
}

// RecordFetch implements api.FetchObserver
func (c *FeedMetricsCollector) RecordFetch(feed, status string, duration time.Duration, bytes int) {
	c.fetchesTotal.WithLabelValues(feed, status).Inc()
	c.fetchDuration.WithLabelValues(feed).Observe(duration.Seconds())
	if status == "success" {
		c.payloadBytes.WithLabelValues(feed).Set(float64(bytes))
		c.lastSuccessful.WithLabelValues(feed).SetToCurrentTime()
	}
}

// RecordCircuitState implements api.FetchObserver
func (c *FeedMetricsCollector) RecordCircuitState(state string) {
	for _, s := range circuitStates {
		value := 0.0
		if s == state {
			value = 1
		}
		c.circuitState.WithLabelValues(s).Set(value)
	}
}
