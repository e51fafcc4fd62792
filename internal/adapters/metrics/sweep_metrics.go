package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/idleprofit-go/internal/application/leaderboard/services"
	"github.com/andrescamacho/idleprofit-go/internal/domain/calculator"
)

// SweepMetricsCollector records leaderboard sweeps and Markov cache efficiency
type SweepMetricsCollector struct {
	sweepDuration     *prometheus.HistogramVec
	candidatesTotal   *prometheus.CounterVec
	rowsKept          *prometheus.GaugeVec
	candidateFailures *prometheus.CounterVec
	markovLookups     *prometheus.CounterVec
	cacheLookups      *prometheus.CounterVec
}

var (
	_ services.SweepObserver    = (*SweepMetricsCollector)(nil)
	_ calculator.MarkovObserver = (*SweepMetricsCollector)(nil)
)

// NewSweepMetricsCollector creates a new sweep metrics collector
func NewSweepMetricsCollector() *SweepMetricsCollector {
	return &SweepMetricsCollector{
		sweepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "leaderboard",
				Name:      "sweep_duration_seconds",
				Help:      "Time to evaluate every candidate of a leaderboard",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0},
			},
			[]string{"kind"},
		),
		candidatesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "leaderboard",
				Name:      "candidates_total",
				Help:      "Candidates evaluated by leaderboard and outcome (kept, dropped, failed)",
			},
			[]string{"kind", "outcome"},
		),
		rowsKept: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "leaderboard",
				Name:      "rows",
				Help:      "Rows produced by the most recent sweep of each leaderboard",
			},
			[]string{"kind"},
		),
		candidateFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "leaderboard",
				Name:      "candidate_failures_total",
				Help:      "Candidates whose evaluation failed, by leaderboard and calculator kind",
			},
			[]string{"kind", "calculator"},
		),
		markovLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "markov",
				Name:      "lookups_total",
				Help:      "Enhancement Markov cache lookups by result (hit, miss)",
			},
			[]string{"result"},
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "leaderboard",
				Name:      "cache_lookups_total",
				Help:      "Leaderboard result cache lookups by result (hit, miss)",
			},
			[]string{"result"},
		),
	}
}

// Register registers all sweep metrics with the Prometheus registry
func (c *SweepMetricsCollector) Register() error {
	return register(c.sweepDuration, c.candidatesTotal, c.rowsKept, c.candidateFailures, c.markovLookups, c.cacheLookups)
}

// RecordSweep implements services.SweepObserver
func (c *SweepMetricsCollector) RecordSweep(stats services.SweepStats) {
	kind := string(stats.Kind)
	c.sweepDuration.WithLabelValues(kind).Observe(stats.Duration.Seconds())
	c.candidatesTotal.WithLabelValues(kind, "kept").Add(float64(stats.Kept))
	c.candidatesTotal.WithLabelValues(kind, "failed").Add(float64(stats.Failed))
	if dropped := stats.Evaluated - stats.Kept - stats.Failed; dropped > 0 {
		c.candidatesTotal.WithLabelValues(kind, "dropped").Add(float64(dropped))
	}
	c.rowsKept.WithLabelValues(kind).Set(float64(stats.Kept))
}

// RecordCandidateFailure implements services.SweepObserver
func (c *SweepMetricsCollector) RecordCandidateFailure(kind services.SweepKind, candidateKind string) {
	c.candidateFailures.WithLabelValues(string(kind), candidateKind).Inc()
}

// RecordMarkovLookup implements calculator.MarkovObserver
func (c *SweepMetricsCollector) RecordMarkovLookup(hit bool) {
	c.markovLookups.WithLabelValues(hitLabel(hit)).Inc()
}

// RecordCacheLookup records a leaderboard result cache lookup
func (c *SweepMetricsCollector) RecordCacheLookup(hit bool) {
	c.cacheLookups.WithLabelValues(hitLabel(hit)).Inc()
}

func hitLabel(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
