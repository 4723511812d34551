package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics — счётчики сканера. Свой реестр, чтобы тесты не делили глобальный.
// Методы безопасны на nil-получателе.
type Metrics struct {
	Registry *prometheus.Registry

	Cycles        *prometheus.CounterVec // outcome: signal|no_candidate|below_min_score|error|panic
	CycleDuration prometheus.Histogram
	PairFailures  *prometheus.CounterVec // timeframe
	Candidates    prometheus.Histogram
	Dispatches    *prometheus.CounterVec // kind: photo|text|info, result: ok|error
	ActiveJobs    prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signalbot_cycles_total",
			Help: "Scan cycles by outcome",
		}, []string{"outcome"}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "signalbot_cycle_duration_seconds",
			Help:    "Wall time of one scan cycle",
			Buckets: []float64{1, 2, 5, 10, 20, 40, 80, 160},
		}),
		PairFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signalbot_pair_failures_total",
			Help: "Symbol x timeframe fetches that failed and were dropped",
		}, []string{"timeframe"}),
		Candidates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "signalbot_candidates",
			Help:    "Candidate signals per cycle",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100, 200},
		}),
		Dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signalbot_dispatches_total",
			Help: "Messages sent to chats",
		}, []string{"kind", "result"}),
		ActiveJobs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "signalbot_active_jobs",
			Help: "Scheduled chat targets",
		}),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Cycles,
		m.CycleDuration,
		m.PairFailures,
		m.Candidates,
		m.Dispatches,
		m.ActiveJobs,
	)
	return m
}

func (m *Metrics) ObserveCycle(outcome string, took time.Duration, candidates int) {
	if m == nil {
		return
	}
	m.Cycles.WithLabelValues(outcome).Inc()
	m.CycleDuration.Observe(took.Seconds())
	m.Candidates.Observe(float64(candidates))
}

func (m *Metrics) PairFailed(timeframe string) {
	if m == nil {
		return
	}
	m.PairFailures.WithLabelValues(timeframe).Inc()
}

func (m *Metrics) Dispatched(kind string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Dispatches.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) SetActiveJobs(n int) {
	if m == nil {
		return
	}
	m.ActiveJobs.Set(float64(n))
}
