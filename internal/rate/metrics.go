package rate

import (
	"ratesync/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	runsTotal      *prometheus.CounterVec
	recordsTotal   *prometheus.CounterVec
	runDuration    prometheus.Histogram
	lastSuccessRun prometheus.Gauge
}

// ObserveRun records one finished run. A nil receiver is a no-op.
func (m *Metrics) ObserveRun(report domain.Report, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.runsTotal.WithLabelValues(result).Inc()
	m.recordsTotal.WithLabelValues(string(OutcomeCreated)).Add(float64(report.Created))
	m.recordsTotal.WithLabelValues(string(OutcomeUpdated)).Add(float64(report.Updated))
	m.recordsTotal.WithLabelValues(string(OutcomeSkipped)).Add(float64(report.Skipped))
	m.recordsTotal.WithLabelValues(string(OutcomeFailed)).Add(float64(report.Failed))
	if !report.StartedAt.IsZero() && !report.FinishedAt.IsZero() {
		m.runDuration.Observe(report.FinishedAt.Sub(report.StartedAt).Seconds())
	}
	if err == nil {
		m.lastSuccessRun.Set(float64(report.FinishedAt.Unix()))
	}
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		runsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ratesync_runs_total",
			Help: "Sync runs by result",
		}, []string{"result"}),
		recordsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ratesync_records_total",
			Help: "Feed records processed by outcome",
		}, []string{"outcome"}),
		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ratesync_run_duration_seconds",
			Help:    "Duration of sync runs",
			Buckets: []float64{.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}),
		lastSuccessRun: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ratesync_last_success_timestamp_seconds",
			Help: "Unix time of the last successful run",
		}),
	}
}
