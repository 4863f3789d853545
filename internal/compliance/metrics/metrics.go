package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics provides observability for compliance runs.
type Metrics struct {
	// Runs by outcome: success or failure
	RunsTotal *prometheus.CounterVec

	RunDuration prometheus.Histogram

	// Records actually inserted, by type
	NotificationsCreated *prometheus.CounterVec
	ViolationsCreated    *prometheus.CounterVec
}

// New registers compliance metrics on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers compliance metrics on reg.
func NewWith(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "assetguard_check_runs_total",
			Help: "Total compliance check runs by outcome",
		}, []string{"outcome"}),

		RunDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "assetguard_check_run_duration_seconds",
			Help:    "Duration of a full compliance check run including commit",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),

		NotificationsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "assetguard_notifications_created_total",
			Help: "Total notifications created by compliance runs",
		}, []string{"type"}),

		ViolationsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "assetguard_violations_created_total",
			Help: "Total violations created by compliance runs",
		}, []string{"type"}),
	}
}

// ObserveRun records one run's outcome and duration.
func (m *Metrics) ObserveRun(outcome string, d time.Duration) {
	if m != nil {
		m.RunsTotal.WithLabelValues(outcome).Inc()
		m.RunDuration.Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementNotification(notificationType string) {
	if m != nil {
		m.NotificationsCreated.WithLabelValues(notificationType).Inc()
	}
}

func (m *Metrics) IncrementViolation(violationType string) {
	if m != nil {
		m.ViolationsCreated.WithLabelValues(violationType).Inc()
	}
}
