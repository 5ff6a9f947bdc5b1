package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the eligibility module. Labels carry
// only non-secret dimensions; the decrypted outcome is never observable here.
type Metrics struct {
	// Homomorphic predicate step latencies by step
	StepLatency *prometheus.HistogramVec

	// Evaluations by result class ("evaluated", "precondition_failed", "error")
	Evaluations *prometheus.CounterVec

	// Overall evaluation latency
	EvaluateLatency prometheus.Histogram
}

// New creates a new Metrics instance with all eligibility module metrics registered.
func New() *Metrics {
	return &Metrics{
		StepLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "securekyc_eligibility_step_duration_seconds",
			Help:    "Duration of homomorphic predicate steps",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}, []string{"step"}), // step: "age", "country", "passport", "combine"

		Evaluations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "securekyc_eligibility_evaluations_total",
			Help: "Total eligibility evaluations by result class",
		}, []string{"result"}),

		EvaluateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "securekyc_eligibility_evaluate_duration_seconds",
			Help:    "Duration of full eligibility evaluation",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// ObserveStepLatency records the duration of one predicate step.
func (m *Metrics) ObserveStepLatency(step string, d time.Duration) {
	if m != nil {
		m.StepLatency.WithLabelValues(step).Observe(d.Seconds())
	}
}

// IncrementEvaluations records an evaluation by result class.
func (m *Metrics) IncrementEvaluations(result string) {
	if m != nil {
		m.Evaluations.WithLabelValues(result).Inc()
	}
}

// ObserveEvaluateLatency records the total evaluation duration.
func (m *Metrics) ObserveEvaluateLatency(d time.Duration) {
	if m != nil {
		m.EvaluateLatency.Observe(d.Seconds())
	}
}
