package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds engine-wide Prometheus metrics.
type Metrics struct {
	RecordsSubmitted   prometheus.Counter
	RecordsAttested    prometheus.Counter
	VerifierChanges    prometheus.Counter
	PoliciesConfigured prometheus.Counter
	ProofsIssued       prometheus.Counter
}

// New creates and registers all engine-wide Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		RecordsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "securekyc_identity_records_submitted_total",
			Help: "Total number of encrypted identity record submissions",
		}),
		RecordsAttested: promauto.NewCounter(prometheus.CounterOpts{
			Name: "securekyc_identity_records_attested_total",
			Help: "Total number of identity record attestations",
		}),
		VerifierChanges: promauto.NewCounter(prometheus.CounterOpts{
			Name: "securekyc_verifier_changes_total",
			Help: "Total number of verifier authority changes",
		}),
		PoliciesConfigured: promauto.NewCounter(prometheus.CounterOpts{
			Name: "securekyc_policies_configured_total",
			Help: "Total number of project policy writes",
		}),
		ProofsIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "securekyc_proofs_issued_total",
			Help: "Total number of eligibility proof tokens issued",
		}),
	}
}

// IncrementRecordsSubmitted increments the submissions counter by 1.
func (m *Metrics) IncrementRecordsSubmitted() {
	if m != nil {
		m.RecordsSubmitted.Inc()
	}
}

// IncrementRecordsAttested increments the attestations counter by 1.
func (m *Metrics) IncrementRecordsAttested() {
	if m != nil {
		m.RecordsAttested.Inc()
	}
}

// IncrementVerifierChanges increments the verifier change counter by 1.
func (m *Metrics) IncrementVerifierChanges() {
	if m != nil {
		m.VerifierChanges.Inc()
	}
}

// IncrementPoliciesConfigured increments the policy write counter by 1.
func (m *Metrics) IncrementPoliciesConfigured() {
	if m != nil {
		m.PoliciesConfigured.Inc()
	}
}

// IncrementProofsIssued increments the proof issuance counter by 1.
func (m *Metrics) IncrementProofsIssued() {
	if m != nil {
		m.ProofsIssued.Inc()
	}
}
