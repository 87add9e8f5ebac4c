package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the authentication collectors exposed by the service.
// HTTP request metrics are owned by the transport middleware.
type Metrics struct {
	LoginOutcomes   *prometheus.CounterVec
	AccountLockouts prometheus.Counter
	TwoFactorIssued prometheus.Counter
}

// NewMetrics registers the service collectors with the provided registerer.
// A nil registerer falls back to the default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		LoginOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "travel",
			Subsystem: "auth",
			Name:      "login_outcomes_total",
			Help:      "Login attempts partitioned by outcome",
		}, []string{"outcome"}),
		AccountLockouts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "travel",
			Subsystem: "auth",
			Name:      "account_lockouts_total",
			Help:      "Accounts locked after repeated failures",
		}),
		TwoFactorIssued: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "travel",
			Subsystem: "auth",
			Name:      "twofactor_issued_total",
			Help:      "Second-factor codes issued after password checks",
		}),
	}
}

// RecordLoginOutcome increments the outcome counter, tolerating a nil receiver.
func (m *Metrics) RecordLoginOutcome(outcome string) {
	if m == nil || m.LoginOutcomes == nil {
		return
	}
	m.LoginOutcomes.WithLabelValues(outcome).Inc()
}

// RecordLockout increments the lockout counter, tolerating a nil receiver.
func (m *Metrics) RecordLockout() {
	if m == nil || m.AccountLockouts == nil {
		return
	}
	m.AccountLockouts.Inc()
}

// RecordTwoFactorIssued increments the issued-code counter, tolerating a nil receiver.
func (m *Metrics) RecordTwoFactorIssued() {
	if m == nil || m.TwoFactorIssued == nil {
		return
	}
	m.TwoFactorIssued.Inc()
}
