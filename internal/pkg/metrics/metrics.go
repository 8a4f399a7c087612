// Package metrics holds the business counters exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "studio"

// Visit rejection reasons used as the reason label.
const (
	ReasonExpired        = "expired"
	ReasonLimitExhausted = "limit_exhausted"
	ReasonNotFound       = "not_found"
)

type Metrics struct {
	SalesCreated     prometheus.Counter
	VisitsMarked     prometheus.Counter
	VisitsRejected   *prometheus.CounterVec
	AlertsRecomputed prometheus.Counter
	PayrollCreated   prometheus.Counter
	TxRetries        prometheus.Counter
}

// New registers the collectors with reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SalesCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_created_total",
			Help:      "Membership sales created.",
		}),
		VisitsMarked: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "visits_marked_total",
			Help:      "Visits successfully marked.",
		}),
		VisitsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "visits_rejected_total",
			Help:      "Visit marks rejected, by reason.",
		}, []string{"reason"}),
		AlertsRecomputed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_recomputed_total",
			Help:      "Alert recomputations written.",
		}),
		PayrollCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payroll_created_total",
			Help:      "Salary calculations stored.",
		}),
		TxRetries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "db_tx_retries_total",
			Help:      "Transactions retried after a transient database error.",
		}),
	}
}

// Discard returns collectors registered nowhere.
func Discard() *Metrics {
	return New(prometheus.NewRegistry())
}

func (m *Metrics) SaleCreated() {
	if m != nil {
		m.SalesCreated.Inc()
	}
}

func (m *Metrics) VisitMarked() {
	if m != nil {
		m.VisitsMarked.Inc()
	}
}

func (m *Metrics) VisitRejected(reason string) {
	if m != nil {
		m.VisitsRejected.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) AlertRecomputed() {
	if m != nil {
		m.AlertsRecomputed.Inc()
	}
}

func (m *Metrics) PayrollStored() {
	if m != nil {
		m.PayrollCreated.Inc()
	}
}

func (m *Metrics) TxRetried() {
	if m != nil {
		m.TxRetries.Inc()
	}
}
