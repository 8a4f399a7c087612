package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.SaleCreated()
	m.VisitMarked()
	m.VisitMarked()
	m.VisitRejected(ReasonExpired)
	m.VisitRejected(ReasonLimitExhausted)
	m.VisitRejected(ReasonLimitExhausted)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SalesCreated))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.VisitsMarked))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.VisitsRejected.WithLabelValues(ReasonExpired)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.VisitsRejected.WithLabelValues(ReasonLimitExhausted)))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.SaleCreated()
		m.VisitRejected(ReasonNotFound)
		m.TxRetried()
	})
}
