package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records which persistence tier ended up holding each order
// and how dispatches fared.
type CheckoutMetrics struct {
	persisted  *prometheus.CounterVec
	dispatched *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	persisted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_persisted_total",
		Help: "Orders persisted, labelled by the tier that accepted the write.",
	}, []string{"tier"})
	dispatched := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_dispatched_total",
		Help: "Order messages handed off, labelled by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(persisted, dispatched)
	return &CheckoutMetrics{
		persisted:  persisted,
		dispatched: dispatched,
	}
}

// IncPersisted increments the counter for the named persistence tier.
func (c *CheckoutMetrics) IncPersisted(tier string) {
	if c == nil || c.persisted == nil {
		return
	}
	c.persisted.WithLabelValues(normalizeLabel(tier)).Inc()
}

// IncDispatched increments the dispatch counter for the given outcome.
func (c *CheckoutMetrics) IncDispatched(outcome string) {
	if c == nil || c.dispatched == nil {
		return
	}
	c.dispatched.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
