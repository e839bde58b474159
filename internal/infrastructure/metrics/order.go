// Package metrics exports Prometheus collectors for order submission,
// catalog refresh and HTTP traffic. Every collector is nil-safe.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// OrderMetrics implements order.Metrics.
type OrderMetrics struct {
	created  prometheus.Counter
	rejected *prometheus.CounterVec
	amount   prometheus.Histogram
	items    prometheus.Histogram
}

// NewOrderMetrics registers the order metrics on reg.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	created := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders stored successfully.",
	})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_rejected_total",
		Help: "Order submissions that failed, by reason.",
	}, []string{"reason"})
	amount := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_total_amount",
		Help:    "Total amount of created orders.",
		Buckets: prometheus.ExponentialBuckets(1000, 4, 8),
	})
	items := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_items",
		Help:    "Number of items per created order.",
		Buckets: prometheus.LinearBuckets(1, 5, 10),
	})
	reg.MustRegister(created, rejected, amount, items)
	return &OrderMetrics{
		created:  created,
		rejected: rejected,
		amount:   amount,
		items:    items,
	}
}

// OrderCreated records a stored order.
func (m *OrderMetrics) OrderCreated(total decimal.Decimal, items int) {
	if m == nil || m.created == nil {
		return
	}
	m.created.Inc()
	m.amount.Observe(total.InexactFloat64())
	m.items.Observe(float64(items))
}

// OrderRejected records a failed submission.
func (m *OrderMetrics) OrderRejected(reason string) {
	if m == nil || m.rejected == nil {
		return
	}
	m.rejected.WithLabelValues(normalizeLabel(reason)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
