package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CatalogMetrics implements cache.Metrics.
type CatalogMetrics struct {
	duration prometheus.Histogram
	products prometheus.Gauge
	failures prometheus.Counter
	lastLoad prometheus.Gauge
}

// NewCatalogMetrics registers the catalog metrics on reg.
func NewCatalogMetrics(reg prometheus.Registerer) *CatalogMetrics {
	if reg == nil {
		return &CatalogMetrics{}
	}
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_refresh_duration_seconds",
		Help:    "Duration of catalog reloads in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	products := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_products",
		Help: "Products in the loaded catalog.",
	})
	failures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_refresh_failures_total",
		Help: "Failed catalog reloads.",
	})
	lastLoad := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_last_refresh_timestamp_seconds",
		Help: "Unix time of the last successful catalog reload.",
	})
	reg.MustRegister(duration, products, failures, lastLoad)
	return &CatalogMetrics{
		duration: duration,
		products: products,
		failures: failures,
		lastLoad: lastLoad,
	}
}

// CatalogRefreshed records a successful reload.
func (m *CatalogMetrics) CatalogRefreshed(products int, took time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.Observe(took.Seconds())
	m.products.Set(float64(products))
	m.lastLoad.SetToCurrentTime()
}

// CatalogRefreshFailed records a failed reload.
func (m *CatalogMetrics) CatalogRefreshFailed() {
	if m == nil || m.failures == nil {
		return
	}
	m.failures.Inc()
}
