// Package metrics expone contadores Prometheus de ventas y ganancia.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

const namespace = "retail"

// Collector agrupa las métricas de la aplicación.
type Collector struct {
	registry    *prometheus.Registry
	salesSaved  *prometheus.CounterVec
	salesFailed *prometheus.CounterVec
	saleAmount  prometheus.Histogram
	pureRevenue prometheus.Histogram
	httpLatency *prometheus.HistogramVec
}

// New registra las métricas en un registry propio (más los collectors de Go y proceso).
func New() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		salesSaved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_saved_total",
			Help:      "Ventas persistidas por operación (create, update, delete).",
		}, []string{"op"}),
		salesFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_rejected_total",
			Help:      "Ventas rechazadas por motivo.",
		}, []string{"reason"}),
		saleAmount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sale_amount",
			Help:      "Total facturado por venta.",
			Buckets:   prometheus.ExponentialBuckets(10, 4, 10),
		}),
		pureRevenue: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sale_pure_revenue",
			Help:      "Ganancia pura por venta (puede ser negativa).",
			Buckets:   []float64{-10000, -1000, -100, 0, 100, 1000, 10000, 100000, 1000000},
		}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latencia de las peticiones HTTP.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		c.salesSaved, c.salesFailed, c.saleAmount, c.pureRevenue, c.httpLatency,
	)
	return c
}

// SaleSaved registra una venta persistida.
func (c *Collector) SaleSaved(op string, total, pureRevenue decimal.Decimal) {
	c.salesSaved.WithLabelValues(op).Inc()
	if op == "delete" {
		return
	}
	c.saleAmount.Observe(total.InexactFloat64())
	c.pureRevenue.Observe(pureRevenue.InexactFloat64())
}

// SaleRejected registra una venta rechazada (validación, stock, lookup).
func (c *Collector) SaleRejected(reason string) {
	c.salesFailed.WithLabelValues(reason).Inc()
}

// ObserveHTTP registra la duración de una petición.
func (c *Collector) ObserveHTTP(method, route, status string, seconds float64) {
	c.httpLatency.WithLabelValues(method, route, status).Observe(seconds)
}

// Handler devuelve el handler HTTP de /metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry expone el registry (tests).
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
