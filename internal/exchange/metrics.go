package exchange

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is the ambient observability surface wired into every concrete
// exchange. It is pure instrumentation: nothing on the strategy callback's
// hot path depends on it, and it carries no reporting transport of its
// own -- only counters and a histogram a caller's own registry scrapes.
type Metrics struct {
	OrdersSubmitted prometheus.Counter
	Fills           prometheus.Counter
	Errors          prometheus.Counter
	TickLatency     prometheus.Histogram
}

// NewMetrics registers the exchange's counters against reg. Callers own the
// registry (typically a fresh *prometheus.Registry per session) so that
// repeated session construction in tests never collides on the default
// global registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		OrdersSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vantage_orders_submitted_total",
			Help: "Total number of order commands submitted to the exchange.",
		}),
		Fills: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vantage_fills_total",
			Help: "Total number of individual fills produced by the exchange.",
		}),
		Errors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vantage_exchange_errors_total",
			Help: "Total number of recoverable errors queued by the exchange.",
		}),
		TickLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "vantage_tick_latency_seconds",
			Help:    "Wall-clock time between a response completing and its tick callback firing.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.OrdersSubmitted, m.Fills, m.Errors, m.TickLatency)
	return m
}

// ObserveTick records the latency between an event occurring and its tick
// callback being invoked, in live mode where that gap is real wall-clock
// time (in backtest it is always ~0 and the observation is still cheap
// enough to keep unconditionally).
func (m *Metrics) ObserveTick(since time.Time) {
	if m == nil {
		return
	}
	m.TickLatency.Observe(time.Since(since).Seconds())
}
