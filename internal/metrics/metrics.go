package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

const (
	OutcomeRendered = "rendered"
	OutcomeFailed   = "failed"
)

// Metrics owns its registry so several instances can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	MovementsStored  prometheus.Counter
	MovementsDropped prometheus.Counter
	Requests         *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		MovementsStored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "inventory_movements_stored_total",
			Help: "Inventory movements persisted by the workers.",
		}),
		MovementsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "inventory_movements_dropped_total",
			Help: "Queued inventory movements discarded as undecodable.",
		}),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
	}
	m.registry.MustRegister(m.MovementsStored, m.MovementsDropped, m.Requests)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() fasthttp.RequestHandler {
	return fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// WidgetMetrics counts widget renders. The widget is a one-shot process with
// no listener, so the counters leave through a node_exporter textfile.
type WidgetMetrics struct {
	registry *prometheus.Registry

	Renders *prometheus.CounterVec
}

func NewWidget() *WidgetMetrics {
	m := &WidgetMetrics{
		registry: prometheus.NewRegistry(),
		Renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "liters_widget_renders_total",
			Help: "Liters distributed widget updates by outcome.",
		}, []string{"outcome"}),
	}
	m.registry.MustRegister(m.Renders)
	return m
}

// WriteToTextfile atomically replaces path with the current counters.
func (m *WidgetMetrics) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
