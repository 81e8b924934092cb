// Package metrics exposes Prometheus counters for edge dispatch decisions.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the counters recorded per dispatch.
type Metrics struct {
	registry *prometheus.Registry

	Dispatches *prometheus.CounterVec
	ProxyErrs  prometheus.Counter
	MailSends  *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Dispatches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "edge_dispatches_total",
			Help: "Inbound requests by dispatch action and status code.",
		}, []string{"action", "status"}),
		ProxyErrs: factory.NewCounter(prometheus.CounterOpts{
			Name: "edge_proxy_errors_total",
			Help: "Forwarding failures converted to 502 responses.",
		}),
		MailSends: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "edge_mail_sends_total",
			Help: "Contact-form mail deliveries by outcome.",
		}, []string{"outcome"}),
	}
}

// RecordDispatch counts one routed request.
func (m *Metrics) RecordDispatch(action string, status int) {
	m.Dispatches.WithLabelValues(action, strconv.Itoa(status)).Inc()
}

// Handler serves the scrape endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
