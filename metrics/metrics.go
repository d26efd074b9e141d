// Package metrics exposes the gateway's Prometheus collectors and the
// standalone HTTP server that serves them.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors updated by the gate, the availability switch
// and the message dispatch handler. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	verifications   *prometheus.CounterVec
	messages        *prometheus.CounterVec
	serverAvailable prometheus.Gauge
}

// NewMetrics creates a registry with the gateway collectors and the default
// Go and process collectors registered under namespace.
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verifications_total",
			Help:      "Credential verifications by scheme and result kind.",
		}, []string{"scheme", "result"}),
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "Outbound message dispatch attempts by result.",
		}, []string{"result"}),
		serverAvailable: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "server_available",
			Help:      "1 when protected routes are served, 0 when disabled by an operator.",
		}),
	}

	m.registry.MustRegister(
		m.verifications,
		m.messages,
		m.serverAvailable,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m.serverAvailable.Set(1)
	return m
}

// Registry returns the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveVerification counts one verification outcome.
func (m *Metrics) ObserveVerification(scheme, result string) {
	if m == nil {
		return
	}
	m.verifications.WithLabelValues(scheme, result).Inc()
}

// ObserveMessage counts one message dispatch outcome.
func (m *Metrics) ObserveMessage(result string) {
	if m == nil {
		return
	}
	m.messages.WithLabelValues(result).Inc()
}

// SetAvailable mirrors the availability switch state.
func (m *Metrics) SetAvailable(available bool) {
	if m == nil {
		return
	}
	if available {
		m.serverAvailable.Set(1)
	} else {
		m.serverAvailable.Set(0)
	}
}

// MetricsServer serves /metrics for a Metrics registry on its own listener.
type MetricsServer struct {
	srv *http.Server
}

// New creates a metrics server for m listening on addr.
func New(m *Metrics, addr string) *MetricsServer {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))

	return &MetricsServer{
		srv: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
	}
}

// ListenAndServe blocks serving metrics until Shutdown is called.
func (s *MetricsServer) ListenAndServe() error {
	return s.srv.ListenAndServe()
}

// Shutdown gracefully stops the metrics listener.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
