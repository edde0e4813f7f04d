package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"callerdesk-console/internal/routing"
)

// ConsoleMetrics exposes counters/histograms for the gateway and routing flows.
type ConsoleMetrics struct {
	gatewayTotal   *prometheus.CounterVec
	gatewayLatency *prometheus.HistogramVec
	routingTotal   *prometheus.CounterVec
	webhookTotal   *prometheus.CounterVec
	liveStreams    prometheus.Gauge
}

func NewConsoleMetrics(reg prometheus.Registerer) *ConsoleMetrics {
	m := &ConsoleMetrics{
		gatewayTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "callerdesk",
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Total CallerDesk API requests by operation and outcome",
		}, []string{"op", "outcome"}),
		gatewayLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "callerdesk",
			Subsystem: "gateway",
			Name:      "request_duration_seconds",
			Help:      "Latency of CallerDesk API requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		routingTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "callerdesk",
			Subsystem: "routing",
			Name:      "inbound_outcomes_total",
			Help:      "Inbound calls by terminal routing outcome",
		}, []string{"reason"}),
		webhookTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "callerdesk",
			Subsystem: "webhook",
			Name:      "inbound_total",
			Help:      "Inbound-call webhook deliveries by status",
		}, []string{"status"}),
		liveStreams: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "callerdesk",
			Subsystem: "live",
			Name:      "streams_open",
			Help:      "Open live-call websocket streams",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.gatewayTotal, m.gatewayLatency, m.routingTotal, m.webhookTotal, m.liveStreams)
	return m
}

// ObserveRequest satisfies callerdesk.RequestObserver.
func (m *ConsoleMetrics) ObserveRequest(op, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.gatewayTotal.WithLabelValues(op, outcome).Inc()
	m.gatewayLatency.WithLabelValues(op).Observe(elapsed.Seconds())
}

// RecordOutcome satisfies routing.Recorder.
func (m *ConsoleMetrics) RecordOutcome(_ context.Context, _ routing.InboundCall, out routing.Outcome) {
	if m == nil {
		return
	}
	m.routingTotal.WithLabelValues(string(out.Reason)).Inc()
}

// ObserveWebhook counts one webhook delivery; status is handled, duplicate or rejected.
func (m *ConsoleMetrics) ObserveWebhook(status string) {
	if m == nil {
		return
	}
	m.webhookTotal.WithLabelValues(status).Inc()
}

func (m *ConsoleMetrics) StreamOpened() {
	if m == nil {
		return
	}
	m.liveStreams.Inc()
}

func (m *ConsoleMetrics) StreamClosed() {
	if m == nil {
		return
	}
	m.liveStreams.Dec()
}
