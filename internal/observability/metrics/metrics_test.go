package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"callerdesk-console/internal/routing"
)

func family(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	t.Fatalf("metric %s not found", name)
	return nil
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}

func TestConsoleMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewConsoleMetrics(reg)

	m.ObserveRequest("call_list_v2", "success", 120*time.Millisecond)
	m.ObserveRequest("call_list_v2", "success", 80*time.Millisecond)
	m.RecordOutcome(context.Background(), routing.InboundCall{}, routing.Outcome{Reason: routing.ReasonRedirectFailed})
	m.ObserveWebhook("duplicate")
	m.StreamOpened()

	gw := family(t, reg, "callerdesk_gateway_requests_total")
	if len(gw.GetMetric()) != 1 || gw.GetMetric()[0].GetCounter().GetValue() != 2 {
		t.Fatalf("unexpected gateway counter: %v", gw)
	}
	if labelValue(gw.GetMetric()[0], "op") != "call_list_v2" {
		t.Fatalf("expected op label")
	}

	rt := family(t, reg, "callerdesk_routing_inbound_outcomes_total")
	if labelValue(rt.GetMetric()[0], "reason") != "redirect_failed" {
		t.Fatalf("unexpected routing labels: %v", rt)
	}

	live := family(t, reg, "callerdesk_live_streams_open")
	if live.GetMetric()[0].GetGauge().GetValue() != 1 {
		t.Fatalf("expected one open stream")
	}
}

func TestConsoleMetricsNilSafe(t *testing.T) {
	var m *ConsoleMetrics
	m.ObserveRequest("op", "success", time.Second)
	m.RecordOutcome(context.Background(), routing.InboundCall{}, routing.Outcome{})
	m.ObserveWebhook("handled")
	m.StreamOpened()
	m.StreamClosed()
}
