package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestIntakeMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewIntakeMetrics(reg)
	m.ObserveOpen()
	m.ObserveTransition(1, 2)
	m.ObserveTransition(1, 2)
	m.ObserveHandoff("call", "")
	m.ObserveStorageFailure("save")
	m.ObserveClose(3)

	if got := testutil.ToFloat64(m.transitionsTotal.WithLabelValues("1", "2")); got != 2 {
		t.Fatalf("expected 2 transitions, got %v", got)
	}
	if got := testutil.ToFloat64(m.handoffsTotal.WithLabelValues("call", "unset")); got != 1 {
		t.Fatalf("expected unset intent label, got %v", got)
	}
}

func TestIntakeMetricsGather(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewIntakeMetrics(reg)
	m.ObserveOpen()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var opens *dto.MetricFamily
	for _, mf := range families {
		if mf.GetName() == "atomnext_intake_opens_total" {
			opens = mf
		}
	}
	if opens == nil {
		t.Fatalf("opens counter not registered")
	}
	if got := opens.GetMetric()[0].GetCounter().GetValue(); got != 1 {
		t.Fatalf("expected 1 open, got %v", got)
	}
}

func TestFormsMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewFormsMetrics(reg)
	m.ObserveSubmission("book-call", "ok")
	m.ObserveEmail("owner", false)
	m.ObserveChat("pricing")

	if got := testutil.ToFloat64(m.emailsTotal.WithLabelValues("owner", "failed")); got != 1 {
		t.Fatalf("expected failed email counted, got %v", got)
	}
}

func TestMetricsNilSafe(t *testing.T) {
	var im *IntakeMetrics
	im.ObserveOpen()
	im.ObserveClose(1)
	im.ObserveTransition(1, 2)
	im.ObserveHandoff("request", "discuss")
	im.ObserveStorageFailure("load")

	var fm *FormsMetrics
	fm.ObserveSubmission("request-service", "invalid")
	fm.ObserveEmail("visitor", true)
	fm.ObserveChat("fallback")
}
