package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// IntakeMetrics exposes counters for the intake wizard.
type IntakeMetrics struct {
	opensTotal       prometheus.Counter
	closesTotal      *prometheus.CounterVec
	transitionsTotal *prometheus.CounterVec
	handoffsTotal    *prometheus.CounterVec
	storageFailures  *prometheus.CounterVec
}

func NewIntakeMetrics(reg prometheus.Registerer) *IntakeMetrics {
	m := &IntakeMetrics{
		opensTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "atomnext",
			Subsystem: "intake",
			Name:      "opens_total",
			Help:      "Total wizard opens",
		}),
		closesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "atomnext",
			Subsystem: "intake",
			Name:      "closes_total",
			Help:      "Total wizard closes by the step showing at close time",
		}, []string{"step"}),
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "atomnext",
			Subsystem: "intake",
			Name:      "step_transitions_total",
			Help:      "Total auto-advances between wizard steps",
		}, []string{"from", "to"}),
		handoffsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "atomnext",
			Subsystem: "intake",
			Name:      "handoffs_total",
			Help:      "Total handoffs to destination forms",
		}, []string{"destination", "intent"}),
		storageFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "atomnext",
			Subsystem: "intake",
			Name:      "storage_failures_total",
			Help:      "Context store failures swallowed by the wizard",
		}, []string{"op"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.opensTotal, m.closesTotal, m.transitionsTotal, m.handoffsTotal, m.storageFailures)
	return m
}

func (m *IntakeMetrics) ObserveOpen() {
	if m == nil {
		return
	}
	m.opensTotal.Inc()
}

func (m *IntakeMetrics) ObserveClose(step int) {
	if m == nil {
		return
	}
	m.closesTotal.WithLabelValues(strconv.Itoa(step)).Inc()
}

func (m *IntakeMetrics) ObserveTransition(from, to int) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(strconv.Itoa(from), strconv.Itoa(to)).Inc()
}

func (m *IntakeMetrics) ObserveHandoff(destination, intent string) {
	if m == nil {
		return
	}
	if intent == "" {
		intent = "unset"
	}
	m.handoffsTotal.WithLabelValues(destination, intent).Inc()
}

func (m *IntakeMetrics) ObserveStorageFailure(op string) {
	if m == nil {
		return
	}
	m.storageFailures.WithLabelValues(op).Inc()
}
