package metrics

import "github.com/prometheus/client_golang/prometheus"

// FormsMetrics counts destination form submissions and chat traffic.
type FormsMetrics struct {
	submissionsTotal *prometheus.CounterVec
	emailsTotal      *prometheus.CounterVec
	chatTotal        *prometheus.CounterVec
}

func NewFormsMetrics(reg prometheus.Registerer) *FormsMetrics {
	m := &FormsMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "atomnext",
			Subsystem: "forms",
			Name:      "submissions_total",
			Help:      "Total form submissions by outcome",
		}, []string{"form", "status"}),
		emailsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "atomnext",
			Subsystem: "forms",
			Name:      "emails_total",
			Help:      "Total notification emails by recipient role and outcome",
		}, []string{"recipient", "status"}),
		chatTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "atomnext",
			Subsystem: "chat",
			Name:      "messages_total",
			Help:      "Total chatbot messages by matched topic",
		}, []string{"topic"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.emailsTotal, m.chatTotal)
	return m
}

func (m *FormsMetrics) ObserveSubmission(form, status string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(form, status).Inc()
}

func (m *FormsMetrics) ObserveEmail(recipient string, ok bool) {
	if m == nil {
		return
	}
	status := "sent"
	if !ok {
		status = "failed"
	}
	m.emailsTotal.WithLabelValues(recipient, status).Inc()
}

func (m *FormsMetrics) ObserveChat(topic string) {
	if m == nil {
		return
	}
	m.chatTotal.WithLabelValues(topic).Inc()
}
