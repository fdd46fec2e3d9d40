package metrics

import "github.com/prometheus/client_golang/prometheus"

// ClinicMetrics exposes counters/histograms for the appointment workflow.
type ClinicMetrics struct {
	appointmentsCreated *prometheus.CounterVec
	statusTransitions   *prometheus.CounterVec
	notifications       *prometheus.CounterVec
	triageChecks        *prometheus.CounterVec
	llmLatency          prometheus.Histogram
}

func NewClinicMetrics(reg prometheus.Registerer) *ClinicMetrics {
	m := &ClinicMetrics{
		appointmentsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "carelink",
			Subsystem: "appointments",
			Name:      "created_total",
			Help:      "Total appointments created",
		}, []string{"status"}),
		statusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "carelink",
			Subsystem: "appointments",
			Name:      "status_transitions_total",
			Help:      "Total appointment status transitions",
		}, []string{"from", "to"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "carelink",
			Subsystem: "notifications",
			Name:      "written_total",
			Help:      "Total notification writes by outcome",
		}, []string{"type", "status"}),
		triageChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "carelink",
			Subsystem: "triage",
			Name:      "checks_total",
			Help:      "Total symptom checks by outcome",
		}, []string{"outcome"}),
		llmLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "carelink",
			Subsystem: "triage",
			Name:      "llm_latency_seconds",
			Help:      "Latency of external inference calls",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.appointmentsCreated, m.statusTransitions, m.notifications, m.triageChecks, m.llmLatency)
	return m
}

func (m *ClinicMetrics) ObserveAppointmentCreated(status string) {
	if m == nil {
		return
	}
	m.appointmentsCreated.WithLabelValues(status).Inc()
}

func (m *ClinicMetrics) ObserveStatusTransition(from, to string) {
	if m == nil {
		return
	}
	m.statusTransitions.WithLabelValues(from, to).Inc()
}

func (m *ClinicMetrics) ObserveNotification(notifType, status string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(notifType, status).Inc()
}

func (m *ClinicMetrics) ObserveTriageCheck(outcome string) {
	if m == nil {
		return
	}
	m.triageChecks.WithLabelValues(outcome).Inc()
}

func (m *ClinicMetrics) ObserveLLMLatency(seconds float64) {
	if m == nil {
		return
	}
	m.llmLatency.Observe(seconds)
}
