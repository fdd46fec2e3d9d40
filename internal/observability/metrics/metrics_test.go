package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestClinicMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewClinicMetrics(reg)
	m.ObserveAppointmentCreated("pending")
	m.ObserveStatusTransition("pending", "confirmed")
	m.ObserveNotification("appointment", "ok")
	m.ObserveTriageCheck("red_flag")
	m.ObserveLLMLatency(0.25)
}

func TestClinicMetricsNilSafe(t *testing.T) {
	var m *ClinicMetrics
	m.ObserveAppointmentCreated("pending")
	m.ObserveStatusTransition("pending", "cancelled")
	m.ObserveNotification("approval", "error")
	m.ObserveTriageCheck("llm")
	m.ObserveLLMLatency(0.1)
}
