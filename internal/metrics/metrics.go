package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeFallback = "fallback"
)

// Metrics holds the service collectors. A nil *Metrics is a valid no-op.
type Metrics struct {
	aiDuration  *prometheus.HistogramVec
	aiCalls     *prometheus.CounterVec
	conversions *prometheus.CounterVec
}

// New регистрирует метрики сервиса в переданном registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	aiDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "assistant_ai_call_duration_seconds",
		Help:    "Duration of language model calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	aiCalls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assistant_ai_calls_total",
		Help: "Language model calls by operation and outcome.",
	}, []string{"operation", "outcome"})
	conversions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assistant_currency_conversions_total",
		Help: "Currency conversions by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(aiDuration, aiCalls, conversions)

	return &Metrics{
		aiDuration:  aiDuration,
		aiCalls:     aiCalls,
		conversions: conversions,
	}
}

// ObserveAICall записывает длительность и исход вызова модели.
func (m *Metrics) ObserveAICall(operation, outcome string, duration time.Duration) {
	if m == nil || m.aiCalls == nil {
		return
	}
	operation = normalizeLabel(operation)
	m.aiDuration.WithLabelValues(operation).Observe(duration.Seconds())
	m.aiCalls.WithLabelValues(operation, normalizeLabel(outcome)).Inc()
}

// IncConversion считает конвертацию валюты с указанным исходом.
func (m *Metrics) IncConversion(outcome string) {
	if m == nil || m.conversions == nil {
		return
	}
	m.conversions.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return value
}
