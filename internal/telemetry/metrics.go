// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package telemetry

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jeranaias/dailyai/internal/gemini"
	"github.com/jeranaias/dailyai/internal/session"
)

// Outcome labels.
const (
	OutcomeOK            = "ok"
	OutcomeEmpty         = "empty"
	OutcomeNotConfigured = "not_configured"
	OutcomeTransport     = "transport"
	OutcomeMalformed     = "malformed"
	OutcomeCanceled      = "canceled"
	OutcomeTimeout       = "timeout"
	OutcomeError         = "error"
)

// =============================================================================
// METRICS
// =============================================================================

// Metrics holds the Prometheus collectors.
type Metrics struct {
	completions    *prometheus.CounterVec
	latency        *prometheus.HistogramVec
	turns          *prometheus.CounterVec
	sessionsActive prometheus.Gauge

	usage *Usage
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg leaves them unregistered, which tests use.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		completions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "dailyai",
				Name:      "completions_total",
				Help:      "Completion calls by model and outcome.",
			},
			[]string{"model", "outcome"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "dailyai",
				Name:      "completion_duration_seconds",
				Help:      "Completion call latency distribution.",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 16, 32, 60},
			},
			[]string{"model", "outcome"},
		),
		turns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "dailyai",
				Name:      "turns_total",
				Help:      "Resolved turns by assistant and whether the fallback was shown.",
			},
			[]string{"assistant", "fallback"},
		),
		sessionsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "dailyai",
				Name:      "sessions_active",
				Help:      "Sessions currently held by the HTTP surface.",
			},
		),
		usage: NewUsage(),
	}
	if reg != nil {
		reg.MustRegister(m.completions, m.latency, m.turns, m.sessionsActive)
	}
	return m
}

// Usage returns the in-process tally fed by ObserveTurn.
func (m *Metrics) Usage() *Usage {
	return m.usage
}

// SetSessions matches session.Manager's change callback.
func (m *Metrics) SetSessions(active int) {
	m.sessionsActive.Set(float64(active))
}

// ObserveTurn matches session.WithResolveHook.
func (m *Metrics) ObserveTurn(assistant string, res session.Result) {
	fallback := "false"
	if !res.OK() {
		fallback = "true"
	}
	m.turns.WithLabelValues(norm(assistant), fallback).Inc()
	m.usage.Record(assistant, res.OK())
}

// Handler serves the registry in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Outcome classifies a completion result for the outcome label.
func Outcome(text string, err error) string {
	switch {
	case err == nil && text == "":
		return OutcomeEmpty
	case err == nil:
		return OutcomeOK
	case errors.Is(err, gemini.ErrNotConfigured):
		return OutcomeNotConfigured
	case errors.Is(err, context.Canceled):
		return OutcomeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return OutcomeTimeout
	case errors.Is(err, gemini.ErrMalformedResponse):
		return OutcomeMalformed
	case errors.Is(err, gemini.ErrTransport):
		return OutcomeTransport
	default:
		return OutcomeError
	}
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
