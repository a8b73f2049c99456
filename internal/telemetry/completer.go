// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package telemetry

import (
	"context"
	"time"

	"github.com/jeranaias/dailyai/internal/gemini"
)

// instrumented wraps a Completer with call metrics.
type instrumented struct {
	next  gemini.Completer
	model string
	m     *Metrics
	now   func() time.Time
}

// Instrument returns a Completer that records every call on m.
func (m *Metrics) Instrument(next gemini.Completer, model string) gemini.Completer {
	return &instrumented{next: next, model: norm(model), m: m, now: time.Now}
}

func (c *instrumented) Complete(ctx context.Context, prompt string) (string, error) {
	start := c.now()
	text, err := c.next.Complete(ctx, prompt)
	elapsed := c.now().Sub(start)

	outcome := Outcome(text, err)
	c.m.completions.WithLabelValues(c.model, outcome).Inc()
	c.m.latency.WithLabelValues(c.model, outcome).Observe(elapsed.Seconds())
	c.m.usage.addLatency(elapsed)
	return text, err
}
