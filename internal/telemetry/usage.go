// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package telemetry

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// =============================================================================
// USAGE TALLY
// =============================================================================

// AssistantUsage counts resolved turns for one assistant.
type AssistantUsage struct {
	Assistant string `json:"assistant"`
	Turns     int    `json:"turns"`
	Fallbacks int    `json:"fallbacks"`
}

// UsageSummary is a copy of the tally.
type UsageSummary struct {
	Started     time.Time        `json:"started"`
	Assistants  []AssistantUsage `json:"assistants"`
	Calls       int              `json:"calls"`
	AvgLatency  time.Duration    `json:"avg_latency"`
	TotalTurns  int              `json:"total_turns"`
	TotalFailed int              `json:"total_failed"`
}

// Usage tallies turns per assistant for the life of the process.
type Usage struct {
	mu           sync.RWMutex
	started      time.Time
	byAssistant  map[string]*AssistantUsage
	calls        int
	totalLatency time.Duration
}

// NewUsage creates an empty tally.
func NewUsage() *Usage {
	return &Usage{
		started:     time.Now(),
		byAssistant: make(map[string]*AssistantUsage),
	}
}

// Record counts one resolved turn.
func (u *Usage) Record(assistant string, ok bool) {
	u.mu.Lock()
	defer u.mu.Unlock()

	a := u.byAssistant[assistant]
	if a == nil {
		a = &AssistantUsage{Assistant: assistant}
		u.byAssistant[assistant] = a
	}
	a.Turns++
	if !ok {
		a.Fallbacks++
	}
}

func (u *Usage) addLatency(d time.Duration) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.calls++
	u.totalLatency += d
}

// Summary returns a copy of the tally, assistants sorted by name.
func (u *Usage) Summary() UsageSummary {
	u.mu.RLock()
	defer u.mu.RUnlock()

	s := UsageSummary{Started: u.started, Calls: u.calls}
	if u.calls > 0 {
		s.AvgLatency = u.totalLatency / time.Duration(u.calls)
	}
	for _, a := range u.byAssistant {
		s.Assistants = append(s.Assistants, *a)
		s.TotalTurns += a.Turns
		s.TotalFailed += a.Fallbacks
	}
	sort.Slice(s.Assistants, func(i, j int) bool {
		return s.Assistants[i].Assistant < s.Assistants[j].Assistant
	})
	return s
}

// For returns the tally for one assistant.
func (u *Usage) For(assistant string) AssistantUsage {
	u.mu.RLock()
	defer u.mu.RUnlock()
	if a := u.byAssistant[assistant]; a != nil {
		return *a
	}
	return AssistantUsage{Assistant: assistant}
}

// Line renders the status-bar form, e.g. "3 turns · 1 failed · 1.2s avg".
func (s UsageSummary) Line() string {
	line := fmt.Sprintf("%d turns", s.TotalTurns)
	if s.TotalFailed > 0 {
		line += fmt.Sprintf(" · %d failed", s.TotalFailed)
	}
	if s.Calls > 0 {
		line += fmt.Sprintf(" · %.1fs avg", s.AvgLatency.Seconds())
	}
	return line
}
