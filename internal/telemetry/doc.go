// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package telemetry provides completion metrics and usage tallies for DailyAI.
//
// Metrics are Prometheus collectors registered on a caller-supplied
// registry and served by the HTTP surface on /metrics. Usage is an
// in-memory per-assistant tally the terminal surfaces show in the status bar.
//
// # Key Types
//
//   - Metrics: Prometheus collectors for completions, turns and sessions
//   - Usage: Per-assistant turn counts and latency for the current process
//
// # Usage
//
// Instrument the completer and the sessions:
//
//	m := telemetry.NewMetrics(reg)
//	completer = m.Instrument(completer, model)
//	mgr.SetChangeCallback(m.SetSessions)
//	session.WithResolveHook(m.ObserveTurn)
//
// # Privacy
//
// Nothing here leaves the process unless /metrics is scraped.
// Prompt and response text is never recorded, only counts and timings.
package telemetry
