// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session implements the prompt session controller.
//
// A Session owns one assistant conversation: the transcript, the turn index
// that picks the prompt template, the pending input and the awaiting flag.
// It has two states:
//
//	Idle --Begin--> AwaitingResponse --Resolve--> Idle
//
// Begin is rejected while awaiting (ErrBusy) and for blank input
// (ErrEmptyInput). Resolve always appends exactly one assistant message,
// the completion or FallbackText.
//
// # Reset and stale responses
//
// Reset returns the session to Idle at any time. Every request is stamped
// with the session generation when it begins; Reset bumps the generation
// and cancels the request context, and a result carrying an old generation
// is discarded by Resolve instead of landing in the fresh transcript.
//
// # Driving a session
//
// Event-loop surfaces split the turn so the blocking call runs off the loop:
//
//	req, err := s.Begin()         // on the loop
//	res := req.Do(ctx)            // in a goroutine / tea.Cmd
//	s.Resolve(res)                // back on the loop
//
// Everything else uses Exchange (synchronous) or Send (asynchronous).
//
// # Manager
//
// Manager keeps sessions by uuid for the HTTP surface and evicts the ones
// idle past their TTL.
package session
