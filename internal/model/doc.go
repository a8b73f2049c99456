// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the chat data structures shared by every dailyai
// surface.
//
// # Key Types
//
//   - Role: message sender (user or assistant)
//   - Message: one chat bubble with role, text and timestamp
//   - Transcript: append-only ordered list of messages for a session
//
// Nothing in this package is persisted. A transcript lives exactly as long
// as the session that owns it.
//
// # Usage
//
//	var tr model.Transcript
//	tr.Append(model.NewUserMessage("Food items: rice, onion"))
//	tr.Append(model.NewAssistantMessage("Try khichdi."))
package model
