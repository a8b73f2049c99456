// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the assistant page for the DailyAI TUI.

One Model drives one session.Session. All four assistants share this
package; everything that differs between them comes from the session's
assistant.Profile.

# Key Components

## Render (render.go)

Render is a pure function from a transcript snapshot to the chat card:
  - User bubbles right-aligned in the accent color
  - Assistant bubbles left-aligned on the secondary color, with **bold**
    markers applied and fenced code syntax-highlighted
  - A trailing "Generating response..." row while awaiting
  - The profile's empty-state label when there is nothing to show

## Model (model.go, update.go)

The Bubble Tea model binds a textinput, a viewport and a spinner to the
session. The completion runs in a tea.Cmd and comes back as a
CompletionMsg, which Update applies through Session.Resolve on the event
loop. A response that arrives after "Start new chat" carries a stale
generation and is dropped.

# Key Bindings

	Enter / Ctrl+S   send
	Ctrl+N           start new chat
	Ctrl+E           export transcript
	PgUp / PgDn      scroll
*/
package chat
