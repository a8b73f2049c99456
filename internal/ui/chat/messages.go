// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/dailyai/internal/session"
)

// =============================================================================
// MESSAGES
// =============================================================================

// CompletionMsg carries a finished completion back to the event loop.
// Assistant routes it to the right page when several are alive.
type CompletionMsg struct {
	Assistant string
	Result    session.Result
}

// ExportedMsg reports the outcome of an export.
type ExportedMsg struct {
	Assistant string
	Path      string
	Err       error
}

// NoticeKind selects the notice style.
type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeSuccess
	NoticeWarning
	NoticeError
)

// notice is the one-line message under the chat card.
type notice struct {
	kind NoticeKind
	text string
}
