// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes one-shot copies of an assistant transcript.
//
// Exports are never read back; they are how a user keeps a conversation
// after the session that held it is gone.
//
// # Key Types
//
//   - Conversation: Transcript plus assistant and timing metadata
//   - Exporter: Format interface (Markdown, JSON, Text, HTML)
//   - Options: Output directory and per-message timestamps
//
// # Usage
//
//	conv := export.FromState(profile, sess.Snapshot(), model)
//	path, err := export.ExportToFile(conv, export.NewMarkdownExporter(nil), nil)
package export
