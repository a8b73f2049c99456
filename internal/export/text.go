// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"

	"github.com/jeranaias/dailyai/internal/markup"
)

// =============================================================================
// TEXT EXPORTER
// =============================================================================

// TextExporter writes plain text with bold markers removed.
type TextExporter struct {
	options *Options
}

// NewTextExporter creates a new plain text exporter.
func NewTextExporter(opts *Options) *TextExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &TextExporter{options: opts}
}

// Export converts a conversation to plain text.
func (e *TextExporter) Export(conv *Conversation) ([]byte, error) {
	if err := conv.validate(); err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s - %s\n\n", conv.Name, formatTimestamp(conv.StartedAt)))

	for _, msg := range conv.Messages {
		label := msg.Role.DisplayName(conv.Name)
		if e.options.IncludeTimestamps && !msg.Timestamp.IsZero() {
			label = fmt.Sprintf("[%s] %s", formatShortTimestamp(msg.Timestamp), label)
		}
		sb.WriteString(label + ":\n")
		for _, line := range markup.Format(strings.TrimSpace(msg.Text)) {
			sb.WriteString("  " + line.Plain() + "\n")
		}
		sb.WriteString("\n")
	}
	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for plain text.
func (e *TextExporter) FileExtension() string {
	return ".txt"
}

// MimeType returns the MIME type for plain text.
func (e *TextExporter) MimeType() string {
	return "text/plain"
}
