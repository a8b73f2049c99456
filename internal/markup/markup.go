// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package markup turns raw completion text into display lines.
//
// The transform is presentational only. The text stored in a transcript is
// never rewritten; every surface (terminal, REPL, HTTP) formats on the way
// out.
//
// Two constructs are recognised:
//   - **bold** markers inside a line, paired leftmost-shortest
//   - ``` fenced code blocks, so code answers can be highlighted
//
// An unpaired ** is left exactly as written.
package markup

import "strings"

// boldMarker delimits emphasized text inside a line.
const boldMarker = "**"

// fenceMarker opens and closes a code block.
const fenceMarker = "```"

// =============================================================================
// LINES AND SPANS
// =============================================================================

// Span is a run of text with uniform emphasis.
type Span struct {
	Text string `json:"text"`
	Bold bool   `json:"bold,omitempty"`
}

// Line is one newline-delimited line of formatted text.
type Line []Span

// Plain returns the line's text with markers removed.
func (l Line) Plain() string {
	var sb strings.Builder
	for _, s := range l {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// Render joins the spans, passing bold spans through bold.
func (l Line) Render(bold func(string) string) string {
	var sb strings.Builder
	for _, s := range l {
		if s.Bold && bold != nil {
			sb.WriteString(bold(s.Text))
			continue
		}
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// Format splits text on newlines and resolves bold markers in each line.
// Markers never pair across lines.
func Format(text string) []Line {
	raw := strings.Split(text, "\n")
	lines := make([]Line, 0, len(raw))
	for _, l := range raw {
		lines = append(lines, FormatLine(strings.TrimSuffix(l, "\r")))
	}
	return lines
}

// FormatLine resolves bold markers in a single line.
//
// Each ** is paired with the nearest following **; the text between becomes
// a bold span. A trailing ** with no partner, and everything after it, stays
// literal text.
func FormatLine(line string) Line {
	var out Line
	plain := func(s string) {
		if s == "" {
			return
		}
		// Merge adjacent plain spans so unmatched markers read as one run
		if n := len(out); n > 0 && !out[n-1].Bold {
			out[n-1].Text += s
			return
		}
		out = append(out, Span{Text: s})
	}

	rest := line
	for {
		open := strings.Index(rest, boldMarker)
		if open < 0 {
			plain(rest)
			break
		}
		afterOpen := rest[open+len(boldMarker):]
		closeIdx := strings.Index(afterOpen, boldMarker)
		if closeIdx < 0 {
			plain(rest)
			break
		}
		plain(rest[:open])
		if inner := afterOpen[:closeIdx]; inner != "" {
			out = append(out, Span{Text: inner, Bold: true})
		}
		rest = afterOpen[closeIdx+len(boldMarker):]
	}

	if out == nil {
		out = Line{}
	}
	return out
}

// HTML renders text the way the original web pages did: one <p> per line
// with <b> around emphasized spans. Text is escaped.
func HTML(text string) string {
	var sb strings.Builder
	for _, line := range Format(text) {
		sb.WriteString("<p>")
		for _, span := range line {
			if span.Bold {
				sb.WriteString("<b>" + escapeHTML(span.Text) + "</b>")
				continue
			}
			sb.WriteString(escapeHTML(span.Text))
		}
		sb.WriteString("</p>")
	}
	return sb.String()
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&#34;",
	"'", "&#39;",
)

func escapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}
