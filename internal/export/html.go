// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/jeranaias/dailyai/internal/markup"
	"github.com/jeranaias/dailyai/internal/model"
	"github.com/jeranaias/dailyai/internal/ui/styles"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter exports conversations to a standalone page colored with
// the assistant's palette.
type HTMLExporter struct {
	options *Options
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{options: opts}
}

// Export converts a conversation to HTML format.
func (e *HTMLExporter) Export(conv *Conversation) ([]byte, error) {
	if err := conv.validate(); err != nil {
		return nil, err
	}

	var sb strings.Builder

	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString("<html lang=\"en\">\n")
	sb.WriteString("<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", html.EscapeString(conv.Name)))
	sb.WriteString("    <meta name=\"generator\" content=\"dailyai\">\n")
	sb.WriteString(e.getCSS(conv.Theme))
	sb.WriteString("</head>\n")
	sb.WriteString("<body>\n")
	sb.WriteString("    <div class=\"container\">\n")

	sb.WriteString("        <header class=\"header\">\n")
	sb.WriteString(fmt.Sprintf("            <h1>%s</h1>\n", html.EscapeString(conv.Name)))
	sb.WriteString(fmt.Sprintf("            <div class=\"metadata\">%s · %d messages</div>\n",
		formatTimestamp(conv.StartedAt), len(conv.Messages)))
	sb.WriteString("        </header>\n")

	sb.WriteString("        <main class=\"conversation\">\n")
	for _, msg := range conv.Messages {
		sb.WriteString(e.renderMessage(msg, conv.Name))
	}
	sb.WriteString("        </main>\n")

	sb.WriteString("        <footer class=\"footer\">\n")
	sb.WriteString(fmt.Sprintf("            <p>Exported from <strong>DailyAI</strong> on %s</p>\n",
		conv.ExportedAt.Format("January 2, 2006 at 3:04 PM")))
	sb.WriteString("        </footer>\n")
	sb.WriteString("    </div>\n")
	sb.WriteString("</body>\n")
	sb.WriteString("</html>\n")

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// MimeType returns the MIME type for HTML.
func (e *HTMLExporter) MimeType() string {
	return "text/html"
}

// =============================================================================
// RENDERING FUNCTIONS
// =============================================================================

// renderMessage renders a single bubble.
func (e *HTMLExporter) renderMessage(msg model.Message, assistantName string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("            <div class=\"message %s-message\">\n", html.EscapeString(msg.Role.String())))
	sb.WriteString("                <div class=\"message-header\">\n")
	sb.WriteString(fmt.Sprintf("                    <span class=\"role-label\">%s</span>\n",
		html.EscapeString(msg.Role.DisplayName(assistantName))))
	if e.options.IncludeTimestamps && !msg.Timestamp.IsZero() {
		sb.WriteString(fmt.Sprintf("                    <span class=\"timestamp\">%s</span>\n", formatShortTimestamp(msg.Timestamp)))
	}
	sb.WriteString("                </div>\n")
	sb.WriteString("                <div class=\"message-content\">")
	sb.WriteString(formatContent(msg.Text))
	sb.WriteString("</div>\n")
	sb.WriteString("            </div>\n")

	return sb.String()
}

// formatContent renders prose through the bold-marker formatter and fenced
// code verbatim. Everything is escaped.
func formatContent(content string) string {
	var sb strings.Builder
	for _, block := range markup.Blocks(content) {
		if block.Kind == markup.BlockCode {
			langLabel := ""
			if block.Lang != "" {
				// SECURITY: the info string is user-influenced
				langLabel = fmt.Sprintf("<div class=\"code-lang\">%s</div>", html.EscapeString(block.Lang))
			}
			sb.WriteString(fmt.Sprintf("<div class=\"code-block\">%s<pre><code class=\"language-%s\">%s</code></pre></div>",
				langLabel, html.EscapeString(block.Lang), html.EscapeString(block.Body)))
			continue
		}
		sb.WriteString(markup.HTML(block.Body))
	}
	return sb.String()
}

// =============================================================================
// EMBEDDED CSS
// =============================================================================

// getCSS returns the embedded stylesheet. Missing tokens fall back to the
// ReDish palette.
func (e *HTMLExporter) getCSS(t styles.Tokens) string {
	if t.Validate() != nil {
		t = styles.ReDishTokens
	}
	return fmt.Sprintf(`    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        :root {
            --bg: %s;
            --accent: %s;
            --text: %s;
            --card: %s;
            --secondary: %s;
            --font-sans: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
            --font-mono: "SF Mono", "Monaco", "Inconsolata", "Fira Code", monospace;
        }
        body { background: var(--bg); color: var(--text); font-family: var(--font-sans); line-height: 1.6; }
        .container { max-width: 900px; margin: 0 auto; padding: 32px 16px; }
        .header { text-align: center; margin-bottom: 24px; }
        .header h1 { color: var(--text); }
        .metadata { opacity: 0.7; font-size: 0.9em; }
        .conversation { background: var(--card); border-radius: 12px; padding: 16px; display: flex; flex-direction: column; gap: 12px; }
        .message { max-width: 75%%; padding: 10px 14px; border-radius: 12px; }
        .user-message { align-self: flex-end; background: var(--accent); color: var(--text); }
        .assistant-message { align-self: flex-start; background: var(--secondary); color: var(--bg); }
        .message-header { display: flex; justify-content: space-between; gap: 12px; font-size: 0.8em; opacity: 0.8; }
        .role-label { font-weight: 600; }
        .message-content p { min-height: 1em; }
        .code-block { margin: 8px 0; }
        .code-lang { font-size: 0.75em; opacity: 0.7; }
        pre { background: var(--bg); color: var(--text); padding: 10px; border-radius: 8px; overflow-x: auto; font-family: var(--font-mono); }
        .footer { text-align: center; margin-top: 24px; opacity: 0.6; font-size: 0.85em; }
    </style>
`, t.Background, t.Accent, t.Text, t.Card, t.Secondary)
}
