// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/dailyai/internal/markup"
	"github.com/jeranaias/dailyai/internal/model"
	"github.com/jeranaias/dailyai/internal/ui/styles"
	"github.com/jeranaias/dailyai/internal/util"
)

// GeneratingText is the row shown under the transcript while awaiting.
const GeneratingText = "Generating response..."

// RenderInput is everything Render needs. It holds no references back
// into the session.
type RenderInput struct {
	Theme         *styles.Theme
	Messages      []model.Message
	Awaiting      bool
	AssistantName string
	EmptyState    string
	Width         int
	Compact       bool
	// SpinnerFrame precedes the generating row, if set.
	SpinnerFrame string
}

// Render draws the chat card body: one row per message in order, then the
// generating row when awaiting. With no messages and nothing pending it
// draws the empty-state label instead.
func Render(in RenderInput) string {
	theme := in.Theme
	if theme == nil {
		theme = styles.NewTheme(styles.ReDishTokens)
	}
	width := in.Width
	if width <= 0 {
		width = 80
	}
	bubbleWidth := width * 3 / 4
	if bubbleWidth < 20 {
		bubbleWidth = 20
	}

	if len(in.Messages) == 0 && !in.Awaiting {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.EmptyState.Render(in.EmptyState))
	}

	rows := make([]string, 0, len(in.Messages)+1)
	for _, msg := range in.Messages {
		switch msg.Role {
		case model.RoleUser:
			rows = append(rows, renderUser(theme, msg.Text, width, bubbleWidth))
		default:
			rows = append(rows, renderAssistant(theme, msg.Text, bubbleWidth))
		}
	}

	if in.Awaiting {
		row := theme.Generating.Render(GeneratingText)
		if in.SpinnerFrame != "" {
			row = theme.Generating.Render(in.SpinnerFrame) + " " + row
		}
		rows = append(rows, row)
	}

	sep := "\n\n"
	if in.Compact {
		sep = "\n"
	}
	return strings.Join(rows, sep)
}

// renderUser draws the user's bubble flush right. User text is shown as
// typed; bold markers are not interpreted.
func renderUser(theme *styles.Theme, text string, width, bubbleWidth int) string {
	bubble := theme.UserBubble.MarginLeft(0).
		Width(fitWidth(strings.Split(text, "\n"), bubbleWidth)).
		Render(text)
	return lipgloss.PlaceHorizontal(width, lipgloss.Right, bubble)
}

// renderAssistant draws the assistant's bubble flush left: prose through
// the bold-marker formatter, fenced code through the highlighter.
func renderAssistant(theme *styles.Theme, text string, bubbleWidth int) string {
	var parts []string
	for _, block := range markup.Blocks(text) {
		if block.Kind == markup.BlockCode {
			parts = append(parts, renderCodeBlock(theme, block.Lang, block.Body, bubbleWidth))
			continue
		}

		lines := markup.Format(block.Body)
		plain := make([]string, len(lines))
		styled := make([]string, len(lines))
		for i, line := range lines {
			plain[i] = line.Plain()
			styled[i] = line.Render(func(s string) string { return theme.Bold.Render(s) })
		}
		if strings.TrimSpace(strings.Join(plain, "")) == "" && len(parts) > 0 {
			continue
		}
		parts = append(parts, theme.AssistantBubble.MarginRight(0).
			Width(fitWidth(plain, bubbleWidth)).
			Render(strings.Join(styled, "\n")))
	}
	if len(parts) == 0 {
		// An empty reply still gets its bubble.
		parts = append(parts, theme.AssistantBubble.MarginRight(0).Render(""))
	}
	return strings.Join(parts, "\n")
}

// fitWidth sizes a bubble to its longest line plus padding, capped at max.
// lipgloss wraps anything longer.
func fitWidth(lines []string, max int) int {
	widest := 0
	for _, l := range lines {
		if w := util.StringWidth(l); w > widest {
			widest = w
		}
	}
	// Padding(0, 2) on both bubble styles
	w := widest + 4
	if w > max {
		w = max
	}
	return w
}
