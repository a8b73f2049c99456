// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package shell

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/dailyai/internal/assistant"
	"github.com/jeranaias/dailyai/internal/ui/styles"
	"github.com/jeranaias/dailyai/internal/util"
)

const (
	// LandingTitle heads the landing page.
	LandingTitle = "DailyAI: Your Smart Companion"
	// LandingSubtitle sits under the title.
	LandingSubtitle = "Empower your day with AI-driven tools for cooking, studying, motivation, and coding, built for students and bachelors."
)

// =============================================================================
// LANDING PAGE
// =============================================================================

// renderLanding draws the title and one card per assistant. selected is
// highlighted; Enter opens it.
func renderLanding(profiles []assistant.Profile, selected, width, height int) string {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}

	// Responsive: cards never wider than 64 columns
	cardWidth := 64
	if width-4 < cardWidth {
		cardWidth = width - 4
	}
	if cardWidth < 30 {
		cardWidth = 30
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.Cyan).
		Render(LandingTitle)

	subtitle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary).
		Width(cardWidth).
		Align(lipgloss.Center).
		Render(LandingSubtitle)

	cards := make([]string, 0, len(profiles))
	for i, p := range profiles {
		cards = append(cards, renderCard(p, i, i == selected, cardWidth))
	}

	hint := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Render(fmt.Sprintf("1-%d open  ·  up/down select  ·  tab next  ·  ctrl+c quit", len(profiles)))

	content := lipgloss.JoinVertical(lipgloss.Center,
		title,
		"",
		subtitle,
		"",
		strings.Join(cards, "\n"),
		"",
		hint,
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// renderCard draws one assistant entry in its own accent color.
func renderCard(p assistant.Profile, index int, selected bool, width int) string {
	accent := lipgloss.Color(p.Theme.Accent)

	var border lipgloss.TerminalColor = styles.Overlay
	if selected {
		border = accent
	}

	name := lipgloss.NewStyle().Bold(true).Foreground(accent).Render(fmt.Sprintf("%d  %s", index+1, p.Name))
	path := lipgloss.NewStyle().Foreground(styles.TextMuted).Render(p.Path())
	gap := width - 4 - lipgloss.Width(name) - lipgloss.Width(path)
	if gap < 1 {
		gap = 1
	}
	header := name + strings.Repeat(" ", gap) + path

	tagline := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Render(util.TruncateWidth(p.Tagline, width-4))

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(width).
		Render(header + "\n" + tagline)
}
