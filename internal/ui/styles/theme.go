// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for one assistant page.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Palette the styles were built from
	Tokens Tokens

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// PAGE STYLES
	// ==========================================================================

	App            lipgloss.Style
	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style
	Card           lipgloss.Style

	// ==========================================================================
	// MESSAGE BUBBLE STYLES
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	RoleLabel       lipgloss.Style
	Bold            lipgloss.Style
	CodeBlock       lipgloss.Style
	CodeLang        lipgloss.Style
	EmptyState      lipgloss.Style
	Generating      lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style
	ResetButton      lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// ==========================================================================
	// ACCESSIBILITY: Status indicator styles with shapes and high contrast
	// ==========================================================================

	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	MutedStyle   lipgloss.Style
}

// NewTheme creates a theme for the given palette with all styles configured.
func NewTheme(tokens Tokens) *Theme {
	colorProfile := termenv.ColorProfile()

	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
		Tokens:       tokens,
	}

	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles from the palette.
func (t *Theme) initStyles() {
	bg := lipgloss.Color(t.Tokens.Background)
	accent := lipgloss.Color(t.Tokens.Accent)
	text := lipgloss.Color(t.Tokens.Text)
	card := lipgloss.Color(t.Tokens.Card)
	secondary := lipgloss.Color(t.Tokens.Secondary)

	t.App = lipgloss.NewStyle().
		Background(bg).
		Foreground(text)

	// Header
	t.Header = lipgloss.NewStyle().
		Align(lipgloss.Center).
		Padding(1, 0, 0, 0)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(accent)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(text)

	t.Card = lipgloss.NewStyle().
		Background(card).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1)

	// Message bubbles: user rows sit right in the accent color,
	// assistant rows sit left on the secondary color.
	t.UserBubble = lipgloss.NewStyle().
		Foreground(text).
		Background(accent).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 2).
		MarginLeft(4)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(bg).
		Background(secondary).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(secondary).
		Padding(0, 2).
		MarginRight(4)

	t.RoleLabel = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Bold spans sit inside the assistant bubble and keep its colors.
	t.Bold = lipgloss.NewStyle().
		Bold(true).
		Foreground(bg).
		Background(secondary)

	t.CodeBlock = lipgloss.NewStyle().
		Background(card).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(accent).
		PaddingLeft(1)

	t.CodeLang = lipgloss.NewStyle().
		Foreground(accent).
		Italic(true)

	t.EmptyState = lipgloss.NewStyle().
		Foreground(text).
		Bold(true).
		Align(lipgloss.Center)

	t.Generating = lipgloss.NewStyle().
		Foreground(secondary).
		Italic(true)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(accent).
		Bold(true)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.ResetButton = lipgloss.NewStyle().
		Foreground(text).
		Background(accent).
		Padding(0, 1)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(accent).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	// ACCESSIBILITY: shapes accompany color in every status style
	t.SuccessStyle = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.ErrorStyle = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.WarningStyle = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	t.MutedStyle = lipgloss.NewStyle().
		Foreground(TextMuted)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// BubbleWidth returns the widest a message bubble may render.
// Bubbles take three quarters of the page, never less than 20 columns.
func (t *Theme) BubbleWidth() int {
	w := t.Width * 3 / 4
	if w < 20 {
		w = 20
	}
	return w
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)
