// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the DailyAI TUI.
// Shared semantic colors use Lip Gloss AdaptiveColor for automatic
// light/dark detection; each assistant brings its own fixed palette.
package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// ASSISTANT PALETTES
// =============================================================================

// Tokens is the five-color palette that gives an assistant its look.
// Values are #RRGGBB hex strings.
type Tokens struct {
	Background string `json:"bg"`
	Accent     string `json:"accent"`
	Text       string `json:"text"`
	Card       string `json:"card"`
	Secondary  string `json:"secondary"`
}

// Validate reports the first token that is not a #RRGGBB color.
func (t Tokens) Validate() error {
	for name, v := range map[string]string{
		"bg":        t.Background,
		"accent":    t.Accent,
		"text":      t.Text,
		"card":      t.Card,
		"secondary": t.Secondary,
	} {
		if !isHexColor(v) {
			return fmt.Errorf("theme token %s: %q is not a #RRGGBB color", name, v)
		}
	}
	return nil
}

func isHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	return strings.Trim(strings.ToLower(s[1:]), "0123456789abcdef") == ""
}

// Olive greens for the kitchen helper.
var ReDishTokens = Tokens{
	Background: "#1E201E",
	Accent:     "#758570",
	Text:       "#ECDFCC",
	Card:       "#262926",
	Secondary:  "#E3D7C7",
}

// Slate blues for the study assistant.
var QuickStudyTokens = Tokens{
	Background: "#1F2633",
	Accent:     "#5A7C9B",
	Text:       "#DCE5F2",
	Card:       "#2A3342",
	Secondary:  "#C7D1E0",
}

// Warm ambers for the motivation coach.
var MotivationTokens = Tokens{
	Background: "#2E1F14",
	Accent:     "#D97706",
	Text:       "#F9E8D9",
	Card:       "#3A2A1E",
	Secondary:  "#F4D3A8",
}

// Violets for the code fixer.
var DebuggerTokens = Tokens{
	Background: "#1A1C2C",
	Accent:     "#7C3AED",
	Text:       "#E0E7FF",
	Card:       "#242638",
	Secondary:  "#C4B5FD",
}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Rose - Errors, critical alerts
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// Amber - Warnings, notices
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// Emerald - Success states
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// Cyan - Brand color on the landing page
var Cyan = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}

// =============================================================================
// TEXT COLORS
// =============================================================================

// TextPrimary - Main body text outside an assistant page
var TextPrimary = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#CDD6F4"}

// TextSecondary - Labels, less prominent text
var TextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#A6ADC8"}

// TextMuted - Hints, timestamps, very subtle text
var TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6C7086"}

// Overlay - Borders, separators
var Overlay = lipgloss.AdaptiveColor{Light: "#E5E5E5", Dark: "#313244"}

// =============================================================================
// ACCESSIBILITY
// =============================================================================

// StatusIndicatorSet contains text/shape indicators for status states.
// These symbols provide visual cues beyond color for colorblind accessibility.
type StatusIndicatorSet struct {
	Success string
	Error   string
	Warning string
	Info    string
	Pending string
}

// StatusIndicators provides accessible shape/text indicators alongside colors.
// ACCESSIBILITY: ASCII-only indicators for maximum compatibility.
var StatusIndicators = StatusIndicatorSet{
	Success: "[OK]",
	Error:   "[X]",
	Warning: "[!]",
	Info:    "[i]",
	Pending: "[ ]",
}
