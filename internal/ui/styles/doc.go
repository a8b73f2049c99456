// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the DailyAI TUI.

# Palettes (colors.go)

Every assistant page is drawn from five tokens:

	Background - page background
	Accent     - title, user bubbles, borders
	Text       - body text
	Card       - chat card and code block background
	Secondary  - assistant bubbles

The four built-in palettes are ReDishTokens, QuickStudyTokens,
MotivationTokens and DebuggerTokens.

Shared semantic colors (Rose, Amber, Emerald) use AdaptiveColor so notices
read correctly on light and dark terminals.

# Themes (theme.go)

	theme := styles.NewTheme(styles.QuickStudyTokens)
	theme.SetSize(width, height)
	bubble := theme.UserBubble.Render("Topic: photosynthesis")

# Animations (animations.go)

SpinnerConfig describes frame-based spinners and converts to a bubbles
spinner.Spinner for the "Generating response..." row.
*/
package styles
