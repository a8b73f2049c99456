// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/dailyai/internal/ui/styles"
	"github.com/jeranaias/dailyai/internal/util"
)

// View renders the page.
func (m Model) View() string {
	parts := []string{
		m.renderHeader(),
		m.theme.Card.Width(m.viewport.Width + 2).Render(m.viewport.View()),
		m.renderNotice(),
		m.renderInput(),
		m.renderStatusBar(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderHeader renders the page title and subtitle.
func (m Model) renderHeader() string {
	lines := []string{m.theme.HeaderTitle.Render(m.profile.Name)}
	if !m.compact && m.profile.Subtitle != "" {
		lines = append(lines, m.theme.HeaderSubtitle.Render(
			util.TruncateWidth(m.profile.Subtitle, m.width-2)))
	}
	return m.theme.Header.Width(m.width).Render(strings.Join(lines, "\n"))
}

// renderNotice renders the one-line notice, or a blank line.
// ACCESSIBILITY: Each kind carries a text indicator as well as a color.
func (m Model) renderNotice() string {
	if m.notice == nil {
		return ""
	}
	switch m.notice.kind {
	case NoticeSuccess:
		return m.theme.SuccessStyle.Render(styles.StatusIndicators.Success + " " + m.notice.text)
	case NoticeWarning:
		return m.theme.WarningStyle.Render(styles.StatusIndicators.Warning + " " + m.notice.text)
	case NoticeError:
		return m.theme.ErrorStyle.Render(styles.StatusIndicators.Error + " " + m.notice.text)
	default:
		return m.theme.MutedStyle.Render(styles.StatusIndicators.Info + " " + m.notice.text)
	}
}

// renderInput renders the input box with the reset button beside it.
func (m Model) renderInput() string {
	box := m.theme.InputContainer.Render(m.input.View())
	reset := m.theme.ResetButton.Render("Start new chat")
	return lipgloss.JoinHorizontal(lipgloss.Center, box, " ", reset)
}

// renderStatusBar renders shortcuts on the left and model/usage on the right.
func (m Model) renderStatusBar() string {
	var shortcuts []string
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		shortcuts = append(shortcuts, m.theme.ShortcutKey.Render(h.Key)+" "+m.theme.ShortcutDesc.Render(h.Desc))
	}
	left := strings.Join(shortcuts, "  ")

	var info []string
	if m.session.Awaiting() {
		info = append(info, styles.StatusIndicators.Pending+" waiting")
	}
	if m.modelName != "" {
		info = append(info, m.modelName)
	}
	if m.usage != nil {
		info = append(info, m.usage.Summary().Line())
	}
	right := m.theme.MutedStyle.Render(strings.Join(info, " · "))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		return m.theme.StatusBar.Render(left)
	}
	return m.theme.StatusBar.Render(left + strings.Repeat(" ", gap) + right)
}
