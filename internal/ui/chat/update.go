// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/dailyai/internal/export"
	"github.com/jeranaias/dailyai/internal/session"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		m.layout()
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case CompletionMsg:
		if msg.Assistant != "" && msg.Assistant != m.profile.Slug {
			return m, nil
		}
		// Stale results (after a reset) are dropped inside Resolve.
		m.session.Resolve(msg.Result)
		m.syncPlaceholder()
		m.refresh()
		return m, nil

	case ExportedMsg:
		if msg.Assistant != "" && msg.Assistant != m.profile.Slug {
			return m, nil
		}
		if msg.Err != nil {
			m.notice = &notice{kind: NoticeError, text: fmt.Sprintf("Export failed: %v", msg.Err)}
		} else {
			m.notice = &notice{kind: NoticeSuccess, text: "Exported to " + msg.Path}
		}
		return m, nil

	case spinner.TickMsg:
		if !m.session.Awaiting() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refresh()
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Send):
		return m.send()

	case key.Matches(msg, m.keys.Reset):
		m.session.Reset()
		m.notice = nil
		m.syncPlaceholder()
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Export):
		return m, m.exportCmd()

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.session.SetInput(m.input.Value())
	return m, cmd
}

// send begins a turn from the input box. While a response is outstanding
// the key does nothing at all: the input and the transcript stay as they are.
func (m Model) send() (tea.Model, tea.Cmd) {
	if m.session.Awaiting() {
		return m, nil
	}

	m.session.SetInput(m.input.Value())
	req, err := m.session.Begin()
	switch {
	case errors.Is(err, session.ErrEmptyInput):
		m.notice = &notice{kind: NoticeWarning, text: m.profile.EmptyInputNotice}
		return m, nil
	case err != nil:
		return m, nil
	}

	m.notice = nil
	m.input.SetValue("")
	m.syncPlaceholder()
	m.refresh()

	return m, tea.Batch(completeCmd(m.ctx, m.profile.Slug, req), m.spinner.Tick)
}

// completeCmd runs the request off the event loop.
func completeCmd(ctx context.Context, slug string, req *session.Request) tea.Cmd {
	return func() tea.Msg {
		return CompletionMsg{Assistant: slug, Result: req.Do(ctx)}
	}
}

// exportCmd writes the current transcript in the background.
func (m Model) exportCmd() tea.Cmd {
	conv := export.FromState(m.profile, m.session.Snapshot(), m.modelName)
	opts := m.exportOpts
	slug := m.profile.Slug
	return func() tea.Msg {
		path, err := export.ExportToFile(conv, export.NewMarkdownExporter(opts), opts)
		return ExportedMsg{Assistant: slug, Path: path, Err: err}
	}
}

// =============================================================================
// LAYOUT
// =============================================================================

// syncPlaceholder switches the hint once a conversation exists.
func (m *Model) syncPlaceholder() {
	m.input.Placeholder = m.profile.PlaceholderFor(len(m.session.Snapshot().Transcript))
}

// layout sizes the viewport and input to the window.
func (m *Model) layout() {
	// header + input box + notice + status bar
	chrome := 9
	if m.compact {
		chrome = 7
	}
	h := m.height - chrome
	if h < 3 {
		h = 3
	}
	w := m.width - 4
	if w < 20 {
		w = 20
	}
	m.viewport.Width = w
	m.viewport.Height = h
	m.input.Width = w - 24
}

// refresh re-renders the transcript into the viewport and scrolls to the
// bottom.
func (m *Model) refresh() {
	st := m.session.Snapshot()
	m.viewport.SetContent(Render(RenderInput{
		Theme:         m.theme,
		Messages:      st.Transcript,
		Awaiting:      st.Awaiting,
		AssistantName: m.profile.Name,
		EmptyState:    m.profile.EmptyState,
		Width:         m.viewport.Width,
		Compact:       m.compact,
		SpinnerFrame:  m.spinner.View(),
	}))
	m.viewport.GotoBottom()
}
