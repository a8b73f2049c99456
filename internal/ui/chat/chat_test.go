// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"os"
	"regexp"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/dailyai/internal/assistant"
	"github.com/jeranaias/dailyai/internal/export"
	"github.com/jeranaias/dailyai/internal/model"
	"github.com/jeranaias/dailyai/internal/session"
	"github.com/jeranaias/dailyai/internal/ui/styles"
)

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func plain(s string) string { return ansiRe.ReplaceAllString(s, "") }

type fakeCompleter struct {
	text    string
	prompts []string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.text, nil
}

// =============================================================================
// RENDER
// =============================================================================

func renderInput(msgs ...model.Message) RenderInput {
	return RenderInput{
		Theme:         styles.NewTheme(styles.ReDishTokens),
		Messages:      msgs,
		AssistantName: "ReDish",
		EmptyState:    "Enter ingredients to get recipes.",
		Width:         80,
	}
}

func TestRender_EmptyState(t *testing.T) {
	out := plain(Render(renderInput()))
	require.Contains(t, out, "Enter ingredients to get recipes.")
	require.NotContains(t, out, GeneratingText)
}

func TestRender_OrderAndAlignment(t *testing.T) {
	out := plain(Render(renderInput(
		model.Message{Role: model.RoleUser, Text: "Food items: rice, onion"},
		model.Message{Role: model.RoleAssistant, Text: "Try khichdi."},
	)))

	ui := strings.Index(out, "Food items: rice, onion")
	ai := strings.Index(out, "Try khichdi.")
	require.True(t, ui >= 0 && ai > ui, out)
	require.NotContains(t, out, "Enter ingredients")

	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "Food items") {
			require.True(t, strings.HasPrefix(line, "     "), "user row should be right-aligned: %q", line)
		}
		if strings.Contains(line, "Try khichdi.") {
			require.False(t, strings.HasPrefix(line, "     "), "assistant row should be left-aligned: %q", line)
		}
	}
}

func TestRender_BoldMarkers(t *testing.T) {
	out := plain(Render(renderInput(model.Message{Role: model.RoleAssistant, Text: "a **b** c"})))
	require.Contains(t, out, "a b c")
	require.NotContains(t, out, "**")

	out = plain(Render(renderInput(model.Message{Role: model.RoleAssistant, Text: "a **b c"})))
	require.Contains(t, out, "a **b c")
}

func TestRender_UserTextIsLiteral(t *testing.T) {
	out := plain(Render(renderInput(model.Message{Role: model.RoleUser, Text: "Topic: **bold**"})))
	require.Contains(t, out, "Topic: **bold**")
}

func TestRender_GeneratingRow(t *testing.T) {
	in := renderInput(model.Message{Role: model.RoleUser, Text: "Topic: cells"})
	in.Awaiting = true
	in.SpinnerFrame = "..."
	out := plain(Render(in))
	require.Contains(t, out, GeneratingText)
	require.Greater(t, strings.Index(out, GeneratingText), strings.Index(out, "Topic: cells"))

	// Awaiting with an empty transcript still shows the row, not the empty state.
	in = renderInput()
	in.Awaiting = true
	out = plain(Render(in))
	require.Contains(t, out, GeneratingText)
	require.NotContains(t, out, "Enter ingredients")
}

func TestRender_CodeBlock(t *testing.T) {
	text := "Fixed:\n```go\nfmt.Println(\"hi\")\n```\nDone."
	out := plain(Render(renderInput(model.Message{Role: model.RoleAssistant, Text: text})))
	require.Contains(t, out, "Fixed:")
	require.Contains(t, out, "go")
	require.Contains(t, out, "Println")
	require.Contains(t, out, "Done.")
	require.NotContains(t, out, "```")
}

func TestRender_Compact(t *testing.T) {
	msgs := []model.Message{
		{Role: model.RoleAssistant, Text: "one"},
		{Role: model.RoleAssistant, Text: "two"},
	}
	loose := renderInput(msgs...)
	tight := renderInput(msgs...)
	tight.Compact = true
	require.Less(t, strings.Count(Render(tight), "\n"), strings.Count(Render(loose), "\n"))
}

// =============================================================================
// MODEL
// =============================================================================

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return next.(Model)
}

func press(m Model, kt tea.KeyType) (Model, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: kt})
	return next.(Model), cmd
}

// completion runs cmd and digs the CompletionMsg out of a batch.
func completion(t *testing.T, cmd tea.Cmd) CompletionMsg {
	t.Helper()
	require.NotNil(t, cmd)
	switch msg := cmd().(type) {
	case CompletionMsg:
		return msg
	case tea.BatchMsg:
		for _, c := range msg {
			if c == nil {
				continue
			}
			if cm, ok := c().(CompletionMsg); ok {
				return cm
			}
		}
	}
	t.Fatal("no CompletionMsg in command")
	return CompletionMsg{}
}

func TestModel_FirstTurn(t *testing.T) {
	fc := &fakeCompleter{text: "Try khichdi."}
	sess := session.New(assistant.ReDish, fc)
	m := New(sess)
	require.Equal(t, assistant.ReDish.Placeholder, m.input.Placeholder)

	m = typeText(t, m, "rice, onion")
	m, cmd := press(m, tea.KeyEnter)

	st := sess.Snapshot()
	require.True(t, st.Awaiting)
	require.Len(t, st.Transcript, 1)
	require.Equal(t, "Food items: rice, onion", st.Transcript[0].Text)
	require.Empty(t, m.input.Value())
	require.Contains(t, plain(m.viewport.View()), GeneratingText)

	next, _ := m.Update(completion(t, cmd))
	m = next.(Model)

	st = sess.Snapshot()
	require.False(t, st.Awaiting)
	require.Len(t, st.Transcript, 2)
	require.Equal(t, "Try khichdi.", st.Transcript[1].Text)
	require.Equal(t, assistant.ReDish.FollowUpPlaceholder, m.input.Placeholder)
	require.NotContains(t, plain(m.viewport.View()), GeneratingText)
}

func TestModel_SendWhileAwaitingIsIgnored(t *testing.T) {
	sess := session.New(assistant.QuickStudy, &fakeCompleter{text: "ok"})
	m := New(sess)

	m = typeText(t, m, "cells")
	m, cmd := press(m, tea.KeyEnter)
	require.NotNil(t, cmd)

	m = typeText(t, m, "more")
	m, cmd2 := press(m, tea.KeyEnter)
	require.Nil(t, cmd2)
	require.Equal(t, "more", m.input.Value())
	require.Len(t, sess.Snapshot().Transcript, 1)

	_, _ = m.Update(completion(t, cmd))
	require.Len(t, sess.Snapshot().Transcript, 2)
}

func TestModel_EmptyInputNotice(t *testing.T) {
	sess := session.New(assistant.QuickStudy, &fakeCompleter{text: "ok"})
	m := New(sess)

	m = typeText(t, m, "   ")
	m, cmd := press(m, tea.KeyEnter)
	require.Nil(t, cmd)
	require.Empty(t, sess.Snapshot().Transcript)
	require.Contains(t, plain(m.View()), assistant.QuickStudy.EmptyInputNotice)
}

func TestModel_ResetDropsLateResponse(t *testing.T) {
	sess := session.New(assistant.CodeDebugger, &fakeCompleter{text: "late"})
	m := New(sess)

	m = typeText(t, m, "panic: nil map")
	m, cmd := press(m, tea.KeyEnter)
	m, _ = press(m, tea.KeyCtrlN)
	require.Empty(t, sess.Snapshot().Transcript)

	next, _ := m.Update(completion(t, cmd))
	m = next.(Model)
	require.Empty(t, sess.Snapshot().Transcript)
	require.Equal(t, assistant.CodeDebugger.Placeholder, m.input.Placeholder)
	require.Contains(t, plain(m.viewport.View()), assistant.CodeDebugger.EmptyState)
}

func TestModel_IgnoresOtherAssistantsCompletions(t *testing.T) {
	sess := session.New(assistant.ReDish, &fakeCompleter{text: "ok"})
	m := New(sess)
	m = typeText(t, m, "rice")
	m, cmd := press(m, tea.KeyEnter)

	msg := completion(t, cmd)
	msg.Assistant = "quickstudy"
	next, _ := m.Update(msg)
	m = next.(Model)
	require.True(t, sess.Awaiting())
}

func TestModel_Export(t *testing.T) {
	dir := t.TempDir()
	sess := session.New(assistant.OneClickMotivation, &fakeCompleter{text: "You can do it."})
	m := New(sess, WithExportOptions(&export.Options{OutputDir: dir}))

	_, err := sess.Exchange(context.Background(), "tired")
	require.NoError(t, err)

	m, cmd := press(m, tea.KeyCtrlE)
	require.NotNil(t, cmd)
	msg, ok := cmd().(ExportedMsg)
	require.True(t, ok)
	require.NoError(t, msg.Err)
	_, err = os.Stat(msg.Path)
	require.NoError(t, err)

	next, _ := m.Update(msg)
	require.Contains(t, plain(next.(Model).View()), "Exported to")
}

func TestModel_View(t *testing.T) {
	m := New(session.New(assistant.QuickStudy, nil), WithModelName("gemini-1.5-flash-latest"))
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	out := plain(next.(Model).View())
	require.Contains(t, out, "QuickStudy")
	require.Contains(t, out, "Start new chat")
	require.Contains(t, out, "gemini-1.5-flash-latest")
	require.Contains(t, out, assistant.QuickStudy.EmptyState)
}
