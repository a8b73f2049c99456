// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/dailyai/internal/assistant"
	"github.com/jeranaias/dailyai/internal/export"
	"github.com/jeranaias/dailyai/internal/session"
	"github.com/jeranaias/dailyai/internal/telemetry"
	"github.com/jeranaias/dailyai/internal/ui/styles"
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for one assistant page.
//
// The session is shared by pointer, so copies of Model made by Bubble Tea
// all see the same conversation.
type Model struct {
	session *session.Session
	profile assistant.Profile
	theme   *styles.Theme
	keys    KeyMap

	// ctx bounds every completion this page starts.
	ctx context.Context

	// UI Components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	// Dimensions
	width  int
	height int

	// Options
	compact    bool
	modelName  string
	exportOpts *export.Options
	usage      *telemetry.Usage

	notice *notice
}

// Option configures a Model.
type Option func(*Model)

// WithContext sets the parent context of every completion request.
func WithContext(ctx context.Context) Option {
	return func(m *Model) { m.ctx = ctx }
}

// WithCompact drops the subtitle and the blank rows between bubbles.
func WithCompact(compact bool) Option {
	return func(m *Model) { m.compact = compact }
}

// WithModelName shows the model id in the status bar and in exports.
func WithModelName(name string) Option {
	return func(m *Model) { m.modelName = name }
}

// WithExportOptions overrides where Ctrl+E writes.
func WithExportOptions(opts *export.Options) Option {
	return func(m *Model) { m.exportOpts = opts }
}

// WithUsage shows the process usage tally in the status bar.
func WithUsage(u *telemetry.Usage) Option {
	return func(m *Model) { m.usage = u }
}

// New creates the page for sess.
func New(sess *session.Session, opts ...Option) Model {
	profile := sess.Profile()

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 4096
	ti.SetValue(sess.Input())
	ti.Focus()

	vp := viewport.New(80, 20)

	sp := spinner.New()
	sp.Spinner = styles.DotsSpinner.Spinner()

	m := Model{
		session:  sess,
		profile:  profile,
		theme:    styles.NewTheme(profile.Theme),
		keys:     DefaultKeyMap(),
		ctx:      context.Background(),
		viewport: vp,
		input:    ti,
		spinner:  sp,
		width:    80,
		height:   24,
	}
	for _, opt := range opts {
		opt(&m)
	}

	m.theme.SetSize(m.width, m.height)
	m.input.Prompt = m.theme.InputPrompt.Render("> ")
	m.input.PlaceholderStyle = m.theme.InputPlaceholder
	m.syncPlaceholder()
	m.layout()
	m.refresh()
	return m
}

// Session returns the session this page drives.
func (m Model) Session() *session.Session {
	return m.session
}

// Profile returns the assistant profile.
func (m Model) Profile() assistant.Profile {
	return m.profile
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts the cursor blink, and the spinner if a turn is already
// outstanding (the page was re-entered while awaiting).
func (m Model) Init() tea.Cmd {
	if m.session.Awaiting() {
		return tea.Batch(textinput.Blink, m.spinner.Tick)
	}
	return textinput.Blink
}

// Focus gives the input the cursor.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}

// Blur removes the cursor from the input.
func (m *Model) Blur() {
	m.input.Blur()
}
