// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package shell

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/dailyai/internal/assistant"
	"github.com/jeranaias/dailyai/internal/session"
	"github.com/jeranaias/dailyai/internal/ui/chat"
)

// landing is the active index while the landing page is shown.
const landing = -1

// =============================================================================
// KEY MAP
// =============================================================================

// KeyMap defines the shell-level bindings.
type KeyMap struct {
	Next key.Binding
	Prev key.Binding
	Home key.Binding
	Quit key.Binding
	Up   key.Binding
	Down key.Binding
	Open key.Binding
}

// DefaultKeyMap returns the default shell bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next assistant")),
		Prev: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("S-tab", "previous assistant")),
		Home: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "home")),
		Quit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("C-c", "quit")),
		Up:   key.NewBinding(key.WithKeys("up", "k")),
		Down: key.NewBinding(key.WithKeys("down", "j")),
		Open: key.NewBinding(key.WithKeys("enter")),
	}
}

// =============================================================================
// SHELL MODEL
// =============================================================================

// Model is the root Bubble Tea model.
type Model struct {
	pages    []chat.Model
	active   int
	selected int
	keys     KeyMap

	width  int
	height int
}

// New builds the shell over one page per session, in the order given.
func New(sessions []*session.Session, opts ...chat.Option) Model {
	pages := make([]chat.Model, len(sessions))
	for i, s := range sessions {
		pages[i] = chat.New(s, opts...)
	}
	return Model{pages: pages, active: landing, keys: DefaultKeyMap()}
}

// Path returns the current route: "/" or the assistant's path.
func (m Model) Path() string {
	if m.active == landing {
		return "/"
	}
	return m.pages[m.active].Profile().Path()
}

// Navigate switches to path. "/" and "" go to the landing page; anything
// else must name an assistant (by path, slug or name).
func (m *Model) Navigate(path string) error {
	if strings.Trim(path, "/ ") == "" {
		m.show(landing)
		return nil
	}
	p, err := assistant.Lookup(path)
	if err != nil {
		return err
	}
	for i := range m.pages {
		if m.pages[i].Profile().Slug == p.Slug {
			m.show(i)
			return nil
		}
	}
	return fmt.Errorf("%w: %s has no page", assistant.ErrUnknownAssistant, p.Slug)
}

// show makes page i active and moves the input focus with it.
func (m *Model) show(i int) tea.Cmd {
	if m.active != landing {
		m.pages[m.active].Blur()
	}
	m.active = i
	if i == landing {
		return nil
	}
	m.selected = i
	return tea.Batch(m.pages[i].Focus(), m.pages[i].Init())
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init initializes the active page.
func (m Model) Init() tea.Cmd {
	if m.active == landing {
		return nil
	}
	return m.pages[m.active].Init()
}

// Update routes messages. Keys go to the active page; completions and
// exports go to the page they belong to; sizes and spinner ticks go to all.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, m.broadcast(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case chat.CompletionMsg:
		return m, m.deliver(msg.Assistant, msg)

	case chat.ExportedMsg:
		return m, m.deliver(msg.Assistant, msg)
	}

	return m, m.broadcast(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Next):
		return m, m.show((m.active + 1 + len(m.pages)) % len(m.pages))

	case key.Matches(msg, m.keys.Prev):
		if m.active == landing {
			return m, m.show(len(m.pages) - 1)
		}
		return m, m.show((m.active - 1 + len(m.pages)) % len(m.pages))

	case key.Matches(msg, m.keys.Home):
		return m, m.show(landing)
	}

	if m.active != landing {
		next, cmd := m.pages[m.active].Update(msg)
		m.pages[m.active] = next.(chat.Model)
		return m, cmd
	}

	// Landing page
	switch {
	case key.Matches(msg, m.keys.Up):
		m.selected = (m.selected - 1 + len(m.pages)) % len(m.pages)
	case key.Matches(msg, m.keys.Down):
		m.selected = (m.selected + 1) % len(m.pages)
	case key.Matches(msg, m.keys.Open):
		return m, m.show(m.selected)
	case msg.Type == tea.KeyRunes && len(msg.Runes) == 1:
		if n := int(msg.Runes[0] - '1'); n >= 0 && n < len(m.pages) {
			return m, m.show(n)
		}
		if msg.Runes[0] == 'q' {
			return m, tea.Quit
		}
	}
	return m, nil
}

// deliver sends msg to the page for slug only.
func (m *Model) deliver(slug string, msg tea.Msg) tea.Cmd {
	for i := range m.pages {
		if m.pages[i].Profile().Slug == slug {
			next, cmd := m.pages[i].Update(msg)
			m.pages[i] = next.(chat.Model)
			return cmd
		}
	}
	return nil
}

// broadcast sends msg to every page.
func (m *Model) broadcast(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.pages))
	for i := range m.pages {
		next, cmd := m.pages[i].Update(msg)
		m.pages[i] = next.(chat.Model)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// View renders the active page.
func (m Model) View() string {
	if m.active == landing {
		profiles := make([]assistant.Profile, len(m.pages))
		for i := range m.pages {
			profiles[i] = m.pages[i].Profile()
		}
		return renderLanding(profiles, m.selected, m.width, m.height)
	}
	return m.pages[m.active].View()
}
