// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jeranaias/dailyai/internal/assistant"
	"github.com/jeranaias/dailyai/internal/gemini"
	"github.com/jeranaias/dailyai/internal/util"
)

// ErrNotFound indicates no session has the given id.
var ErrNotFound = errors.New("session not found")

// =============================================================================
// SESSION MANAGER
// =============================================================================

// ManagerConfig holds configuration for the session manager.
type ManagerConfig struct {
	// IdleTTL is how long a session may sit untouched before eviction
	// (default: 30 minutes). Sessions awaiting a response are never evicted.
	IdleTTL time.Duration

	// SweepInterval is how often Run evicts idle sessions (default: 1 minute).
	SweepInterval time.Duration

	Logger zerolog.Logger

	// SessionOptions are applied to every created session after the id
	// and logger.
	SessionOptions []Option
}

// DefaultManagerConfig returns the default manager configuration.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		IdleTTL:       30 * time.Minute,
		SweepInterval: time.Minute,
		Logger:        zerolog.Nop(),
	}
}

// Manager keeps independent sessions by id.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	completer gemini.Completer
	cfg       ManagerConfig
	log       zerolog.Logger

	// Callbacks
	onChange func(active int)
}

// NewManager creates an empty manager. Every session it creates shares
// completer.
func NewManager(completer gemini.Completer, cfg ManagerConfig) *Manager {
	def := DefaultManagerConfig()
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = def.IdleTTL
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = def.SweepInterval
	}
	return &Manager{
		sessions:  make(map[string]*Session),
		completer: completer,
		cfg:       cfg,
		log:       cfg.Logger.With().Str("component", "sessions").Logger(),
	}
}

// SetChangeCallback sets the function called with the session count after
// every create, delete and sweep.
func (m *Manager) SetChangeCallback(fn func(active int)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

// Create starts a new idle session for profile.
func (m *Manager) Create(profile assistant.Profile) *Session {
	opts := append([]Option{WithID(uuid.NewString()), WithLogger(m.cfg.Logger)}, m.cfg.SessionOptions...)
	s := New(profile, m.completer, opts...)

	m.mu.Lock()
	m.sessions[s.ID()] = s
	n, cb := len(m.sessions), m.onChange
	m.mu.Unlock()

	m.log.Debug().Str("session", s.ID()).Str("assistant", profile.Slug).Msg("session created")
	if cb != nil {
		cb(n)
	}
	return s
}

// Get returns the session with id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Delete resets and forgets the session with id. A request in flight is
// cancelled.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	n, cb := len(m.sessions), m.onChange
	m.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	s.Reset()
	if cb != nil {
		cb(n)
	}
	return nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Summary is the list view of a session.
type Summary struct {
	ID           string    `json:"id"`
	Assistant    string    `json:"assistant"`
	Messages     int       `json:"messages"`
	Awaiting     bool      `json:"awaiting"`
	LastActivity time.Time `json:"last_activity"`
	Preview      string    `json:"preview,omitempty"`
}

// previewRunes bounds Summary.Preview.
const previewRunes = 60

// List returns a summary of every session, most recently active first.
func (m *Manager) List() []Summary {
	m.mu.RLock()
	all := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	m.mu.RUnlock()

	out := make([]Summary, 0, len(all))
	for _, s := range all {
		st := s.Snapshot()
		var preview string
		if n := len(st.Transcript); n > 0 {
			preview = util.TruncateRunes(util.OneLine(st.Transcript[n-1].Text), previewRunes)
		}
		out = append(out, Summary{
			ID:           st.ID,
			Assistant:    st.Assistant,
			Messages:     len(st.Transcript),
			Awaiting:     st.Awaiting,
			LastActivity: st.LastActivity,
			Preview:      preview,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastActivity.After(out[j].LastActivity)
	})
	return out
}

// =============================================================================
// IDLE EVICTION
// =============================================================================

// Sweep evicts sessions idle for at least IdleTTL as of now and returns how
// many were removed.
func (m *Manager) Sweep(now time.Time) int {
	m.mu.Lock()
	var evicted []*Session
	for id, s := range m.sessions {
		if s.Awaiting() {
			continue
		}
		if now.Sub(s.IdleSince()) >= m.cfg.IdleTTL {
			evicted = append(evicted, s)
			delete(m.sessions, id)
		}
	}
	n, cb := len(m.sessions), m.onChange
	m.mu.Unlock()

	for _, s := range evicted {
		s.Reset()
		m.log.Debug().Str("session", s.ID()).Msg("idle session evicted")
	}
	if len(evicted) > 0 && cb != nil {
		cb(n)
	}
	return len(evicted)
}

// Run sweeps every SweepInterval until ctx is done.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.cfg.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			m.Sweep(t)
		}
	}
}

// Close resets every session, cancelling requests in flight.
func (m *Manager) Close() {
	m.mu.Lock()
	all := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range all {
		s.Reset()
	}
}
