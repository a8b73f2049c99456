// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jeranaias/dailyai/internal/assistant"
)

func TestDefaultManagerConfig(t *testing.T) {
	cfg := DefaultManagerConfig()
	require.Equal(t, 30*time.Minute, cfg.IdleTTL)
	require.Equal(t, time.Minute, cfg.SweepInterval)
}

func TestManager_CreateGetDelete(t *testing.T) {
	m := NewManager(&scripted{text: "ok"}, ManagerConfig{})

	var counts []int
	m.SetChangeCallback(func(n int) { counts = append(counts, n) })

	s := m.Create(assistant.QuickStudy)
	require.NotEmpty(t, s.ID())
	require.Equal(t, 1, m.Len())

	got, err := m.Get(s.ID())
	require.NoError(t, err)
	require.Same(t, s, got)

	require.NoError(t, m.Delete(s.ID()))
	require.ErrorIs(t, m.Delete(s.ID()), ErrNotFound)
	_, err = m.Get(s.ID())
	require.ErrorIs(t, err, ErrNotFound)

	require.Equal(t, []int{1, 0}, counts)
}

func TestManager_SessionOptions(t *testing.T) {
	hooked := make(chan string, 1)
	m := NewManager(&scripted{text: "ok"}, ManagerConfig{
		SessionOptions: []Option{WithResolveHook(func(slug string, _ Result) { hooked <- slug })},
	})

	s := m.Create(assistant.CodeDebugger)
	_, err := s.Exchange(context.Background(), "nil map write")
	require.NoError(t, err)
	require.Equal(t, "codedebugger", <-hooked)
}

func TestManager_List(t *testing.T) {
	m := NewManager(&scripted{text: "ok"}, ManagerConfig{})
	a := m.Create(assistant.ReDish)
	b := m.Create(assistant.CodeDebugger)

	time.Sleep(5 * time.Millisecond)
	_, err := a.Exchange(context.Background(), "rice")
	require.NoError(t, err)

	list := m.List()
	require.Len(t, list, 2)
	require.Equal(t, a.ID(), list[0].ID)
	require.Equal(t, 2, list[0].Messages)
	require.Equal(t, "ok", list[0].Preview)
	require.Equal(t, b.ID(), list[1].ID)
	require.Equal(t, "codedebugger", list[1].Assistant)
	require.Empty(t, list[1].Preview)
}

func TestManager_Sweep(t *testing.T) {
	m := NewManager(&scripted{text: "ok"}, ManagerConfig{IdleTTL: time.Minute})
	idle := m.Create(assistant.ReDish)

	g := newGated("x")
	busy := New(assistant.ReDish, g, WithID("busy"))
	m.mu.Lock()
	m.sessions[busy.ID()] = busy
	m.mu.Unlock()
	busy.SetInput("rice")
	_, err := busy.Begin()
	require.NoError(t, err)

	require.Zero(t, m.Sweep(time.Now()))
	require.Equal(t, 1, m.Sweep(time.Now().Add(2*time.Minute)))

	_, err = m.Get(idle.ID())
	require.ErrorIs(t, err, ErrNotFound)
	_, err = m.Get("busy")
	require.NoError(t, err, "awaiting sessions are never evicted")
}

func TestManager_RunStopsOnCancel(t *testing.T) {
	m := NewManager(nil, ManagerConfig{SweepInterval: time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestManager_Close(t *testing.T) {
	m := NewManager(&scripted{text: "ok"}, ManagerConfig{})
	m.Create(assistant.ReDish)
	m.Create(assistant.QuickStudy)
	m.Close()
	require.Zero(t, m.Len())
}
