// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jeranaias/dailyai/internal/assistant"
	"github.com/jeranaias/dailyai/internal/gemini"
	"github.com/jeranaias/dailyai/internal/model"
)

// FallbackText is the assistant message appended when a completion fails.
const FallbackText = "An error occurred while generating the response. Please try again."

var (
	// ErrBusy indicates a send while a response is outstanding.
	ErrBusy = errors.New("a response is already being generated")

	// ErrEmptyInput indicates a send with blank input. No request is made.
	ErrEmptyInput = errors.New("input is empty")

	// ErrDiscarded indicates a response arrived after the session was reset.
	ErrDiscarded = errors.New("response discarded: session was reset")
)

// =============================================================================
// SESSION
// =============================================================================

// Session is one assistant conversation. It is safe for concurrent use.
type Session struct {
	id        string
	profile   assistant.Profile
	completer gemini.Completer
	log       zerolog.Logger
	now       func() time.Time

	onResolve func(assistant string, res Result)

	mu           sync.Mutex
	transcript   model.Transcript
	turn         int
	pending      string
	awaiting     bool
	generation   uint64
	cancel       context.CancelFunc
	lastActivity time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithID sets the session id reported in snapshots and logs.
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// WithLogger sets the diagnostic logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Session) { s.log = log }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithResolveHook registers fn to run after every applied (non-stale)
// Resolve, outside the session lock.
func WithResolveHook(fn func(assistant string, res Result)) Option {
	return func(s *Session) { s.onResolve = fn }
}

// New creates an idle session for profile.
func New(profile assistant.Profile, completer gemini.Completer, opts ...Option) *Session {
	s := &Session{
		profile:   profile,
		completer: completer,
		log:       zerolog.Nop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With().Str("assistant", profile.Slug).Str("session", s.id).Logger()
	s.lastActivity = s.now()
	return s
}

// ID returns the session id ("" for sessions made without WithID).
func (s *Session) ID() string {
	return s.id
}

// Profile returns the assistant this session talks to.
func (s *Session) Profile() assistant.Profile {
	return s.profile
}

// =============================================================================
// INPUT
// =============================================================================

// SetInput replaces the pending input.
func (s *Session) SetInput(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = text
	s.lastActivity = s.now()
}

// Input returns the pending input.
func (s *Session) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// =============================================================================
// TURN STATE MACHINE
// =============================================================================

// Request is a turn that has begun and is waiting for its completion.
type Request struct {
	session *Session

	// Generation is the session generation at Begin.
	Generation uint64
	// Prompt is the literal text sent to the completer.
	Prompt string
	// Display is the user bubble that Begin appended.
	Display string
}

// Result is the outcome of a Request.
type Result struct {
	Generation uint64
	Text       string
	Err        error
}

// Reply returns the assistant message text for the result.
func (r Result) Reply() string {
	if r.Err != nil || r.Text == "" {
		return FallbackText
	}
	return r.Text
}

// OK reports whether the completion succeeded.
func (r Result) OK() bool {
	return r.Err == nil && r.Text != ""
}

// Begin moves the session from Idle to AwaitingResponse.
//
// Reading the turn index, templating, appending the user message, clearing
// the input and advancing the turn happen in one critical section, so two
// racing Begins cannot both see turn 0.
func (s *Session) Begin() (*Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.beginLocked()
}

// beginLocked performs the Begin transition. The caller holds s.mu.
func (s *Session) beginLocked() (*Request, error) {
	if s.awaiting {
		return nil, ErrBusy
	}
	if strings.TrimSpace(s.pending) == "" {
		return nil, ErrEmptyInput
	}

	t := s.profile.Template(s.pending, s.turn)
	s.transcript.Append(model.Message{Role: model.RoleUser, Text: t.Display, Timestamp: s.now()})
	s.pending = ""
	if s.turn < 1 {
		s.turn = 1
	}
	s.awaiting = true
	s.lastActivity = s.now()

	s.log.Debug().Uint64("generation", s.generation).Int("transcript_len", s.transcript.Len()).Msg("turn begun")

	return &Request{
		session:    s,
		Generation: s.generation,
		Prompt:     t.Prompt,
		Display:    t.Display,
	}, nil
}

// Do calls the completer. It holds no session lock while the call runs, and
// a Reset during the call cancels ctx.
func (r *Request) Do(ctx context.Context) Result {
	s := r.session
	res := Result{Generation: r.Generation}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if !s.attachCancel(r.Generation, cancel) {
		res.Err = ErrDiscarded
		return res
	}
	defer s.detachCancel(r.Generation)

	if s.completer == nil {
		res.Err = gemini.ErrNotConfigured
		return res
	}

	res.Text, res.Err = s.completer.Complete(ctx, r.Prompt)
	return res
}

func (s *Session) attachCancel(gen uint64, cancel context.CancelFunc) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation || !s.awaiting {
		return false
	}
	s.cancel = cancel
	return true
}

func (s *Session) detachCancel(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen == s.generation {
		s.cancel = nil
	}
}

// Resolve moves the session from AwaitingResponse back to Idle by appending
// exactly one assistant message. It returns false, changing nothing, for a
// result whose generation is no longer current.
func (s *Session) Resolve(res Result) bool {
	if !s.apply(res) {
		return false
	}
	if s.onResolve != nil {
		s.onResolve(s.profile.Slug, res)
	}
	return true
}

func (s *Session) apply(res Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if res.Generation != s.generation || !s.awaiting {
		s.log.Debug().
			Uint64("result_generation", res.Generation).
			Uint64("generation", s.generation).
			Msg("discarding stale response")
		return false
	}

	if res.Err != nil {
		s.log.Warn().Err(res.Err).Msg("completion failed")
	} else if res.Text == "" {
		s.log.Warn().Msg("completion returned no text")
	}

	s.transcript.Append(model.Message{Role: model.RoleAssistant, Text: res.Reply(), Timestamp: s.now()})
	s.awaiting = false
	s.cancel = nil
	s.lastActivity = s.now()
	return true
}

// Reset clears the transcript and turn index and returns to Idle. Any
// outstanding request is cancelled and its response will be discarded.
// The pending input is kept.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.transcript.Clear()
	s.turn = 0
	s.awaiting = false
	s.generation++
	s.lastActivity = s.now()

	s.log.Debug().Uint64("generation", s.generation).Msg("session reset")
}

// =============================================================================
// CONVENIENCE DRIVERS
// =============================================================================

// Exchange runs one whole turn for input and waits for it. The returned
// error is ErrBusy or ErrEmptyInput when the turn is rejected, or
// ErrDiscarded when a Reset overtook it; completion failures are reported
// in Result.Err while the fallback message is still appended.
func (s *Session) Exchange(ctx context.Context, input string) (Result, error) {
	req, err := s.BeginWith(input)
	if err != nil {
		return Result{}, err
	}
	res := req.Do(ctx)
	if !s.Resolve(res) {
		return res, ErrDiscarded
	}
	return res, nil
}

// BeginWith sets the input and begins a turn under one lock, so a
// concurrent caller can never have its text sent on another's turn. On
// rejection the pending input is left as it was.
func (s *Session) BeginWith(input string) (*Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.awaiting {
		return nil, ErrBusy
	}
	prev := s.pending
	s.pending = input
	req, err := s.beginLocked()
	if err != nil {
		s.pending = prev
	}
	return req, err
}

// Send begins a turn from the pending input and resolves it in the
// background. The channel is closed once the turn has resolved, or at once
// when Begin rejects the send.
func (s *Session) Send(ctx context.Context) (<-chan struct{}, error) {
	done := make(chan struct{})

	req, err := s.Begin()
	if err != nil {
		close(done)
		return done, err
	}

	go func() {
		defer close(done)
		s.Resolve(req.Do(ctx))
	}()
	return done, nil
}

// =============================================================================
// SNAPSHOT
// =============================================================================

// State is an immutable copy of the session state.
type State struct {
	ID           string          `json:"id,omitempty"`
	Assistant    string          `json:"assistant"`
	Transcript   []model.Message `json:"transcript"`
	Turn         int             `json:"turn"`
	Input        string          `json:"input,omitempty"`
	Awaiting     bool            `json:"awaiting"`
	Generation   uint64          `json:"generation"`
	LastActivity time.Time       `json:"last_activity"`
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		ID:           s.id,
		Assistant:    s.profile.Slug,
		Transcript:   s.transcript.Messages(),
		Turn:         s.turn,
		Input:        s.pending,
		Awaiting:     s.awaiting,
		Generation:   s.generation,
		LastActivity: s.lastActivity,
	}
}

// Awaiting reports whether a response is outstanding.
func (s *Session) Awaiting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.awaiting
}

// IdleSince returns the time of the last state change.
func (s *Session) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}
