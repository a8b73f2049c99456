// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/dailyai/internal/assistant"
	"github.com/jeranaias/dailyai/internal/session"
	"github.com/jeranaias/dailyai/internal/telemetry"
)

// gateCompleter blocks until release is closed, then answers text.
type gateCompleter struct {
	text    string
	release chan struct{}
}

func (g *gateCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if g.release != nil {
		select {
		case <-g.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return g.text, nil
}

func newTestServer(t *testing.T, c *gateCompleter) (*httptest.Server, *session.Manager, *telemetry.Metrics) {
	t.Helper()
	reg := prometheus.NewRegistry()
	metrics := telemetry.NewMetrics(reg)

	cfg := session.DefaultManagerConfig()
	cfg.SessionOptions = []session.Option{session.WithResolveHook(metrics.ObserveTurn)}
	mgr := session.NewManager(c, cfg)

	srv := New(Config{Version: "test", Logger: zerolog.Nop()}, mgr, metrics, reg)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		mgr.Close()
	})
	return ts, mgr, metrics
}

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func createSession(t *testing.T, ts *httptest.Server, slug string) string {
	t.Helper()
	resp, data := do(t, http.MethodPost, ts.URL+"/api/"+slug+"/sessions", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out createSessionResponse
	require.NoError(t, json.Unmarshal(data, &out))
	require.NotEmpty(t, out.ID)
	require.Equal(t, slug, out.Assistant)
	return out.ID
}

func decodeState(t *testing.T, data []byte) stateResponse {
	t.Helper()
	var st stateResponse
	require.NoError(t, json.Unmarshal(data, &st))
	return st
}

func TestHealth(t *testing.T) {
	ts, _, _ := newTestServer(t, &gateCompleter{text: "ok"})
	resp, data := do(t, http.MethodGet, ts.URL+"/health", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))

	var h healthResponse
	require.NoError(t, json.Unmarshal(data, &h))
	require.Equal(t, "ok", h.Status)
	require.Equal(t, "test", h.Version)
}

func TestAssistants(t *testing.T) {
	ts, _, _ := newTestServer(t, &gateCompleter{text: "ok"})
	resp, data := do(t, http.MethodGet, ts.URL+"/api/assistants", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var profiles []assistant.Profile
	require.NoError(t, json.Unmarshal(data, &profiles))
	require.Len(t, profiles, 4)
	require.Equal(t, "redish", profiles[0].Slug)
	require.Empty(t, profiles[0].Persona, "persona is not exposed")
}

func TestCreateSession_UnknownAssistant(t *testing.T) {
	ts, _, _ := newTestServer(t, &gateCompleter{text: "ok"})
	resp, _ := do(t, http.MethodPost, ts.URL+"/api/nope/sessions", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSendAndWait(t *testing.T) {
	ts, _, metrics := newTestServer(t, &gateCompleter{text: "Try **khichdi**."})
	id := createSession(t, ts, "redish")

	resp, data := do(t, http.MethodPost, ts.URL+"/api/sessions/"+id+"/messages?wait=true", `{"text":"rice, onion"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	st := decodeState(t, data)
	require.False(t, st.Awaiting)
	require.Len(t, st.Transcript, 2)
	require.Equal(t, "Food items: rice, onion", st.Transcript[0].Text)
	require.Equal(t, "Try **khichdi**.", st.Transcript[1].Text)

	require.Len(t, st.Formatted, 2)
	line := st.Formatted[1][0]
	require.Len(t, line, 3)
	require.Equal(t, "khichdi", line[1].Text)
	require.True(t, line[1].Bold)

	require.Equal(t, 1, metrics.Usage().For("redish").Turns)
}

func TestSend_AcceptedThenBusy(t *testing.T) {
	gate := &gateCompleter{text: "done", release: make(chan struct{})}
	ts, mgr, _ := newTestServer(t, gate)
	id := createSession(t, ts, "quickstudy")

	resp, data := do(t, http.MethodPost, ts.URL+"/api/sessions/"+id+"/messages", `{"text":"photosynthesis"}`)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	st := decodeState(t, data)
	require.True(t, st.Awaiting)
	require.Len(t, st.Transcript, 1)

	resp, _ = do(t, http.MethodPost, ts.URL+"/api/sessions/"+id+"/messages", `{"text":"again"}`)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	close(gate.release)
	sess, err := mgr.Get(id)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return !sess.Awaiting() }, 2*time.Second, 10*time.Millisecond)

	_, data = do(t, http.MethodGet, ts.URL+"/api/sessions/"+id, "")
	st = decodeState(t, data)
	require.Len(t, st.Transcript, 2)
	require.Equal(t, "done", st.Transcript[1].Text)
}

func TestSend_EmptyInput(t *testing.T) {
	ts, _, _ := newTestServer(t, &gateCompleter{text: "ok"})
	id := createSession(t, ts, "codedebugger")

	resp, data := do(t, http.MethodPost, ts.URL+"/api/sessions/"+id+"/messages", `{"text":"   "}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var e errorResponse
	require.NoError(t, json.Unmarshal(data, &e))
	require.Equal(t, assistant.CodeDebugger.EmptyInputNotice, e.Error)
}

func TestSend_BadBody(t *testing.T) {
	ts, _, _ := newTestServer(t, &gateCompleter{text: "ok"})
	id := createSession(t, ts, "redish")
	resp, _ := do(t, http.MethodPost, ts.URL+"/api/sessions/"+id+"/messages", `{not json`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReset_DropsLateResponse(t *testing.T) {
	gate := &gateCompleter{text: "late", release: make(chan struct{})}
	ts, mgr, _ := newTestServer(t, gate)
	id := createSession(t, ts, "oneclickmotivation")

	resp, _ := do(t, http.MethodPost, ts.URL+"/api/sessions/"+id+"/messages", `{"text":"exams"}`)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	resp, data := do(t, http.MethodPost, ts.URL+"/api/sessions/"+id+"/reset", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	st := decodeState(t, data)
	require.Empty(t, st.Transcript)
	require.False(t, st.Awaiting)

	close(gate.release)
	sess, err := mgr.Get(id)
	require.NoError(t, err)
	require.Never(t, func() bool { return len(sess.Snapshot().Transcript) > 0 }, 100*time.Millisecond, 10*time.Millisecond)
}

func TestDeleteSession(t *testing.T) {
	ts, mgr, _ := newTestServer(t, &gateCompleter{text: "ok"})
	id := createSession(t, ts, "redish")
	require.Equal(t, 1, mgr.Len())

	resp, _ := do(t, http.MethodDelete, ts.URL+"/api/sessions/"+id, "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, 0, mgr.Len())

	resp, _ = do(t, http.MethodGet, ts.URL+"/api/sessions/"+id, "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = do(t, http.MethodDelete, ts.URL+"/api/sessions/"+id, "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListSessions(t *testing.T) {
	ts, _, _ := newTestServer(t, &gateCompleter{text: "ok"})
	createSession(t, ts, "redish")
	createSession(t, ts, "quickstudy")

	resp, data := do(t, http.MethodGet, ts.URL+"/api/sessions", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []session.Summary
	require.NoError(t, json.Unmarshal(data, &list))
	require.Len(t, list, 2)
}

func TestMetricsEndpoint(t *testing.T) {
	ts, _, _ := newTestServer(t, &gateCompleter{text: "ok"})
	id := createSession(t, ts, "redish")
	do(t, http.MethodPost, ts.URL+"/api/sessions/"+id+"/messages?wait=true", `{"text":"rice"}`)

	resp, data := do(t, http.MethodGet, ts.URL+"/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := string(data)
	require.Contains(t, body, "dailyai_sessions_active 1")
	require.Contains(t, body, `dailyai_turns_total{assistant="redish",fallback="false"} 1`)
}

func TestRecovery(t *testing.T) {
	h := RecoveryMiddleware(zerolog.Nop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
