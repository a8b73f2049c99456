// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/dailyai/internal/assistant"
	"github.com/jeranaias/dailyai/internal/config"
	"github.com/jeranaias/dailyai/internal/credential"
	"github.com/jeranaias/dailyai/internal/export"
	"github.com/jeranaias/dailyai/internal/gemini"
	"github.com/jeranaias/dailyai/internal/session"
)

// =============================================================================
// HELPERS
// =============================================================================

// isolate points the config home at a temp dir and clears every variable
// that could leak a key or setting into the test.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.HomeEnv, home)
	for _, name := range append([]string{
		"DAILYAI_MODEL", "DAILYAI_BACKEND", "DAILYAI_BASE_URL",
		"DAILYAI_LOG_LEVEL", "DAILYAI_ADDR", "DAILYAI_REDIS_URL",
	}, credential.DefaultEnvNames...) {
		t.Setenv(name, "")
	}
	config.ResetGlobalForTesting()
	t.Cleanup(config.ResetGlobalForTesting)
	return home
}

type fakeCompleter struct {
	text    string
	err     error
	prompts []string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.text, f.err
}

// run executes args against a fresh App and returns stdout.
func run(t *testing.T, c gemini.Completer, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := NewApp(BuildInfo{Version: "test", GitCommit: "abc123", BuildDate: "today"})
	app.In = strings.NewReader(stdin)
	app.Out = &out
	app.Err = &errOut
	if c != nil {
		app.newCompleter = func(*config.Config, gemini.KeySource, zerolog.Logger) (gemini.Completer, error) {
			return c, nil
		}
	}
	defer app.Close()

	root := NewRootCommand(app)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// =============================================================================
// ASK
// =============================================================================

func TestAsk_PrintsAnswer(t *testing.T) {
	isolate(t)
	fc := &fakeCompleter{text: "Try **khichdi**."}

	out, err := run(t, fc, "", "ask", "redish", "rice,", "onion")
	require.NoError(t, err)
	require.Equal(t, "Try **khichdi**.\n", out, "piped output is not rendered")

	require.Len(t, fc.prompts, 1)
	require.Contains(t, fc.prompts[0], "rice, onion")
	require.NotEqual(t, "rice, onion", fc.prompts[0], "first turn carries the persona")
}

func TestAsk_ReadsStdin(t *testing.T) {
	isolate(t)
	fc := &fakeCompleter{text: "Missing colon."}

	out, err := run(t, fc, "def f()\n  return 1\n", "ask", "codedebugger")
	require.NoError(t, err)
	require.Contains(t, out, "Missing colon.")
	require.Contains(t, fc.prompts[0], "def f()")
}

func TestAsk_Fallback(t *testing.T) {
	isolate(t)
	fc := &fakeCompleter{err: gemini.ErrTransport}

	out, err := run(t, fc, "", "ask", "quickstudy", "osmosis")
	require.Contains(t, out, session.FallbackText)

	var fallback *FallbackError
	require.ErrorAs(t, err, &fallback)
	require.ErrorIs(t, err, gemini.ErrTransport)
	require.Equal(t, ExitGeneralError, GetExitCode(err))
}

func TestAsk_EmptyInput(t *testing.T) {
	isolate(t)
	fc := &fakeCompleter{text: "unused"}

	_, err := run(t, fc, "   \n", "ask", "oneclickmotivation")
	require.Error(t, err)
	require.Contains(t, err.Error(), assistant.OneClickMotivation.EmptyInputNotice)
	require.Equal(t, ExitUsageError, GetExitCode(err))
	require.Empty(t, fc.prompts)
}

func TestAsk_UnknownAssistant(t *testing.T) {
	isolate(t)
	_, err := run(t, &fakeCompleter{}, "", "ask", "nope", "hi")
	require.ErrorIs(t, err, assistant.ErrUnknownAssistant)
	require.Equal(t, ExitNotFoundError, GetExitCode(err))
}

func TestAsk_JSON(t *testing.T) {
	isolate(t)
	out, err := run(t, &fakeCompleter{text: "Notes."}, "", "ask", "quickstudy", "--json", "cells")
	require.NoError(t, err)

	var st session.State
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	require.Equal(t, "quickstudy", st.Assistant)
	require.Len(t, st.Transcript, 2)
	require.Equal(t, "Notes.", st.Transcript[1].Text)
}

func TestAsk_RESTEndToEnd(t *testing.T) {
	isolate(t)

	var gotKey, gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("key")
		gotPath = r.URL.Path
		_, _ = io.Copy(io.Discard, r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Stay focused."}],"role":"model"}}]}`))
	}))
	defer ts.Close()

	t.Setenv("DAILYAI_BASE_URL", ts.URL)
	t.Setenv("GEMINI_API_KEY", "env-key")

	out, err := run(t, nil, "", "ask", "oneclickmotivation", "exams")
	require.NoError(t, err)
	require.Equal(t, "Stay focused.\n", out)
	require.Equal(t, "env-key", gotKey)
	require.True(t, strings.HasSuffix(gotPath, ":generateContent"), gotPath)
}

func TestAsk_NoKeyFallsBack(t *testing.T) {
	isolate(t)
	out, err := run(t, nil, "", "ask", "redish", "rice")
	require.Contains(t, out, session.FallbackText)
	require.ErrorIs(t, err, gemini.ErrNotConfigured)
}

// =============================================================================
// KEY
// =============================================================================

func TestKey_SetShowDelete(t *testing.T) {
	isolate(t)

	out, err := run(t, nil, "", "key", "set", "stored-key")
	require.NoError(t, err)
	require.Contains(t, out, credential.Fingerprint("stored-key"))

	out, err = run(t, nil, "", "key", "show")
	require.NoError(t, err)
	require.Contains(t, out, "store")
	require.NotContains(t, out, "stored-key")

	// Environment wins over the store in the default order.
	t.Setenv("GEMINI_API_KEY", "env-key")
	out, err = run(t, nil, "", "key", "show")
	require.NoError(t, err)
	require.Contains(t, out, credential.Fingerprint("env-key"))
	t.Setenv("GEMINI_API_KEY", "")

	_, err = run(t, nil, "", "key", "delete")
	require.NoError(t, err)

	_, err = run(t, nil, "", "key", "delete")
	require.ErrorIs(t, err, credential.ErrNotFound)
	require.Equal(t, ExitNotFoundError, GetExitCode(err))
}

func TestKey_SetFromStdin(t *testing.T) {
	isolate(t)
	_, err := run(t, nil, "piped-key\n", "key", "set")
	require.NoError(t, err)

	out, err := run(t, nil, "", "key", "show")
	require.NoError(t, err)
	require.Contains(t, out, credential.Fingerprint("piped-key"))
}

func TestKey_RedisWithoutURL(t *testing.T) {
	isolate(t)
	_, err := run(t, nil, "", "key", "set", "--redis", "k")
	require.Error(t, err)
	require.Equal(t, ExitConfigError, GetExitCode(err))
}

// =============================================================================
// CONFIG
// =============================================================================

func TestConfig_InitSetGet(t *testing.T) {
	home := isolate(t)

	out, err := run(t, nil, "", "config", "path")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, "config.toml"), strings.TrimSpace(out))

	_, err = run(t, nil, "", "config", "init")
	require.NoError(t, err)
	_, err = run(t, nil, "", "config", "init")
	require.Error(t, err, "init refuses to overwrite")

	_, err = run(t, nil, "", "config", "set", "ui.default_assistant", "quickstudy")
	require.NoError(t, err)
	out, err = run(t, nil, "", "config", "get", "ui.default_assistant")
	require.NoError(t, err)
	require.Equal(t, "quickstudy\n", out)

	_, err = run(t, nil, "", "config", "set", "gemini.api_key", "secret")
	require.NoError(t, err)
	out, err = run(t, nil, "", "config", "get", "gemini.api_key")
	require.NoError(t, err)
	require.Equal(t, "[REDACTED]\n", out)

	out, err = run(t, nil, "", "config", "show")
	require.NoError(t, err)
	require.NotContains(t, out, "secret")
	require.Contains(t, out, "quickstudy")
}

func TestConfig_SetRejectsInvalid(t *testing.T) {
	isolate(t)

	_, err := run(t, nil, "", "config", "set", "server.idle_ttl_mins", "0")
	require.Error(t, err)
	require.Equal(t, ExitConfigError, GetExitCode(err))

	_, err = run(t, nil, "", "config", "set", "nope.key", "x")
	require.Error(t, err)
	require.Equal(t, ExitUsageError, GetExitCode(err))

	path, _ := config.ConfigPathTOML()
	_, statErr := os.Stat(path)
	require.True(t, errors.Is(statErr, os.ErrNotExist), "nothing was saved")
}

// =============================================================================
// CHAT REPL
// =============================================================================

type scripted struct {
	lines []string
}

func (s *scripted) Prompt(string) (string, error) {
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	l := s.lines[0]
	s.lines = s.lines[1:]
	return l, nil
}

func TestREPL(t *testing.T) {
	isolate(t)
	fc := &fakeCompleter{text: "Try khichdi."}
	sess := session.New(assistant.ReDish, fc)

	var out bytes.Buffer
	opts := &export.Options{OutputDir: t.TempDir()}
	r := &repl{out: &out, session: sess, style: replyRaw, modelName: "test", exportOpt: opts}

	err := r.run(context.Background(), &scripted{lines: []string{
		"",
		"rice, onion",
		"/export json",
		"and spinach?",
		"/new",
		"/bogus",
		"/quit",
		"never read",
	}})
	require.NoError(t, err)

	text := out.String()
	require.Contains(t, text, assistant.ReDish.EmptyInputNotice)
	require.Contains(t, text, "Try khichdi.")
	require.Contains(t, text, "Exported to ")
	require.Contains(t, text, "unknown command")

	require.Len(t, fc.prompts, 2)
	require.Equal(t, "and spinach?", fc.prompts[1], "later turns are sent verbatim")
	require.Empty(t, sess.Snapshot().Transcript, "/new cleared the chat")

	files, err := os.ReadDir(opts.OutputDir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, ".json", filepath.Ext(files[0].Name()))
}

func TestREPL_EOFEnds(t *testing.T) {
	isolate(t)
	var out bytes.Buffer
	r := &repl{out: &out, session: session.New(assistant.QuickStudy, &fakeCompleter{}), style: replyRaw, exportOpt: export.DefaultOptions()}
	require.NoError(t, r.run(context.Background(), &scripted{}))
	require.Contains(t, out.String(), assistant.QuickStudy.Name)
}

// =============================================================================
// MISC
// =============================================================================

func TestVersion(t *testing.T) {
	isolate(t)
	out, err := run(t, nil, "", "version")
	require.NoError(t, err)
	require.Contains(t, out, "dailyai test")
	require.Contains(t, out, "abc123")
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"fallback", &FallbackError{}, ExitGeneralError},
		{"validation", NewValidationError("x", "", "bad"), ExitUsageError},
		{"config", config.ValidateErrors{{Field: "log.level", Message: "bad"}}, ExitConfigError},
		{"unknown assistant", assistant.ErrUnknownAssistant, ExitNotFoundError},
		{"other", errors.New("boom"), ExitGeneralError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

// =============================================================================
// CREDENTIAL RELOAD
// =============================================================================

type countingCloser struct{ closed int }

func (c *countingCloser) Close() error {
	c.closed++
	return nil
}

func TestSwapKeys_SetClosesReplacedStores(t *testing.T) {
	first, second := &countingCloser{}, &countingCloser{}
	chain, err := credential.NewChain([]string{credential.SourceConfig},
		map[string]credential.Provider{credential.SourceConfig: credential.Static("k")})
	require.NoError(t, err)

	keys := &swapKeys{}
	require.NoError(t, keys.set(chain, []io.Closer{first}))
	require.Zero(t, first.closed)

	require.NoError(t, keys.set(chain, []io.Closer{second}))
	require.Equal(t, 1, first.closed)
	require.Zero(t, second.closed)

	require.NoError(t, keys.Close())
	require.Equal(t, 1, first.closed)
	require.Equal(t, 1, second.closed)
}

func TestCredentialChain_ReloadReleasesPreviousStore(t *testing.T) {
	isolate(t)
	ctx := context.Background()
	app := NewApp(BuildInfo{Version: "test"})
	cfg := config.Default()

	chain, stores, err := app.credentialChain(ctx, cfg)
	require.NoError(t, err)
	require.Len(t, stores, 1)
	old, ok := stores[0].(*credential.SQLiteStore)
	require.True(t, ok)
	require.NoError(t, old.Set(ctx, credential.GeminiKey, "stored-key"))

	keys := &swapKeys{}
	require.NoError(t, keys.set(chain, stores))

	for i := 0; i < 3; i++ {
		chain, stores, err = app.credentialChain(ctx, cfg)
		require.NoError(t, err)
		require.NoError(t, keys.set(chain, stores))
	}
	t.Cleanup(func() { _ = keys.Close() })

	_, err = old.Get(ctx, credential.GeminiKey)
	require.Error(t, err, "replaced store is closed")

	key, source, err := keys.Resolve(ctx)
	require.NoError(t, err)
	require.Equal(t, "stored-key", key)
	require.Equal(t, credential.SourceStore, source)
}

// =============================================================================
// REPLY RENDERING
// =============================================================================

func TestRenderBold_OnlyBoldMarkers(t *testing.T) {
	bracket := func(s string) string { return "[" + s + "]" }

	got := renderBold("# Dal\n- a **b** c\nx **y\n`code`", bracket)
	require.Equal(t, "# Dal\n- a [b] c\nx **y\n`code`", got,
		"headings, lists and code stay literal; unpaired markers are left alone")
}

func TestReplyStyleFor(t *testing.T) {
	require.Equal(t, replyBold, replyStyleFor(false, false))
	require.Equal(t, replyMarkdown, replyStyleFor(false, true))
	require.Equal(t, replyRaw, replyStyleFor(true, false))
}

func TestAsk_RawAndMarkdownConflict(t *testing.T) {
	isolate(t)
	_, err := run(t, &fakeCompleter{text: "x"}, "", "ask", "--raw", "--markdown", "redish", "rice")
	require.Error(t, err)
}
