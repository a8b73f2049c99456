// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/jeranaias/dailyai/internal/config"
	"github.com/jeranaias/dailyai/internal/credential"
	"github.com/jeranaias/dailyai/internal/gemini"
	"github.com/jeranaias/dailyai/internal/logging"
	"github.com/jeranaias/dailyai/internal/telemetry"
)

// BuildInfo is stamped into the binary at link time.
type BuildInfo struct {
	Version   string
	GitCommit string
	BuildDate string
}

// =============================================================================
// APP
// =============================================================================

// App carries what every command shares: configuration, the logger and
// the completion stack. Commands fill it lazily through setup.
type App struct {
	Info BuildInfo

	In  io.Reader
	Out io.Writer
	Err io.Writer

	// Verbose raises the log level to debug.
	Verbose bool

	cfg     *config.Config
	log     zerolog.Logger
	keys    *swapKeys
	metrics *telemetry.Metrics
	reg     *prometheus.Registry

	mu      sync.Mutex
	closers []io.Closer

	// newCompleter builds the raw completer; tests replace it.
	newCompleter func(cfg *config.Config, keys gemini.KeySource, log zerolog.Logger) (gemini.Completer, error)
}

// NewApp returns an App over the process's standard streams.
func NewApp(info BuildInfo) *App {
	return &App{
		Info:         info,
		In:           os.Stdin,
		Out:          os.Stdout,
		Err:          os.Stderr,
		log:          zerolog.Nop(),
		newCompleter: defaultCompleter,
	}
}

func defaultCompleter(cfg *config.Config, keys gemini.KeySource, log zerolog.Logger) (gemini.Completer, error) {
	return gemini.New(cfg.Gemini.Backend, keys, gemini.Options{
		BaseURL:           cfg.Gemini.BaseURL,
		Model:             cfg.Gemini.Model,
		Timeout:           cfg.Timeout(),
		RequestsPerMinute: cfg.Gemini.RequestsPerMinute,
		Logger:            log,
	})
}

// loadConfig loads the configuration once. A broken file is reported but
// the defaults are used, so the commands that repair it still run.
func (a *App) loadConfig() (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}
	cfg, err := config.Load()
	if cfg == nil {
		return nil, err
	}
	if err != nil {
		DisplayError(a.Err, err)
	}
	if a.Verbose {
		cfg.Log.Level = "debug"
	}
	config.SetGlobal(cfg)
	a.cfg = cfg
	return cfg, nil
}

// logToStderr points the logger at stderr.
func (a *App) logToStderr() {
	a.log = logging.New(a.cfg.Log, a.Err)
}

// logToFile points the logger at the log file; the TUI owns the terminal.
func (a *App) logToFile() {
	path, err := a.cfg.LogPath()
	if err != nil {
		a.log = zerolog.Nop()
		return
	}
	log, closer, err := logging.ForFile(a.cfg.Log, path)
	if err != nil {
		a.log = zerolog.Nop()
		return
	}
	a.log = log
	a.addCloser(closer)
}

func (a *App) addCloser(c io.Closer) {
	a.mu.Lock()
	a.closers = append(a.closers, c)
	a.mu.Unlock()
}

// Close releases stores and log files.
func (a *App) Close() error {
	a.mu.Lock()
	closers := a.closers
	a.closers = nil
	a.mu.Unlock()
	return closeAll(closers)
}

// closeAll closes in reverse order and joins the errors.
func closeAll(closers []io.Closer) error {
	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// =============================================================================
// COMPLETION STACK
// =============================================================================

// completer builds the instrumented completer behind a swappable
// credential chain.
func (a *App) completer(ctx context.Context) (gemini.Completer, error) {
	chain, stores, err := a.credentialChain(ctx, a.cfg)
	if err != nil {
		return nil, err
	}
	a.keys = &swapKeys{}
	_ = a.keys.set(chain, stores)
	a.addCloser(a.keys)

	raw, err := a.newCompleter(a.cfg, a.keys, a.log)
	if err != nil {
		return nil, err
	}

	a.reg = prometheus.NewRegistry()
	a.metrics = telemetry.NewMetrics(a.reg)
	return a.metrics.Instrument(raw, gemini.ResolveModel(a.cfg.Gemini.Model)), nil
}

// credentialChain assembles the configured key sources. A store that
// cannot be opened is logged and skipped; the chain still works without it.
// The caller owns the returned stores.
func (a *App) credentialChain(ctx context.Context, cfg *config.Config) (*credential.Chain, []io.Closer, error) {
	var stores []io.Closer
	sources := map[string]credential.Provider{
		credential.SourceEnv:    credential.NewEnv(),
		credential.SourceConfig: credential.Static(cfg.Gemini.APIKey),
		credential.SourceBuild:  credential.Static(credential.BuildKey),
	}

	if path, err := cfg.StorePath(); err == nil {
		if store, err := credential.OpenSQLite(path); err == nil {
			stores = append(stores, store)
			sources[credential.SourceStore] = credential.FromStore(store)
		} else {
			a.log.Warn().Err(err).Msg("key store unavailable")
		}
	}

	if cfg.Credentials.RedisURL != "" {
		rctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		store, err := credential.OpenRedis(rctx, cfg.Credentials.RedisURL)
		cancel()
		if err == nil {
			stores = append(stores, store)
			sources[credential.SourceRedis] = credential.FromStore(store)
		} else {
			a.log.Warn().Err(err).Msg("redis key store unavailable")
		}
	}

	chain, err := credential.NewChain(cfg.Credentials.Order, sources)
	if err != nil {
		_ = closeAll(stores)
		return nil, nil, err
	}
	return chain, stores, nil
}

// =============================================================================
// SWAPPABLE KEYS
// =============================================================================

// swapKeys lets a config reload replace the credential chain under a
// completer that is already in use. It owns the stores behind the current
// chain.
type swapKeys struct {
	mu     sync.RWMutex
	chain  *credential.Chain
	stores []io.Closer
}

// Credential implements gemini.KeySource.
func (s *swapKeys) Credential(ctx context.Context) (string, error) {
	key, _, err := s.Resolve(ctx)
	return key, err
}

// Resolve returns the key and the source that supplied it.
func (s *swapKeys) Resolve(ctx context.Context) (string, string, error) {
	s.mu.RLock()
	c := s.chain
	s.mu.RUnlock()
	if c == nil {
		return "", "", credential.ErrNoCredential
	}
	return c.Resolve(ctx)
}

// set installs c and closes the stores of the chain it replaces.
func (s *swapKeys) set(c *credential.Chain, stores []io.Closer) error {
	s.mu.Lock()
	old := s.stores
	s.chain, s.stores = c, stores
	s.mu.Unlock()
	return closeAll(old)
}

// Close releases the stores behind the current chain.
func (s *swapKeys) Close() error {
	return s.set(nil, nil)
}
