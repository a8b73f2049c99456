// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Configuration constants for the Gemini API.
const (
	// DefaultBaseURL is the public Generative Language API host.
	DefaultBaseURL = "https://generativelanguage.googleapis.com"

	// DefaultModel is the model every assistant talks to.
	DefaultModel = "gemini-1.5-flash-latest"

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion attacks.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB limit
)

// Backend names accepted by New.
const (
	BackendREST = "rest"
	BackendSDK  = "sdk"
)

// Completer turns one prompt into one completion.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// KeySource supplies the API key before each request.
type KeySource interface {
	Credential(ctx context.Context) (string, error)
}

// Options configures either backend. Zero values take the defaults.
type Options struct {
	BaseURL string
	Model   string

	// Timeout bounds one request. Zero leaves the call unbounded; only the
	// caller's ctx can end it.
	Timeout time.Duration

	// RequestsPerMinute paces outbound requests. Zero disables pacing.
	RequestsPerMinute int

	Logger zerolog.Logger
}

func (o Options) withDefaults() Options {
	if strings.TrimSpace(o.BaseURL) == "" {
		o.BaseURL = DefaultBaseURL
	}
	o.BaseURL = strings.TrimSuffix(o.BaseURL, "/")
	o.Model = ResolveModel(o.Model)
	if o.Timeout < 0 {
		o.Timeout = 0
	}
	return o
}

// limiter returns the pacing limiter for the options, or nil.
func (o Options) limiter() *rate.Limiter {
	if o.RequestsPerMinute <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(o.RequestsPerMinute)), 1)
}

// New builds the completer for the named backend.
func New(backend string, keys KeySource, opts Options) (Completer, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendREST:
		return NewRESTClient(keys, opts), nil
	case BackendSDK:
		return NewSDKClient(keys, opts), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// resolveKey asks the key source for a key, mapping any failure or empty
// value to ErrNotConfigured.
func resolveKey(ctx context.Context, keys KeySource) (string, error) {
	if keys == nil {
		return "", ErrNotConfigured
	}
	key, err := keys.Credential(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNotConfigured, err)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrNotConfigured
	}
	return key, nil
}

// pace waits for the limiter, if any.
func pace(ctx context.Context, lim *rate.Limiter) error {
	if lim == nil {
		return nil
	}
	if err := lim.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	return nil
}

// KeyFingerprint returns a secure fingerprint of an API key for logging.
// SECURITY: Uses SHA-256 so logs can correlate keys without exposing them.
func KeyFingerprint(key string) string {
	if key == "" {
		return "none"
	}
	h := sha256.Sum256([]byte(key))
	return hex.EncodeToString(h[:4]) // First 8 hex chars (4 bytes)
}
