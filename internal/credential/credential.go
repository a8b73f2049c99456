// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package credential resolves the Gemini API key.
//
// A key can come from the environment, a local key/value store, a shared
// Redis store, the config file or a value baked in at build time. Each is a
// Provider; a Chain asks them in order before every request, so a key set
// while the program runs is used by the next turn.
package credential

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// GeminiKey is the store key holding the Gemini API key.
const GeminiKey = "gemini_api_key"

var (
	// ErrNoCredential indicates no provider could supply a key.
	ErrNoCredential = errors.New("no API key configured")

	// ErrNotFound indicates a store has no value for the key.
	ErrNotFound = errors.New("key not found")
)

// Provider supplies an API key.
type Provider interface {
	Credential(ctx context.Context) (string, error)
}

// Func adapts a function to Provider.
type Func func(ctx context.Context) (string, error)

// Credential calls f.
func (f Func) Credential(ctx context.Context) (string, error) {
	return f(ctx)
}

// Fingerprint returns the first 8 hex chars of the key's SHA-256.
// SECURITY: Logs and status output carry this, never the key.
func Fingerprint(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return "none"
	}
	h := sha256.Sum256([]byte(key))
	return hex.EncodeToString(h[:4])
}

// Masked describes a key for display without revealing any of it.
func Masked(key string) string {
	if strings.TrimSpace(key) == "" {
		return "[not set]"
	}
	return "[REDACTED, fingerprint=" + Fingerprint(key) + "]"
}
