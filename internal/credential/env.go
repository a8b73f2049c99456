// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package credential

import (
	"context"
	"os"
	"strings"
)

// DefaultEnvNames are checked in order. The last two are the names web
// builds of DailyAI read, honored so existing .env files keep working.
var DefaultEnvNames = []string{
	"DAILYAI_GEMINI_KEY",
	"GEMINI_API_KEY",
	"VITE_API_KEY",
	"REACT_APP_GEMINI_API_KEY",
}

// Env reads the key from the first non-empty environment variable.
type Env struct {
	Names []string

	// lookup replaces os.LookupEnv in tests.
	lookup func(string) (string, bool)
}

// NewEnv returns an Env over DefaultEnvNames.
func NewEnv() *Env {
	return &Env{Names: DefaultEnvNames}
}

// Credential implements Provider.
func (e *Env) Credential(context.Context) (string, error) {
	lookup := e.lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	names := e.Names
	if len(names) == 0 {
		names = DefaultEnvNames
	}
	for _, name := range names {
		if v, ok := lookup(name); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), nil
		}
	}
	return "", ErrNoCredential
}
