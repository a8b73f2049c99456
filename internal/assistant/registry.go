// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownAssistant is returned when a slug or path names no assistant.
var ErrUnknownAssistant = errors.New("unknown assistant")

// builtin is the landing page order.
var builtin = []Profile{ReDish, QuickStudy, OneClickMotivation, CodeDebugger}

// All returns the built-in assistants in landing page order.
func All() []Profile {
	out := make([]Profile, len(builtin))
	copy(out, builtin)
	return out
}

// Slugs returns the routing keys of all assistants.
func Slugs() []string {
	out := make([]string, len(builtin))
	for i, p := range builtin {
		out[i] = p.Slug
	}
	return out
}

// Lookup resolves a slug, route path or display name, case-insensitively.
// "quickstudy", "/quickstudy" and "QuickStudy" all name the same assistant.
func Lookup(name string) (Profile, error) {
	key := strings.ToLower(strings.Trim(strings.TrimSpace(name), "/"))
	for _, p := range builtin {
		if key == p.Slug || key == strings.ToLower(p.Name) {
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("%w: %q (known: %s)", ErrUnknownAssistant, name, strings.Join(Slugs(), ", "))
}

// Index returns the landing page position of slug, or -1.
func Index(slug string) int {
	for i, p := range builtin {
		if p.Slug == slug {
			return i
		}
	}
	return -1
}
