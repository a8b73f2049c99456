// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package assistant defines the four DailyAI assistants.
//
// All four share one chat controller; what differs between them is captured
// here as data: a persona instruction for the opening turn, the label shown
// on the user's first bubble, the placeholders and the palette.
package assistant

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/jeranaias/dailyai/internal/ui/styles"
)

// inputPlaceholder marks where the user's text goes in a persona.
const inputPlaceholder = "{input}"

// Profile is the configuration record for one assistant.
// Profiles are values and are never mutated after registration.
type Profile struct {
	// Slug is the routing key ("quickstudy"), also the URL path segment.
	Slug string `json:"slug"`
	// Name is the display name ("QuickStudy").
	Name string `json:"name"`
	// Tagline is the one-line description on the landing page.
	Tagline string `json:"tagline"`
	// Subtitle is shown under the page title.
	Subtitle string `json:"subtitle"`
	// EmptyState is centered in the chat card before the first turn.
	EmptyState string `json:"empty_state"`
	// Placeholder is the input hint before the first turn.
	Placeholder string `json:"placeholder"`
	// FollowUpPlaceholder is the input hint once a conversation exists.
	FollowUpPlaceholder string `json:"follow_up_placeholder"`
	// Label prefixes the first user bubble ("Topic: ...").
	Label string `json:"label"`
	// EmptyInputNotice is shown when the user sends blank input.
	EmptyInputNotice string `json:"empty_input_notice"`
	// Persona is the opening-turn instruction; {input} is replaced.
	Persona string `json:"-"`
	// Theme is the page palette.
	Theme styles.Tokens `json:"theme"`
}

// Turn is the pair of strings built from one raw input.
type Turn struct {
	// Prompt is the literal text sent to the completion endpoint.
	Prompt string
	// Display is the text of the user's bubble.
	Display string
}

// Normalize trims surrounding whitespace and converts the text to NFC so
// composed and decomposed input produce identical prompts.
func Normalize(input string) string {
	return norm.NFC.String(strings.TrimSpace(input))
}

// Template builds the prompt and the displayed user text for input at the
// given turn index.
//
// Turn 0 wraps the input in the persona and labels the bubble. Any later
// turn sends the input verbatim with no persona re-applied.
func (p Profile) Template(input string, turn int) Turn {
	text := Normalize(input)
	if turn > 0 {
		return Turn{Prompt: text, Display: text}
	}
	return Turn{
		Prompt:  strings.ReplaceAll(p.Persona, inputPlaceholder, text),
		Display: fmt.Sprintf("%s: %s", p.Label, text),
	}
}

// PlaceholderFor returns the input hint for a transcript of the given length.
func (p Profile) PlaceholderFor(transcriptLen int) string {
	if transcriptLen == 0 || p.FollowUpPlaceholder == "" {
		return p.Placeholder
	}
	return p.FollowUpPlaceholder
}

// Path returns the route path for the assistant ("/quickstudy").
func (p Profile) Path() string {
	return "/" + p.Slug
}

// Validate checks a profile is complete enough to mount.
func (p Profile) Validate() error {
	switch {
	case p.Slug == "":
		return fmt.Errorf("assistant profile: slug is required")
	case p.Name == "":
		return fmt.Errorf("assistant %s: name is required", p.Slug)
	case p.Label == "":
		return fmt.Errorf("assistant %s: label is required", p.Slug)
	case !strings.Contains(p.Persona, inputPlaceholder):
		return fmt.Errorf("assistant %s: persona must contain %s", p.Slug, inputPlaceholder)
	}
	return p.Theme.Validate()
}
