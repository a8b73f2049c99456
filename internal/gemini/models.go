// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import "strings"

// Models maps friendly names to full model identifiers.
var Models = map[string]string{
	"flash":  "gemini-1.5-flash-latest",
	"pro":    "gemini-1.5-pro-latest",
	"flash2": "gemini-2.0-flash",
	"lite":   "gemini-2.0-flash-lite",
}

// ResolveModel expands a friendly name, strips a "models/" prefix and falls
// back to DefaultModel for an empty value. Unknown names pass through so
// newly released models work without a code change.
func ResolveModel(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultModel
	}
	if full, ok := Models[strings.ToLower(name)]; ok {
		return full
	}
	return strings.TrimPrefix(name, "models/")
}
