// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the dailyai command line.
//
// # Commands
//
//	dailyai [tui] [--assistant SLUG]   Full-screen assistant shell (default)
//	dailyai ask SLUG "text"            One turn, printed to stdout
//	dailyai chat SLUG                  Line-mode chat with history
//	dailyai serve [--addr :8080]       HTTP API
//	dailyai key set|show|delete        Manage the stored Gemini key
//	dailyai config show|path|init|get|set
//	dailyai version
//
// # Exit Codes
//
// 0 on success, 1 for general errors and for a turn that produced the
// fallback message, 2 for usage errors, 3 for configuration errors and
// 7 for unknown assistants or keys.
package cli
