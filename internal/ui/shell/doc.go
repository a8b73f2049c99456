// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package shell is the top-level Bubble Tea model: the landing page plus
// one chat page per assistant.
//
// Routing is path-style ("/", "/redish", "/quickstudy", ...) so the TUI and
// the HTTP surface name pages the same way. Every assistant keeps its own
// session; moving between pages never touches another page's state, and a
// completion for a page you have left still lands on that page.
//
// # Key Bindings
//
//	1-4 / Enter      open an assistant (landing page)
//	Tab / Shift+Tab  next / previous assistant
//	Esc              back to the landing page
//	Ctrl+C           quit
package shell
