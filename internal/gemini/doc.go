// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gemini provides the completion client for Google's Gemini API.
//
// A completion is one prompt in, one text out. Two backends implement the
// same Completer contract:
//
//   - RESTClient posts to the v1beta generateContent endpoint directly
//   - SDKClient goes through the google.golang.org/genai SDK
//
// # Key Types
//
//   - Completer: the one-method contract the chat controller depends on
//   - KeySource: where the API key comes from, asked before every request
//   - APIError: a vendor error body decoded from a non-2xx response
//
// # Usage
//
//	client := gemini.NewRESTClient(keys, gemini.Options{Model: "gemini-1.5-flash-latest"})
//	text, err := client.Complete(ctx, "Suggest a recipe with rice and onion.")
//
// # Failure Model
//
// Every failure is one of ErrNotConfigured, ErrTransport or
// ErrMalformedResponse. Nothing is retried: a failed request is reported to
// the caller once and the caller decides what to show.
//
// # Security
//
// The API key travels as a query parameter, so request URLs are never
// logged. Diagnostics carry the path, status, duration and a key
// fingerprint only.
package gemini
