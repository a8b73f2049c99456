// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server exposes the assistants over HTTP.
//
// Each API session is an independent prompt session held by a
// session.Manager; the HTTP surface only drives the same Begin/Resolve
// state machine the TUI uses.
//
// # Endpoints
//
//   - GET    /health                      - Liveness and session count
//   - GET    /metrics                     - Prometheus metrics
//   - GET    /api/assistants              - Assistant profiles
//   - POST   /api/{assistant}/sessions    - Create a session (201)
//   - GET    /api/sessions                - List sessions
//   - GET    /api/sessions/{id}           - Session state with formatted lines
//   - POST   /api/sessions/{id}/messages  - Send (202, or 200 with ?wait=true)
//   - POST   /api/sessions/{id}/reset     - Start a new chat
//   - DELETE /api/sessions/{id}           - Forget the session (204)
//
// # Usage
//
//	srv := server.New(server.Config{Addr: ":8080", Logger: log}, mgr, metrics, prometheus.DefaultGatherer)
//	if err := srv.Start(ctx); err != nil {
//		log.Fatal().Err(err).Msg("server")
//	}
package server
