// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for DailyAI.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - GeminiConfig: Completion backend, model and pacing
//   - CredentialsConfig: API key source order and stores
//   - ServerConfig: HTTP listen address and session eviction
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (DAILYAI_*)
//   - ~/.dailyai/config.toml
//   - ~/.dailyai/config.json
//   - Built-in defaults
//
// DAILYAI_HOME moves the whole directory.
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Follow edits while running:
//
//	config.Watch(ctx, path, 0, func(cfg *config.Config, err error) { ... })
package config
