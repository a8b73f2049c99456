// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package credential

import (
	"context"
	"strings"
)

// BuildKey is injected at link time:
//
//	go build -ldflags "-X github.com/jeranaias/dailyai/internal/credential.BuildKey=..."
var BuildKey string

// Static is a fixed key, from the config file or BuildKey.
type Static string

// Credential implements Provider.
func (s Static) Credential(context.Context) (string, error) {
	if v := strings.TrimSpace(string(s)); v != "" {
		return v, nil
	}
	return "", ErrNoCredential
}
