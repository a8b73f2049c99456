// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package credential

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Source names accepted in credentials.order.
const (
	SourceEnv    = "env"
	SourceStore  = "store"
	SourceRedis  = "redis"
	SourceConfig = "config"
	SourceBuild  = "build"
)

// DefaultOrder is the lookup order when none is configured.
var DefaultOrder = []string{SourceEnv, SourceStore, SourceConfig, SourceBuild}

// Named pairs a provider with the source name reported on success.
type Named struct {
	Name     string
	Provider Provider
}

// Chain asks providers in order; the first non-empty key wins.
type Chain struct {
	links []Named
}

// NewChain orders the given sources by order. Sources named in order but
// absent from sources are skipped, so "redis" can stay in the default
// order for deployments without Redis.
func NewChain(order []string, sources map[string]Provider) (*Chain, error) {
	if len(order) == 0 {
		order = DefaultOrder
	}
	c := &Chain{}
	seen := make(map[string]bool, len(order))
	for _, raw := range order {
		name := strings.ToLower(strings.TrimSpace(raw))
		switch name {
		case SourceEnv, SourceStore, SourceRedis, SourceConfig, SourceBuild:
		default:
			return nil, fmt.Errorf("unknown credential source %q", raw)
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		if p, ok := sources[name]; ok && p != nil {
			c.links = append(c.links, Named{Name: name, Provider: p})
		}
	}
	return c, nil
}

// Credential implements Provider.
func (c *Chain) Credential(ctx context.Context) (string, error) {
	key, _, err := c.Resolve(ctx)
	return key, err
}

// Resolve returns the key and the name of the source that supplied it.
// Providers that fail with anything other than ErrNoCredential don't stop
// the walk; their errors are joined into the final error if no key is found.
func (c *Chain) Resolve(ctx context.Context) (string, string, error) {
	var errs []error
	for _, link := range c.links {
		key, err := link.Provider.Credential(ctx)
		if err == nil && strings.TrimSpace(key) != "" {
			return strings.TrimSpace(key), link.Name, nil
		}
		if err != nil && !errors.Is(err, ErrNoCredential) {
			errs = append(errs, fmt.Errorf("%s: %w", link.Name, err))
		}
	}
	if len(errs) > 0 {
		return "", "", errors.Join(append([]error{ErrNoCredential}, errs...)...)
	}
	return "", "", ErrNoCredential
}

// Sources lists the provider names in lookup order.
func (c *Chain) Sources() []string {
	out := make([]string, len(c.links))
	for i, l := range c.links {
		out[i] = l.Name
	}
	return out
}
