// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package credential

import (
	"context"
	"errors"
	"fmt"
)

// Store is a small string key/value store.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// StoreProvider reads one key from a Store.
type StoreProvider struct {
	Store Store
	Key   string
}

// FromStore returns a provider for the Gemini key in s.
func FromStore(s Store) *StoreProvider {
	return &StoreProvider{Store: s, Key: GeminiKey}
}

// Credential implements Provider. A missing key is ErrNoCredential; any
// other store failure is returned wrapped.
func (p *StoreProvider) Credential(ctx context.Context) (string, error) {
	if p.Store == nil {
		return "", ErrNoCredential
	}
	v, err := p.Store.Get(ctx, p.Key)
	if errors.Is(err, ErrNotFound) {
		return "", ErrNoCredential
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", p.Key, err)
	}
	return Static(v).Credential(ctx)
}
