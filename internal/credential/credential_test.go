// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package credential

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// PROVIDER TESTS
// =============================================================================

func TestEnv(t *testing.T) {
	vars := map[string]string{
		"GEMINI_API_KEY": "  from-gemini  ",
		"VITE_API_KEY":   "from-vite",
	}
	env := &Env{lookup: func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}}

	key, err := env.Credential(context.Background())
	require.NoError(t, err)
	require.Equal(t, "from-gemini", key)

	vars["DAILYAI_GEMINI_KEY"] = "from-dailyai"
	key, err = env.Credential(context.Background())
	require.NoError(t, err)
	require.Equal(t, "from-dailyai", key)

	vars = map[string]string{"GEMINI_API_KEY": "   "}
	_, err = env.Credential(context.Background())
	require.ErrorIs(t, err, ErrNoCredential)
}

func TestEnv_RealEnvironment(t *testing.T) {
	t.Setenv("DAILYAI_TEST_KEY", "abc")
	key, err := (&Env{Names: []string{"DAILYAI_TEST_KEY"}}).Credential(context.Background())
	require.NoError(t, err)
	require.Equal(t, "abc", key)
}

func TestStatic(t *testing.T) {
	key, err := Static(" k ").Credential(context.Background())
	require.NoError(t, err)
	require.Equal(t, "k", key)

	_, err = Static("").Credential(context.Background())
	require.ErrorIs(t, err, ErrNoCredential)
}

func TestFingerprintAndMasked(t *testing.T) {
	require.Equal(t, "none", Fingerprint(""))
	require.Len(t, Fingerprint("secret"), 8)
	require.Equal(t, Fingerprint("secret"), Fingerprint(" secret "))
	require.Equal(t, "[not set]", Masked(""))
	require.NotContains(t, Masked("secret"), "secret")
}

// =============================================================================
// CHAIN TESTS
// =============================================================================

func TestChain_Order(t *testing.T) {
	chain, err := NewChain([]string{"store", "env"}, map[string]Provider{
		SourceEnv:   Static("env-key"),
		SourceStore: Static("store-key"),
	})
	require.NoError(t, err)
	require.Equal(t, []string{"store", "env"}, chain.Sources())

	key, source, err := chain.Resolve(context.Background())
	require.NoError(t, err)
	require.Equal(t, "store-key", key)
	require.Equal(t, SourceStore, source)
}

func TestChain_FallsThrough(t *testing.T) {
	storeErr := errors.New("disk on fire")
	chain, err := NewChain(nil, map[string]Provider{
		SourceEnv: Static(""),
		SourceStore: Func(func(context.Context) (string, error) {
			return "", storeErr
		}),
		SourceBuild: Static("built-in"),
	})
	require.NoError(t, err)

	key, source, err := chain.Resolve(context.Background())
	require.NoError(t, err)
	require.Equal(t, "built-in", key)
	require.Equal(t, SourceBuild, source)
}

func TestChain_NoKey(t *testing.T) {
	storeErr := errors.New("disk on fire")
	chain, err := NewChain(nil, map[string]Provider{
		SourceEnv: Static(""),
		SourceStore: Func(func(context.Context) (string, error) {
			return "", storeErr
		}),
	})
	require.NoError(t, err)

	_, err = chain.Credential(context.Background())
	require.ErrorIs(t, err, ErrNoCredential)
	require.ErrorIs(t, err, storeErr)

	empty, err := NewChain(nil, nil)
	require.NoError(t, err)
	_, err = empty.Credential(context.Background())
	require.ErrorIs(t, err, ErrNoCredential)
}

func TestNewChain_RejectsUnknownSource(t *testing.T) {
	_, err := NewChain([]string{"env", "keychain"}, nil)
	require.Error(t, err)
}

func TestNewChain_DeduplicatesAndSkipsMissing(t *testing.T) {
	chain, err := NewChain([]string{"env", "ENV", "redis", "build"}, map[string]Provider{
		SourceEnv:   Static("a"),
		SourceBuild: Static("b"),
	})
	require.NoError(t, err)
	require.Equal(t, []string{"env", "build"}, chain.Sources())
}

// =============================================================================
// SQLITE STORE TESTS
// =============================================================================

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "store.db")

	store, err := OpenSQLite(path)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Get(ctx, GeminiKey)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, GeminiKey, "first"))
	require.NoError(t, store.Set(ctx, GeminiKey, "second"))

	v, err := store.Get(ctx, GeminiKey)
	require.NoError(t, err)
	require.Equal(t, "second", v)

	updated, err := store.UpdatedAt(ctx, GeminiKey)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now(), updated, time.Minute)

	require.NoError(t, store.Delete(ctx, GeminiKey))
	require.ErrorIs(t, store.Delete(ctx, GeminiKey), ErrNotFound)
}

func TestSQLiteStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.db")

	store, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, GeminiKey, "persisted"))
	require.NoError(t, store.Close())

	store, err = OpenSQLite(path)
	require.NoError(t, err)
	defer store.Close()

	key, err := FromStore(store).Credential(ctx)
	require.NoError(t, err)
	require.Equal(t, "persisted", key)
}

func TestSQLiteStore_RestrictsPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits")
	}
	path := filepath.Join(t.TempDir(), "store.db")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	store, err := OpenSQLite(path)
	require.NoError(t, err)
	defer store.Close()

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestStoreProvider_Missing(t *testing.T) {
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	defer store.Close()

	_, err = FromStore(store).Credential(context.Background())
	require.ErrorIs(t, err, ErrNoCredential)

	_, err = (&StoreProvider{}).Credential(context.Background())
	require.ErrorIs(t, err, ErrNoCredential)
}

// =============================================================================
// REDIS STORE TESTS
// =============================================================================

// fakeRedis is an in-memory stand-in for the go-redis client.
type fakeRedis struct {
	data   map[string]string
	failed error
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.failed != nil {
		return redis.NewStringResult("", f.failed)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	f.data[key] = value.(string)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeRedis) Close() error { return nil }

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	fake := &fakeRedis{data: map[string]string{}}
	store := &RedisStore{cli: fake}

	_, err := store.Get(ctx, GeminiKey)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, GeminiKey, "shared"))
	require.Equal(t, "shared", fake.data["dailyai:gemini_api_key"])

	key, err := FromStore(store).Credential(ctx)
	require.NoError(t, err)
	require.Equal(t, "shared", key)

	require.NoError(t, store.Delete(ctx, GeminiKey))
	require.ErrorIs(t, store.Delete(ctx, GeminiKey), ErrNotFound)
}

func TestRedisStore_Failure(t *testing.T) {
	down := errors.New("connection refused")
	store := &RedisStore{cli: &fakeRedis{data: map[string]string{}, failed: down}}

	_, err := FromStore(store).Credential(context.Background())
	require.ErrorIs(t, err, down)
	require.False(t, errors.Is(err, ErrNoCredential))
}

func TestOpenRedis_BadURL(t *testing.T) {
	_, err := OpenRedis(context.Background(), "http://not-redis")
	require.Error(t, err)
}
