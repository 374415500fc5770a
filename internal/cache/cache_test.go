// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	s, err := Open(t.TempDir(), ttl)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutGet(t *testing.T) {
	s := openTestStore(t, time.Hour)
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "https://api.example.org/a")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, "https://api.example.org/a", []byte(`{"a":1}`)))
	body, ok, err := s.Get(ctx, "https://api.example.org/a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"a":1}`, string(body))

	require.NoError(t, s.Put(ctx, "https://api.example.org/a", []byte(`{"a":2}`)))
	body, _, err = s.Get(ctx, "https://api.example.org/a")
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, string(body))
}

func TestExpiry(t *testing.T) {
	s := openTestStore(t, time.Hour)
	ctx := context.Background()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	require.NoError(t, s.Put(ctx, "k", []byte(`{}`)))

	now = now.Add(30 * time.Minute)
	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(time.Hour)
	_, ok, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := s.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestOpenCreatesDatabase(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cache")
	s, err := Open(dir, 0)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, DefaultTTL, s.ttl)
	_, err = os.Stat(filepath.Join(dir, dbFile))
	assert.NoError(t, err)
}

func TestReopenKeepsEntries(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := Open(dir, time.Hour)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "k", []byte("v")))
	require.NoError(t, s.Close())

	s, err = Open(dir, time.Hour)
	require.NoError(t, err)
	defer s.Close()
	body, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", string(body))
}
