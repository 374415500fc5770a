// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name string `json:"name"`
}

// memCache is an in-memory Cache for tests.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	puts int
}

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[key]
	return b, ok, nil
}

func (m *memCache) Put(_ context.Context, key string, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = map[string][]byte{}
	}
	m.data[key] = body
	m.puts++
	return nil
}

func TestGetJSONSuccess(t *testing.T) {
	var gotUA, gotKey string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotKey = r.Header.Get("x-api-key")
		fmt.Fprint(w, `{"name":"Amy Jones"}`)
	}))
	defer ts.Close()

	c := NewClient(time.Second, "test/0.1", WithHeader("x-api-key", "secret"))
	var p payload
	require.NoError(t, c.GetJSON(context.Background(), ts.URL, &p))

	assert.Equal(t, "Amy Jones", p.Name)
	assert.Equal(t, "test/0.1", gotUA)
	assert.Equal(t, "secret", gotKey)
}

func TestGetJSONEmptyHeaderNotSent(t *testing.T) {
	var present bool
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present = r.Header["X-Api-Key"]
		fmt.Fprint(w, `{}`)
	}))
	defer ts.Close()

	c := NewClient(time.Second, "test/0.1", WithHeader("x-api-key", ""))
	require.NoError(t, c.GetJSON(context.Background(), ts.URL, &payload{}))
	assert.False(t, present)
}

func TestGetJSONStatusErrorNoRetry(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, "slow down")
	}))
	defer ts.Close()

	c := NewClient(time.Second, "test/0.1")
	err := c.GetJSON(context.Background(), ts.URL, &payload{})

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
	assert.Equal(t, "slow down", se.Body)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGetJSONMalformed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{not json`)
	}))
	defer ts.Close()

	err := NewClient(time.Second, "test/0.1").GetJSON(context.Background(), ts.URL, &payload{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing response")
}

func TestGetJSONContextCancelled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewClient(time.Second, "test/0.1").GetJSON(ctx, ts.URL, &payload{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGetJSONCached(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		fmt.Fprint(w, `{"name":"cached"}`)
	}))
	defer ts.Close()

	cache := &memCache{}
	c := NewClient(time.Second, "test/0.1", WithCache(cache))

	for i := 0; i < 3; i++ {
		var p payload
		require.NoError(t, c.GetJSONCached(context.Background(), ts.URL, &p))
		assert.Equal(t, "cached", p.Name)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, 1, cache.puts)

	// Uncached requests always reach the server.
	require.NoError(t, c.GetJSON(context.Background(), ts.URL, &payload{}))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGetJSONCachedDoesNotStoreErrors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	cache := &memCache{}
	c := NewClient(time.Second, "test/0.1", WithCache(cache))
	require.Error(t, c.GetJSONCached(context.Background(), ts.URL, &payload{}))
	assert.Equal(t, 0, cache.puts)
}

// brokenCache fails every read and write.
type brokenCache struct{}

func (brokenCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("database is locked")
}

func (brokenCache) Put(context.Context, string, []byte) error {
	return errors.New("disk full")
}

func TestGetJSONCachedLogsCacheFailures(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"name":"fresh"}`)
	}))
	defer ts.Close()

	var logs bytes.Buffer
	c := NewClient(time.Second, "test/0.1",
		WithCache(brokenCache{}),
		WithLogger(zerolog.New(&logs).Level(zerolog.DebugLevel)),
	)

	var p payload
	require.NoError(t, c.GetJSONCached(context.Background(), ts.URL, &p))
	assert.Equal(t, "fresh", p.Name)
	assert.Contains(t, logs.String(), "cache read failed")
	assert.Contains(t, logs.String(), "database is locked")
	assert.Contains(t, logs.String(), "cache write failed")
	assert.Contains(t, logs.String(), "disk full")
}

func TestRateLimit(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer ts.Close()

	c := NewClient(time.Second, "test/0.1", WithRateLimit(20, 1))
	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, c.GetJSON(context.Background(), ts.URL, &payload{}))
	}
	// Burst 1 at 20 req/s: the 2nd and 3rd requests wait ~50ms each.
	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
}

func TestRateLimitDisabled(t *testing.T) {
	c := NewClient(0, "test/0.1", WithRateLimit(0, 4))
	assert.Nil(t, c.limiter)
	assert.Equal(t, DefaultTimeout, c.HTTP.Timeout)
}
