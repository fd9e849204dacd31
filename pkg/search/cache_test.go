package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCache struct {
	data   map[string][]byte
	getErr error
	setErr error
	sets   int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (m *memoryCache) Get(_ context.Context, key string, out any) error {
	if m.getErr != nil {
		return m.getErr
	}
	data, ok := m.data[key]
	if !ok {
		return ErrCacheMiss
	}
	return sonic.Unmarshal(data, out)
}

func (m *memoryCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.sets++
	if m.setErr != nil {
		return m.setErr
	}
	data, err := sonic.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = data
	return nil
}

type countingClient struct {
	calls int
	err   error
}

func (c *countingClient) Search(_ context.Context, q Query) (*Result, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return &Result{
		Hits:        []Hit{{Id: "1", Title: q.Text}},
		NbHits:      1,
		Page:        q.Page,
		HitsPerPage: q.HitsPerPage,
		Tags:        []FacetValue{{Value: "go", Count: 1}},
	}, nil
}

func TestCachedClientServesRepeatedQueries(t *testing.T) {
	backend := &countingClient{}
	c := NewCachedClient(backend, newMemoryCache(), time.Minute)
	ctx := context.Background()

	first, err := c.Search(ctx, Query{Text: "go"})
	require.NoError(t, err)
	second, err := c.Search(ctx, Query{Text: "go"})
	require.NoError(t, err)

	assert.Equal(t, 1, backend.calls)
	assert.Equal(t, first, second)

	_, err = c.Search(ctx, Query{Text: "go", Page: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, backend.calls)
}

func TestCachedClientFallsThrough(t *testing.T) {
	backend := &countingClient{}
	cache := newMemoryCache()
	cache.getErr = errors.New("connection refused")
	cache.setErr = errors.New("connection refused")
	c := NewCachedClient(backend, cache, time.Minute)

	res, err := c.Search(context.Background(), Query{Text: "go"})
	require.NoError(t, err)
	assert.Equal(t, "go", res.Hits[0].Title)
	assert.Equal(t, 1, cache.sets)

	backend.err = errors.New("backend down")
	_, err = c.Search(context.Background(), Query{Text: "go"})
	assert.Error(t, err)
}

func TestCacheKeyIgnoresDefaults(t *testing.T) {
	c := NewCachedClient(nil, nil, 0)
	a, err := c.Key(Query{Text: "go"})
	require.NoError(t, err)
	b, err := c.Key(Query{Text: "go", Sort: SortDefault, HitsPerPage: DefaultHitsPerPage})
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Regexp(t, "^search:[0-9a-f]+$", a)
}

func TestRedisCacheRunSweepsLocalLayer(t *testing.T) {
	// the redis client is never used, only the local layer is exercised
	c := NewRedisCache("127.0.0.1:0", "", 0)
	t.Cleanup(func() { c.Close() })
	c.store("search:old", []byte(`{}`), time.Millisecond)
	c.store("search:fresh", []byte(`{}`), time.Hour)
	require.Equal(t, 2, c.LocalLen())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx, 10*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return c.LocalLen() == 1 }, time.Second, 5*time.Millisecond)
	_, ok := c.local("search:fresh")
	assert.True(t, ok)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestRedisCacheSweepCountsDropped(t *testing.T) {
	c := NewRedisCache("127.0.0.1:0", "", 0)
	t.Cleanup(func() { c.Close() })
	c.store("a", []byte(`1`), time.Nanosecond)
	c.store("b", []byte(`2`), time.Nanosecond)
	time.Sleep(time.Millisecond)
	assert.Equal(t, 2, c.Sweep())
	assert.Zero(t, c.LocalLen())
}
