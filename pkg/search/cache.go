package search

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/matst80/slask-filters/pkg/common/jsoncompat"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskfilters_search_cache_hits_total",
		Help: "The total number of searches served from cache",
	})
	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskfilters_search_cache_misses_total",
		Help: "The total number of searches sent to the backend",
	})
)

var ErrCacheMiss = errors.New("cache miss")

type Cache interface {
	Get(ctx context.Context, key string, out any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

type localEntry struct {
	expires time.Time
	data    []byte
}

// RedisCache keeps a short lived copy of every value in memory in front of
// redis.
type RedisCache struct {
	client   *redis.Client
	LocalTTL time.Duration

	mu       sync.Mutex
	memCache map[string]localEntry
}

func NewRedisCache(addr, password string, db int) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisCache{client: rdb, LocalTTL: time.Minute, memCache: make(map[string]localEntry)}
}

func (c *RedisCache) local(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.memCache[key]
	if !ok {
		return nil, false
	}
	if entry.expires.Before(time.Now()) {
		delete(c.memCache, key)
		return nil, false
	}
	return entry.data, true
}

func (c *RedisCache) store(key string, data []byte, expiration time.Duration) {
	ttl := c.LocalTTL
	if expiration > 0 && expiration < ttl {
		ttl = expiration
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.memCache[key] = localEntry{expires: time.Now().Add(ttl), data: data}
}

func (c *RedisCache) Get(ctx context.Context, key string, out any) error {
	if data, ok := c.local(key); ok {
		return jsoncompat.Unmarshal(data, out)
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	if err := jsoncompat.Unmarshal(data, out); err != nil {
		return err
	}
	c.store(key, data, c.LocalTTL)
	return nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	data, err := jsoncompat.Marshal(value)
	if err != nil {
		return err
	}
	c.store(key, data, expiration)
	return c.client.Set(ctx, key, data, expiration).Err()
}

// Sweep drops expired local entries and returns how many were dropped.
func (c *RedisCache) Sweep() int {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	dropped := 0
	for key, entry := range c.memCache {
		if entry.expires.Before(now) {
			delete(c.memCache, key)
			dropped++
		}
	}
	return dropped
}

// LocalLen is the number of entries in the local layer.
func (c *RedisCache) LocalLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.memCache)
}

// Run sweeps the local layer every interval until ctx is done.
func (c *RedisCache) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = c.LocalTTL
	}
	ticker := time.NewTicker(max(interval, 10*time.Millisecond))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Sweep()
		}
	}
}

// Flush drops every entry whose key starts with prefix.
func (c *RedisCache) Flush(ctx context.Context, prefix string) (int, error) {
	c.mu.Lock()
	for key := range c.memCache {
		if strings.HasPrefix(key, prefix) {
			delete(c.memCache, key)
		}
	}
	c.mu.Unlock()

	removed := 0
	iter := c.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, iter.Err()
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// CachedClient serves repeated queries from a cache. Cache failures fall
// through to the backend.
type CachedClient struct {
	Client Client
	Cache  Cache
	TTL    time.Duration
	Prefix string
}

func NewCachedClient(client Client, cache Cache, ttl time.Duration) *CachedClient {
	return &CachedClient{Client: client, Cache: cache, TTL: ttl, Prefix: "search:"}
}

func (c *CachedClient) Key(q Query) (string, error) {
	q.Sanitize()
	data, err := jsoncompat.Marshal(q)
	if err != nil {
		return "", err
	}
	return c.Prefix + strconv.FormatUint(xxhash.Sum64(data), 16), nil
}

func (c *CachedClient) Search(ctx context.Context, q Query) (*Result, error) {
	key, err := c.Key(q)
	if err != nil {
		return c.Client.Search(ctx, q)
	}
	var cached Result
	if err := c.Cache.Get(ctx, key, &cached); err == nil {
		cacheHits.Inc()
		return &cached, nil
	}
	cacheMisses.Inc()
	res, err := c.Client.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	if err := c.Cache.Set(ctx, key, res, c.TTL); err != nil {
		log.Printf("Failed to cache search result: %v", err)
	}
	return res, nil
}
