package utils

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CacheItem 包装缓存数据和过期时间
type CacheItem[V any] struct {
	Data      V
	ExpiresAt time.Time
}

// TTLCache 本地 LRU 缓存，每个条目带过期时间
type TTLCache[K comparable, V any] struct {
	lruCache *lru.Cache[K, CacheItem[V]]
	ttl      time.Duration

	mu  sync.RWMutex
	now func() time.Time
}

// NewTTLCache creates a cache holding at most size entries, each valid for ttl.
func NewTTLCache[K comparable, V any](size int, ttl time.Duration) (*TTLCache[K, V], error) {
	l, err := lru.New[K, CacheItem[V]](size)
	if err != nil {
		return nil, err
	}
	return &TTLCache[K, V]{lruCache: l, ttl: ttl, now: time.Now}, nil
}

// SetClock replaces the time source. Tests only.
func (c *TTLCache[K, V]) SetClock(now func() time.Time) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}

func (c *TTLCache[K, V]) clock() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now()
}

// Set 设置缓存
func (c *TTLCache[K, V]) Set(key K, data V) {
	c.lruCache.Add(key, CacheItem[V]{
		Data:      data,
		ExpiresAt: c.clock().Add(c.ttl),
	})
}

// Get 获取缓存，若不存在或已过期则返回 false
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	var zero V
	val, ok := c.lruCache.Get(key)
	if !ok {
		return zero, false
	}

	if !c.clock().Before(val.ExpiresAt) {
		c.lruCache.Remove(key)
		return zero, false
	}

	return val.Data, true
}

// Delete 删除指定缓存
func (c *TTLCache[K, V]) Delete(key K) {
	c.lruCache.Remove(key)
}
