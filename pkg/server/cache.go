package server

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/goliatone/go-suggest/pkg/suggest"
)

const (
	// DefaultCacheTTL bounds how long a generated dictionary is served
	// before models are read again.
	DefaultCacheTTL = 5 * time.Minute

	defaultCleanupInterval = 10 * time.Minute
	snapshotKey            = "snapshot"
)

// snapshot is the generated state shared by every handler. epoch is the
// cache epoch the generation started in.
type snapshot struct {
	result suggest.Result
	store  *suggest.Store
	epoch  uint64
}

// resultCache drops writes computed before the most recent flush, so an
// invalidation racing with a generation never caches the stale result.
type resultCache struct {
	cache *gocache.Cache
	ttl   time.Duration

	mu    sync.Mutex
	epoch uint64
}

func newResultCache(ttl time.Duration) *resultCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &resultCache{
		cache: gocache.New(ttl, defaultCleanupInterval),
		ttl:   ttl,
	}
}

func (c *resultCache) snapshot() (*snapshot, bool) {
	value, found := c.cache.Get(snapshotKey)
	if !found {
		return nil, false
	}
	snap, ok := value.(*snapshot)
	return snap, ok
}

// currentEpoch is read before starting work whose result will be cached.
func (c *resultCache) currentEpoch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}

// setSnapshot stores snap unless the cache was flushed after snap.epoch.
func (c *resultCache) setSnapshot(snap *snapshot) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if snap.epoch != c.epoch {
		return false
	}
	c.cache.Set(snapshotKey, snap, c.ttl)
	return true
}

func (c *resultCache) rendered(key string) ([]byte, bool) {
	value, found := c.cache.Get(key)
	if !found {
		return nil, false
	}
	out, ok := value.([]byte)
	return out, ok
}

func (c *resultCache) setRendered(key string, out []byte, epoch uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch != c.epoch {
		return false
	}
	c.cache.Set(key, out, c.ttl)
	return true
}

func (c *resultCache) flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	c.cache.Flush()
}

func (c *resultCache) len() int {
	return c.cache.ItemCount()
}
