package services

import (
	"strconv"
	"sync"

	lru "github.com/hashicorp/golang-lru"
)

// DefaultCacheSize bounds how many sweeps are kept in memory
const DefaultCacheSize = 16

// ResultCache keeps the rows of recent sweeps keyed by leaderboard and workspace
// generation. A generation bump makes every older entry unreachable; Purge frees them.
type ResultCache struct {
	mu       sync.Mutex
	cache    *lru.Cache
	observer CacheObserver
}

// CacheObserver is notified of every cache lookup
type CacheObserver interface {
	RecordCacheLookup(hit bool)
}

// NewResultCache creates a cache holding up to size sweeps
func NewResultCache(size int) (*ResultCache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &ResultCache{cache: cache}, nil
}

// SetObserver installs a lookup observer
func (c *ResultCache) SetObserver(observer CacheObserver) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observer = observer
}

func cacheKey(kind SweepKind, generation uint64) string {
	return string(kind) + "#" + strconv.FormatUint(generation, 10)
}

// Get returns the cached rows of a sweep
func (c *ResultCache) Get(kind SweepKind, generation uint64) ([]Row, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.cache.Get(cacheKey(kind, generation))
	if c.observer != nil {
		c.observer.RecordCacheLookup(ok)
	}
	if !ok {
		return nil, false
	}
	return value.([]Row), true
}

// Put stores the rows of a sweep
func (c *ResultCache) Put(kind SweepKind, generation uint64, rows []Row) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Add(cacheKey(kind, generation), rows)
}

// Purge drops every cached sweep
func (c *ResultCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Purge()
}

func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.Len()
}
