// Package cache provides TTL caches for generated grids and cell hints.
package cache

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/okian/momentgrid/pkg/metrics"
)

// Cache is a key-value store with per-entry lifetimes. A miss never fails:
// callers compute the value and store it.
type Cache[V any] interface {
	// Get returns a live entry.
	Get(ctx context.Context, key string) (V, bool)
	// Set stores v for ttl. A non-positive ttl uses the cache default.
	Set(ctx context.Context, key string, v V, ttl time.Duration)
	// GetOrLoad returns a live entry or runs load once per key across
	// concurrent callers and stores its result. Errors are not cached.
	// The shared load is not cancelled when one caller's ctx is; a caller
	// whose ctx ends stops waiting and gets ctx.Err().
	GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(ctx context.Context) (V, error)) (V, error)
	// Delete removes key.
	Delete(ctx context.Context, key string)
	// Clear removes every entry and resets the counters. Loads in flight
	// when Clear runs do not store their results.
	Clear(ctx context.Context)
	// Stats reports live keys and hit counters.
	Stats() Stats
	// Close stops background sweeping.
	Close() error
}

// Stats is a point-in-time view of cache effectiveness.
type Stats struct {
	Name    string  `json:"name"`
	Keys    int     `json:"keys"`
	Hits    uint64  `json:"hits"`
	Misses  uint64  `json:"misses"`
	HitRate float64 `json:"hitRate"`
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

var (
	_ Cache[int] = (*TTL[int])(nil)
	_ Cache[int] = (*Noop[int])(nil)
)

// TTL is an in-memory Cache with lazy expiry on read and periodic sweeping.
type TTL[V any] struct {
	name string
	cfg  settings

	mu      sync.RWMutex
	entries map[string]entry[V]
	gen     uint64 // bumped by Clear

	hits   atomic.Uint64
	misses atomic.Uint64

	group singleflight.Group

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewTTL creates a TTL cache. name labels its metrics.
func NewTTL[V any](name string, opts ...Option) *TTL[V] {
	c := &TTL[V]{
		name:    name,
		cfg:     defaultSettings(),
		entries: make(map[string]entry[V]),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(&c.cfg)
	}
	if c.cfg.sweepInterval > 0 {
		go c.sweepLoop()
	} else {
		close(c.done)
	}
	return c
}

// Get returns a live entry.
func (c *TTL[V]) Get(_ context.Context, key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && c.cfg.now().Before(e.expiresAt) {
		c.hits.Add(1)
		metrics.RecordCacheHit(c.name)
		return e.value, true
	}
	c.misses.Add(1)
	metrics.RecordCacheMiss(c.name)
	var zero V
	return zero, false
}

// Set stores v for ttl.
func (c *TTL[V]) Set(_ context.Context, key string, v V, ttl time.Duration) {
	c.mu.Lock()
	c.setLocked(key, v, ttl)
	n := len(c.entries)
	c.mu.Unlock()
	metrics.UpdateCacheSize(c.name, n)
}

// setLocked stores v. Must be called with c.mu held.
func (c *TTL[V]) setLocked(key string, v V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.cfg.defaultTTL
	}
	now := c.cfg.now()
	if _, exists := c.entries[key]; !exists && c.cfg.maxEntries > 0 && len(c.entries) >= c.cfg.maxEntries {
		c.evictLocked(now)
	}
	c.entries[key] = entry[V]{value: v, expiresAt: now.Add(ttl)}
}

// GetOrLoad returns a live entry or loads it once per key and generation.
func (c *TTL[V]) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(ctx context.Context) (V, error)) (V, error) {
	if v, ok := c.Get(ctx, key); ok {
		return v, nil
	}
	c.mu.RLock()
	gen := c.gen
	c.mu.RUnlock()

	// Callers arriving after a Clear start a new flight instead of joining one
	// that may still be computing from data the Clear invalidated.
	flight := strconv.FormatUint(gen, 10) + "/" + key
	ch := c.group.DoChan(flight, func() (any, error) {
		// A concurrent loader may have finished between Get and DoChan.
		c.mu.RLock()
		e, ok := c.entries[key]
		c.mu.RUnlock()
		if ok && c.cfg.now().Before(e.expiresAt) {
			return e.value, nil
		}
		v, err := load(context.WithoutCancel(ctx))
		if err != nil {
			return v, err
		}
		c.mu.Lock()
		stored := c.gen == gen
		if stored {
			c.setLocked(key, v, ttl)
		}
		n := len(c.entries)
		c.mu.Unlock()
		if stored {
			metrics.UpdateCacheSize(c.name, n)
		}
		return v, nil
	})

	var zero V
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(V), nil //nolint:forcetypeassert // the flight only returns V
	}
}

// Delete removes key.
func (c *TTL[V]) Delete(_ context.Context, key string) {
	c.mu.Lock()
	delete(c.entries, key)
	n := len(c.entries)
	c.mu.Unlock()
	metrics.UpdateCacheSize(c.name, n)
}

// Clear removes every entry and resets the counters.
func (c *TTL[V]) Clear(_ context.Context) {
	c.mu.Lock()
	c.entries = make(map[string]entry[V])
	c.gen++
	c.mu.Unlock()
	c.hits.Store(0)
	c.misses.Store(0)
	metrics.UpdateCacheSize(c.name, 0)
}

// Stats reports live keys and hit counters.
func (c *TTL[V]) Stats() Stats {
	now := c.cfg.now()
	c.mu.RLock()
	keys := 0
	for _, e := range c.entries {
		if now.Before(e.expiresAt) {
			keys++
		}
	}
	c.mu.RUnlock()
	hits, misses := c.hits.Load(), c.misses.Load()
	st := Stats{Name: c.name, Keys: keys, Hits: hits, Misses: misses}
	if total := hits + misses; total > 0 {
		st.HitRate = float64(hits) / float64(total)
	}
	return st
}

// Close stops the sweeper and waits for it to exit.
func (c *TTL[V]) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	<-c.done
	return nil
}

// Sweep drops expired entries and returns how many were removed.
func (c *TTL[V]) Sweep() int {
	now := c.cfg.now()
	c.mu.Lock()
	removed := 0
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
			removed++
		}
	}
	n := len(c.entries)
	c.mu.Unlock()
	metrics.UpdateCacheSize(c.name, n)
	return removed
}

func (c *TTL[V]) sweepLoop() {
	defer close(c.done)
	ticker := time.NewTicker(c.cfg.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.Sweep()
		}
	}
}

// evictLocked drops expired entries, or the entry closest to expiry when none
// has expired. Must be called with c.mu held.
func (c *TTL[V]) evictLocked(now time.Time) {
	var victim string
	var soonest time.Time
	found := false
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
			continue
		}
		if !found || e.expiresAt.Before(soonest) {
			victim, soonest, found = k, e.expiresAt, true
		}
	}
	if len(c.entries) >= c.cfg.maxEntries && found {
		delete(c.entries, victim)
	}
}
