// Package cache provides disk-backed caching for backend responses whose entries expire individually.
package cache

import (
	"sync"
	"time"

	"github.com/kinogram/kino/filesystem"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

type entry[T any] struct {
	Value    T         `json:"value"`
	StoredAt time.Time `json:"stored_at"`
}

type data[K comparable, T any] struct {
	Entries map[K]entry[T] `json:"entries"`
}

// Cache is a thread-safe key/value cache persisted as a single file.
type Cache[K comparable, T any] struct {
	internal *gache.Cache[*data[K, T]]
	ttl      time.Duration
	now      func() time.Time
	mu       sync.RWMutex
}

// New opens the cache stored at path. Entries older than ttl are treated as missing; a
// non-positive ttl disables expiry.
func New[K comparable, T any](path string, ttl time.Duration) *Cache[K, T] {
	return &Cache[K, T]{
		internal: gache.New[*data[K, T]](
			&gache.Options{
				Path:       path,
				FileSystem: &filesystem.GacheFs{},
			},
		),
		ttl: ttl,
		now: time.Now,
	}
}

func (c *Cache[K, T]) load() (*data[K, T], error) {
	d, expired, err := c.internal.Get()
	if err != nil {
		return nil, err
	}
	if expired || d == nil || d.Entries == nil {
		return &data[K, T]{Entries: make(map[K]entry[T])}, nil
	}
	return d, nil
}

func (c *Cache[K, T]) fresh(e entry[T]) bool {
	return c.ttl <= 0 || c.now().Sub(e.StoredAt) < c.ttl
}

// Get retrieves the value stored under key if it has not expired.
func (c *Cache[K, T]) Get(key K) mo.Option[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	d, err := c.load()
	if err != nil {
		return mo.None[T]()
	}

	e, ok := d.Entries[key]
	if !ok || !c.fresh(e) {
		return mo.None[T]()
	}
	return mo.Some(e.Value)
}

// Set stores value under key.
func (c *Cache[K, T]) Set(key K, value T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	d, err := c.load()
	if err != nil {
		return err
	}

	d.Entries[key] = entry[T]{Value: value, StoredAt: c.now()}
	return c.internal.Set(d)
}

// Delete removes the entry associated with key.
func (c *Cache[K, T]) Delete(key K) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	d, err := c.load()
	if err != nil {
		return err
	}
	if _, ok := d.Entries[key]; !ok {
		return nil
	}

	delete(d.Entries, key)
	return c.internal.Set(d)
}

// Prune drops expired entries and returns how many were removed.
func (c *Cache[K, T]) Prune() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	d, err := c.load()
	if err != nil {
		return 0, err
	}

	stale := lo.PickBy(d.Entries, func(_ K, e entry[T]) bool { return !c.fresh(e) })
	if len(stale) == 0 {
		return 0, nil
	}

	for k := range stale {
		delete(d.Entries, k)
	}
	return len(stale), c.internal.Set(d)
}

// Clear drops every entry.
func (c *Cache[K, T]) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.internal.Set(&data[K, T]{Entries: make(map[K]entry[T])})
}
