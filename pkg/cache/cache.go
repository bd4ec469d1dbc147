// Package cache provides the two bounded in-memory caches used by the query
// path: parsed index snapshots keyed by the index file's content hash, and
// package metadata keyed by the artifact md5.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache bounds.
const (
	// IndexCacheSize caps the number of parsed index snapshots.
	IndexCacheSize = 20

	// ShowCacheSize caps the number of package metadata descriptors.
	ShowCacheSize = 100
)

// Cache is a bounded mapping evicting its oldest insertion on overflow.
type Cache[V any] struct {
	lru *lru.Cache[string, V]
}

// New creates a cache holding at most capacity entries.
func New[V any](capacity int) *Cache[V] {
	// lru.New only fails on a non-positive size
	c, err := lru.New[string, V](capacity)
	if err != nil {
		panic(err)
	}
	return &Cache[V]{lru: c}
}

// Get returns the cached value for key. Lookups do not refresh recency, so
// eviction order stays insertion order.
func (c *Cache[V]) Get(key string) (V, bool) {
	return c.lru.Peek(key)
}

// Put stores the value under key, evicting the oldest entry when full.
func (c *Cache[V]) Put(key string, value V) {
	c.lru.Add(key, value)
}

// Len returns the number of cached entries.
func (c *Cache[V]) Len() int {
	return c.lru.Len()
}
