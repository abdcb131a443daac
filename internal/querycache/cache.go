// Package querycache holds client-side query results keyed by resource and parameters.
package querycache

import (
	"net/url"
	"strings"
	"sync"
)

// Key identifies a cached query: the resource name plus its canonical parameters
type Key struct {
	Resource string
	Params   string
}

// NewKey builds a key with parameters encoded in sorted order, so equal
// parameter sets always produce equal keys.
func NewKey(resource string, params url.Values) Key {
	return Key{Resource: resource, Params: params.Encode()}
}

func (k Key) String() string {
	if k.Params == "" {
		return k.Resource
	}
	return k.Resource + "?" + k.Params
}

// Cache is a concurrency-safe map of query results. The zero value is not usable; use New.
type Cache[V any] struct {
	mu      sync.Mutex
	entries map[Key]V
}

// New creates an empty cache
func New[V any]() *Cache[V] {
	return &Cache[V]{entries: make(map[Key]V)}
}

// Get returns the cached value for key
func (c *Cache[V]) Get(key Key) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

// Put stores value under key, replacing any previous entry
func (c *Cache[V]) Put(key Key, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

// Invalidate drops every entry of resource and returns how many were dropped.
// A resource "posts" also matches nested resources such as "posts/123".
func (c *Cache[V]) Invalidate(resource string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for k := range c.entries {
		if k.Resource == resource || strings.HasPrefix(k.Resource, resource+"/") {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

// InvalidateAll empties the cache
func (c *Cache[V]) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Key]V)
}

// Len returns the number of cached entries
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
