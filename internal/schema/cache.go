package schema

import (
	"bytes"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Adityahash12/agent-api-adapter/internal/payload"
)

// DefaultCacheSize is used when NewCache is given a non-positive size.
const DefaultCacheSize = 128

// Cache is a bounded LRU of compiled schemas. Keys hash the schema document
// in member order, so two documents that differ only in property order are
// cached separately. A hit is only served when the stored document bytes
// equal the requested ones. Cache is safe for concurrent use.
type Cache struct {
	entries *lru.Cache[uint64, cacheEntry]
	hash    func([]byte) uint64
}

type cacheEntry struct {
	doc    []byte
	schema *Schema
}

// NewCache returns a cache holding at most size schemas.
func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}

	// lru.New only fails for a non-positive size.
	entries, _ := lru.New[uint64, cacheEntry](size)

	return &Cache{entries: entries, hash: xxhash.Sum64}
}

// Key returns the cache key of doc.
func Key(doc payload.Value) uint64 {
	data, err := doc.MarshalJSON()
	if err != nil {
		return 0
	}

	return xxhash.Sum64(data)
}

// Key returns the cache key of doc.
func (c *Cache) Key(doc payload.Value) uint64 {
	data, err := doc.MarshalJSON()
	if err != nil {
		return 0
	}

	return c.hash(data)
}

// Get returns the compiled schema for doc, compiling it on a miss.
// Compile errors are returned and not cached.
func (c *Cache) Get(doc payload.Value) (*Schema, error) {
	s, _, err := c.Fetch(doc)
	return s, err
}

// Fetch is Get that also reports whether the schema came from the cache.
func (c *Cache) Fetch(doc payload.Value) (*Schema, bool, error) {
	data, err := doc.MarshalJSON()
	if err != nil {
		s, err := Compile(doc)
		return s, false, err
	}

	key := c.hash(data)

	if e, ok := c.entries.Get(key); ok && bytes.Equal(e.doc, data) {
		return e.schema, true, nil
	}

	s, err := Compile(doc)
	if err != nil {
		return nil, false, err
	}

	c.entries.Add(key, cacheEntry{doc: data, schema: s})

	return s, false, nil
}

// Invalidate drops the schema cached under key.
func (c *Cache) Invalidate(key uint64) {
	c.entries.Remove(key)
}

// Purge drops every cached schema.
func (c *Cache) Purge() {
	c.entries.Purge()
}

// Len returns the number of cached schemas.
func (c *Cache) Len() int {
	return c.entries.Len()
}
