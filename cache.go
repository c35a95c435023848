package avroskema

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of schemas a Cache keeps when NewCache is
// given a non-positive size.
var DefaultCacheSize = 128

// Cache shares translated schema trees between callers. Trees are keyed by
// FingerprintText, so equivalent schema texts share one tree. A Cache is safe
// for concurrent use.
type Cache struct {
	byText *lru.Cache[textKey, uint64]
	byFP   *lru.Cache[uint64, Schema]
}

// textKey memoizes a text under the limits it was parsed with, so a stricter
// caller never gets a tree parsed under looser limits.
type textKey struct {
	text string
	opt  ParseOpt
}

// NewCache returns a Cache holding up to size schemas.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	byText, err := lru.New[textKey, uint64](size)
	if err != nil {
		return nil, fmt.Errorf("creating schema text LRU: %w", err)
	}
	byFP, err := lru.New[uint64, Schema](size)
	if err != nil {
		return nil, fmt.Errorf("creating schema fingerprint LRU: %w", err)
	}
	return &Cache{byText: byText, byFP: byFP}, nil
}

// Load returns the tree of schema text, parsing it on a miss. A text whose
// tree was evicted is parsed again, so Load and Get agree on what is cached.
func (c *Cache) Load(text string, opts ...ParseOpt) (Schema, error) {
	key := textKey{text: text, opt: parseOptOf(opts)}
	if fp, ok := c.byText.Get(key); ok {
		if s, ok := c.byFP.Get(fp); ok {
			return s, nil
		}
	}
	s, err := Parse(text, key.opt)
	if err != nil {
		return nil, err
	}
	fp := FingerprintText(s)
	if prev, ok, _ := c.byFP.PeekOrAdd(fp, s); ok {
		s = prev
	}
	c.byText.Add(key, fp)
	return s, nil
}

// Get returns the cached tree with the given FingerprintText.
func (c *Cache) Get(fp uint64) (Schema, bool) { return c.byFP.Get(fp) }

// Len returns the number of cached trees.
func (c *Cache) Len() int { return c.byFP.Len() }
