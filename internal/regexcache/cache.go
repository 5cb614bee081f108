// Package regexcache provides a bounded, shared cache of compiled regular
// expressions keyed by pattern string.
//
// Formats and filters are frequently re-applied to every chunk the pipeline
// consumer processes; without a cache the same pattern string would be
// recompiled once per chunk.
package regexcache

import (
	"github.com/grafana/regexp"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultSize is the number of distinct patterns kept compiled at once.
// Format and filter patterns are normally a handful per session, so this
// comfortably covers real usage while bounding worst-case memory if a
// caller compiles many one-off patterns (e.g. ad-hoc searches).
const DefaultSize = 512

// Cache compiles and memoizes *regexp.Regexp by pattern string.
type Cache struct {
	lru *lru.Cache[string, *regexp.Regexp]
}

// New creates a Cache holding up to size compiled patterns. A size <= 0
// uses DefaultSize.
func New(size int) *Cache {
	if size <= 0 {
		size = DefaultSize
	}
	l, err := lru.New[string, *regexp.Regexp](size)
	if err != nil {
		// Only returned by golang-lru when size <= 0, which we've just
		// guarded against above.
		panic(err)
	}
	return &Cache{lru: l}
}

// Compile returns the compiled regexp for pattern, compiling and caching it
// on first use. Compile errors are never cached.
func (c *Cache) Compile(pattern string) (*regexp.Regexp, error) {
	if re, ok := c.lru.Get(pattern); ok {
		return re, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	c.lru.Add(pattern, re)
	return re, nil
}
