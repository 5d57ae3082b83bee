package service

import (
	"crypto/sha1"
	"encoding/hex"
	"sync"

	"textrec/internal/similarity"
)

// spaceCache memoizes similarity matrices by a hash of the normalized corpus column.
// Entries are evicted oldest first. A nil or zero-sized cache stores nothing.
// Cached matrices are shared between callers and must be treated as read-only.
type spaceCache struct {
	mu      sync.Mutex
	max     int
	order   []string
	entries map[string]similarity.Matrix
}

func newSpaceCache(size int) *spaceCache {
	if size <= 0 {
		return nil
	}
	return &spaceCache{max: size, entries: make(map[string]similarity.Matrix, size)}
}

func (c *spaceCache) enabled() bool { return c != nil }

func (c *spaceCache) get(key string) (similarity.Matrix, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.entries[key]
	return m, ok
}

func (c *spaceCache) put(key string, m similarity.Matrix) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; ok {
		return
	}
	if len(c.order) >= c.max {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.order = append(c.order, key)
	c.entries[key] = m
}

func (c *spaceCache) len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func snapshotKey(normalized []string) string {
	h := sha1.New()
	for _, s := range normalized {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
