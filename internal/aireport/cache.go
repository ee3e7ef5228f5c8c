package aireport

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"sync"
	"time"
)

// DefaultCacheTTL is how long a generated report stays reusable for the same
// subject and record set.
const DefaultCacheTTL = time.Hour

// CacheKey hashes the subject and its record set. Record order does not
// matter: the same set always maps to the same key.
func CacheKey(subjectID string, recordIDs []string) string {
	ids := make([]string, len(recordIDs))
	copy(ids, recordIDs)
	sort.Strings(ids)
	sum := sha256.Sum256([]byte(subjectID + ":" + strings.Join(ids, ":")))
	return hex.EncodeToString(sum[:])
}

type cacheEntry struct {
	content  []byte
	storedAt time.Time
}

// Cache holds validated report content in memory. Expired entries are
// evicted lazily on lookup.
type Cache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// Lookup returns a copy of the cached content when present and fresh.
func (c *Cache) Lookup(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.storedAt) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	out := make([]byte, len(entry.content))
	copy(out, entry.content)
	return out, true
}

func (c *Cache) Store(key string, content []byte) {
	buf := make([]byte, len(content))
	copy(buf, content)

	c.mu.Lock()
	c.entries[key] = cacheEntry{content: buf, storedAt: c.now()}
	c.mu.Unlock()
}
