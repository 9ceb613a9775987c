package cache

import (
	"fmt"
	"strings"

	"ratesync/internal/domain"

	"github.com/dgraph-io/ristretto"
)

// RistrettoRowCache remembers destination row ids by natural key within one run.
// Entries are hints: a miss simply falls through to a destination query.
type RistrettoRowCache struct {
	cache *ristretto.Cache
}

func NewRowCache(maxItems int64) (*RistrettoRowCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters:        10 * maxItems,
		MaxCost:            maxItems,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create row cache failed: %w", err)
	}
	return &RistrettoRowCache{cache: c}, nil
}

func (c *RistrettoRowCache) Get(q domain.RowQuery) (string, bool) {
	if v, ok := c.cache.Get(toKey(q)); ok {
		id, ok := v.(string)
		return id, ok
	}
	return "", false
}

// Set waits for the write to be applied so the next record sees it.
func (c *RistrettoRowCache) Set(q domain.RowQuery, rowID string) {
	c.cache.Set(toKey(q), rowID, 1)
	c.cache.Wait()
}

func (c *RistrettoRowCache) Close() { c.cache.Close() }

func toKey(q domain.RowQuery) string {
	parts := make([]string, 0, len(q))
	for _, cond := range q {
		parts = append(parts, cond.Property+"|"+string(cond.Type)+"="+cond.Equals)
	}
	return strings.Join(parts, "&")
}
