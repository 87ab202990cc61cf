// Package cache is the id-keyed entry cache in front of the entry store.
// Policy: populate on read miss, overwrite on write. Deletes do not touch the
// cache, so a deleted entry can be served until its TTL lapses; the TTL is
// the only bound on that staleness.
package cache

import (
	"context"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"timeclock/internal/attendance/models"
)

// EntryCache is best-effort: a failed backend read is a miss, a failed write
// is dropped. The store stays authoritative either way.
type EntryCache interface {
	Get(ctx context.Context, id int64) (*models.Entry, bool)
	Set(ctx context.Context, e *models.Entry)
}

// MemoryCache backs the entry cache with an in-process TTL map. Used when no
// Redis URL is configured.
type MemoryCache struct {
	entries *gocache.Cache
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{entries: gocache.New(ttl, 2*ttl)}
}

func (c *MemoryCache) Get(_ context.Context, id int64) (*models.Entry, bool) {
	v, ok := c.entries.Get(strconv.FormatInt(id, 10))
	if !ok {
		return nil, false
	}
	e, ok := v.(models.Entry)
	if !ok {
		return nil, false
	}
	return &e, true
}

func (c *MemoryCache) Set(_ context.Context, e *models.Entry) {
	c.entries.SetDefault(strconv.FormatInt(e.ID, 10), *e)
}
