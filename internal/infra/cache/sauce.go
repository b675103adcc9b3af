package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	gocache "github.com/patrickmn/go-cache"

	"github.com/totegamma/saucebox/internal/domain"
)

const (
	keyPrefix      = "sauce:"
	staleSuffix    = ":stale"
	defaultTTL     = 5 * time.Minute
	defaultHoldoff = 10 * time.Second
)

// MemcacheSauceCache stores sauces as JSON in memcached.
type MemcacheSauceCache struct {
	mc      *memcache.Client
	ttl     time.Duration
	holdoff time.Duration
}

func NewMemcacheSauceCache(mc *memcache.Client) *MemcacheSauceCache {
	return &MemcacheSauceCache{mc: mc, ttl: defaultTTL, holdoff: defaultHoldoff}
}

func (c *MemcacheSauceCache) Get(ctx context.Context, id string) (domain.Sauce, bool) {
	item, err := c.mc.Get(keyPrefix + id)
	if err != nil {
		if err != memcache.ErrCacheMiss {
			slog.WarnContext(
				ctx, "memcache get failed",
				slog.String("error", err.Error()),
				slog.String("module", "cache"),
			)
		}
		return domain.Sauce{}, false
	}

	var sauce domain.Sauce
	if err := json.Unmarshal(item.Value, &sauce); err != nil {
		return domain.Sauce{}, false
	}
	return sauce, true
}

// Set fills the cache after a miss. It never overwrites a cached value.
func (c *MemcacheSauceCache) Set(ctx context.Context, sauce domain.Sauce) {
	value, err := json.Marshal(sauce)
	if err != nil {
		return
	}

	key := keyPrefix + sauce.ID
	err = c.mc.Add(&memcache.Item{
		Key:        key,
		Value:      value,
		Expiration: int32(c.ttl.Seconds()),
	})
	if err != nil {
		if err != memcache.ErrNotStored {
			slog.WarnContext(
				ctx, "memcache add failed",
				slog.String("error", err.Error()),
				slog.String("module", "cache"),
			)
		}
		return
	}

	_, err = c.mc.Get(key + staleSuffix)
	if err == memcache.ErrCacheMiss {
		return
	}
	// stale or unknown, drop the fill
	c.mc.Delete(key)
}

// Invalidate drops the sauce and leaves a stale marker for the holdoff period.
// A fill that finds the marker after adding its value removes the value again,
// so a read that raced the write cannot cache what the write replaced.
func (c *MemcacheSauceCache) Invalidate(ctx context.Context, id string) {
	key := keyPrefix + id
	err := c.mc.Set(&memcache.Item{
		Key:        key + staleSuffix,
		Value:      []byte{1},
		Expiration: max(int32(c.holdoff.Seconds()), 1),
	})
	if err != nil {
		slog.WarnContext(
			ctx, "memcache stale marker failed",
			slog.String("error", err.Error()),
			slog.String("module", "cache"),
		)
	}

	err = c.mc.Delete(key)
	if err != nil && err != memcache.ErrCacheMiss {
		slog.WarnContext(
			ctx, "memcache delete failed",
			slog.String("error", err.Error()),
			slog.String("module", "cache"),
		)
	}
}

// LocalSauceCache keeps sauces in process memory. It is used when no
// memcached server is configured.
type LocalSauceCache struct {
	cache   *gocache.Cache
	holdoff time.Duration
}

func NewLocalSauceCache() *LocalSauceCache {
	return &LocalSauceCache{cache: gocache.New(defaultTTL, 2*defaultTTL), holdoff: defaultHoldoff}
}

func (c *LocalSauceCache) Get(ctx context.Context, id string) (domain.Sauce, bool) {
	cached, found := c.cache.Get(keyPrefix + id)
	if !found {
		return domain.Sauce{}, false
	}
	return cached.(domain.Sauce), true
}

func (c *LocalSauceCache) Set(ctx context.Context, sauce domain.Sauce) {
	key := keyPrefix + sauce.ID
	if err := c.cache.Add(key, sauce, gocache.DefaultExpiration); err != nil {
		return
	}
	if _, stale := c.cache.Get(key + staleSuffix); stale {
		c.cache.Delete(key)
	}
}

func (c *LocalSauceCache) Invalidate(ctx context.Context, id string) {
	key := keyPrefix + id
	c.cache.Set(key+staleSuffix, struct{}{}, c.holdoff)
	c.cache.Delete(key)
}
