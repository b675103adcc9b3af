package cache

import (
	"context"
	"testing"
	"time"

	"github.com/totegamma/saucebox/internal/domain"
)

func TestLocalSauceCache(t *testing.T) {
	c := NewLocalSauceCache()
	ctx := context.Background()

	if _, ok := c.Get(ctx, "s1"); ok {
		t.Fatalf("expected miss on empty cache")
	}

	c.Set(ctx, domain.Sauce{ID: "s1", Name: "Sriracha", Likes: 2})
	got, ok := c.Get(ctx, "s1")
	if !ok || got.Name != "Sriracha" || got.Likes != 2 {
		t.Fatalf("unexpected cached sauce %+v %v", got, ok)
	}

	c.Invalidate(ctx, "s1")
	if _, ok := c.Get(ctx, "s1"); ok {
		t.Fatalf("expected miss after invalidate")
	}
}

func TestLocalSauceCacheDropsFillAfterInvalidate(t *testing.T) {
	c := NewLocalSauceCache()
	c.holdoff = 50 * time.Millisecond
	ctx := context.Background()

	// a read loaded the sauce before the write and fills after its invalidate
	c.Invalidate(ctx, "s1")
	c.Set(ctx, domain.Sauce{ID: "s1", Name: "stale"})
	if got, ok := c.Get(ctx, "s1"); ok {
		t.Fatalf("expected the racing fill to be dropped, got %+v", got)
	}

	time.Sleep(100 * time.Millisecond)

	c.Set(ctx, domain.Sauce{ID: "s1", Name: "fresh"})
	got, ok := c.Get(ctx, "s1")
	if !ok || got.Name != "fresh" {
		t.Fatalf("expected fills to resume after the holdoff, got %+v %v", got, ok)
	}
}

func TestLocalSauceCacheSetKeepsExisting(t *testing.T) {
	c := NewLocalSauceCache()
	ctx := context.Background()

	c.Set(ctx, domain.Sauce{ID: "s1", Name: "first"})
	c.Set(ctx, domain.Sauce{ID: "s1", Name: "second"})
	if got, _ := c.Get(ctx, "s1"); got.Name != "first" {
		t.Fatalf("expected the first fill to stay, got %+v", got)
	}
}
