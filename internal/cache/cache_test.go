package cache

import (
	"context"
	"testing"
	"time"

	"github.com/unclebandit/dinerreach/internal/model"
)

func TestMemoryMissUntilSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)

	if _, ok, _ := m.Get(ctx); ok {
		t.Fatalf("expected miss on empty cache")
	}

	m.Set(ctx, 0, []model.Campaign{{ID: 2}, {ID: 1}})
	got, ok, err := m.Get(ctx)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if len(got) != 2 || got[0].ID != 2 {
		t.Errorf("unexpected cached list: %+v", got)
	}
}

func TestMemoryEmptyListIsAHit(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)
	m.Set(ctx, 0, []model.Campaign{})

	if _, ok, _ := m.Get(ctx); !ok {
		t.Errorf("an empty list is still a fresh result")
	}
}

func TestMemoryInvalidate(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)
	m.Set(ctx, 0, []model.Campaign{{ID: 1}})
	m.Invalidate(ctx)

	if _, ok, _ := m.Get(ctx); ok {
		t.Errorf("expected miss after invalidate")
	}
}

func TestMemoryExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory(time.Minute)
	m.now = func() time.Time { return now }

	m.Set(ctx, 0, []model.Campaign{{ID: 1}})
	now = now.Add(30 * time.Second)
	if _, ok, _ := m.Get(ctx); !ok {
		t.Fatalf("expected hit before ttl")
	}
	now = now.Add(time.Minute)
	if _, ok, _ := m.Get(ctx); ok {
		t.Errorf("expected miss after ttl")
	}
}

func TestMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)
	m.Set(ctx, 0, []model.Campaign{{ID: 1, Name: "a"}})

	got, _, _ := m.Get(ctx)
	got[0].Name = "mutated"

	again, _, _ := m.Get(ctx)
	if again[0].Name != "a" {
		t.Errorf("cache leaked its slice")
	}
}

func TestMemoryStaleGenerationSetDropped(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)

	gen, _ := m.Generation(ctx)
	m.Invalidate(ctx)
	if err := m.Set(ctx, gen, []model.Campaign{{ID: 1}}); err != nil {
		t.Fatalf("stale set should be dropped silently, got %v", err)
	}
	if _, ok, _ := m.Get(ctx); ok {
		t.Fatalf("a list read before the invalidation must not be cached")
	}

	fresh, _ := m.Generation(ctx)
	if fresh == gen {
		t.Fatalf("invalidate did not bump the generation")
	}
	m.Set(ctx, fresh, []model.Campaign{{ID: 2}, {ID: 1}})
	got, ok, _ := m.Get(ctx)
	if !ok || len(got) != 2 {
		t.Errorf("expected the current generation to be cached, got ok=%v %+v", ok, got)
	}
}
