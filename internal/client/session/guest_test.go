package session

import (
	"context"
	"testing"

	"github.com/lunamood/lunamood/internal/client/tokenstore"
)

func TestGuestStore_LoadCreatesStableID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := NewGuestStore(tokenstore.NewMemoryKV())

	first, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if first.ID == "" {
		t.Fatalf("expected a generated guest ID")
	}
	if first.MoodCount != 0 {
		t.Fatalf("fresh guest must have zero moods, got %d", first.MoodCount)
	}

	second, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("guest ID must be stable: %q vs %q", first.ID, second.ID)
	}
}

func TestGuestStore_RecordMoodAndThreshold(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := NewGuestStore(tokenstore.NewMemoryKV())

	g, err := store.RecordMood(ctx)
	if err != nil {
		t.Fatalf("RecordMood error: %v", err)
	}
	if g.MoodCount != 1 || g.NeedsAccount() {
		t.Fatalf("one mood must not trigger the account nudge: %+v", g)
	}

	g, err = store.RecordMood(ctx)
	if err != nil {
		t.Fatalf("RecordMood error: %v", err)
	}
	if g.MoodCount != 2 || !g.NeedsAccount() {
		t.Fatalf("second mood must trigger the account nudge: %+v", g)
	}
}

func TestGuestStore_Clear(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := NewGuestStore(tokenstore.NewMemoryKV())
	g, err := store.RecordMood(ctx)
	if err != nil {
		t.Fatalf("RecordMood error: %v", err)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear error: %v", err)
	}

	fresh, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if fresh.ID == g.ID {
		t.Fatalf("cleared guest must get a new ID")
	}
	if fresh.MoodCount != 0 {
		t.Fatalf("cleared guest must have zero moods, got %d", fresh.MoodCount)
	}
}
