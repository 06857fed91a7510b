package tokenstore

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/lunamood/lunamood/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// brokenKV fails every operation, simulating an unusable local database.
type brokenKV struct{}

var errBroken = errors.New("storage unavailable")

func (brokenKV) Get(context.Context, string) ([]byte, error) { return nil, errBroken }
func (brokenKV) Set(context.Context, string, []byte) error   { return errBroken }
func (brokenKV) Delete(context.Context, string) error        { return errBroken }
func (brokenKV) Clear(context.Context) error                 { return errBroken }

func TestStore_SetAndGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := NewStore(NewMemoryKV(), NewMemoryKV(), testLogger())
	if err := store.Set(ctx, "tok-1"); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	got, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got != "tok-1" {
		t.Fatalf("token mismatch: got %q", got)
	}

	issued, err := store.IssuedAt(ctx)
	if err != nil {
		t.Fatalf("IssuedAt error: %v", err)
	}
	if time.Since(issued) > time.Minute {
		t.Fatalf("issuance timestamp too old: %v", issued)
	}
}

func TestStore_GetEmpty(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := NewStore(NewMemoryKV(), NewMemoryKV(), testLogger())

	got, err := store.Get(ctx)
	if err != nil || got != "" {
		t.Fatalf("expected empty token without error, got %q, %v", got, err)
	}
	issued, err := store.IssuedAt(ctx)
	if err != nil || !issued.IsZero() {
		t.Fatalf("expected zero time without error, got %v, %v", issued, err)
	}
}

func TestStore_PrimaryFailureFallsBack(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	secondary := NewMemoryKV()
	store := NewStore(brokenKV{}, secondary, testLogger())

	if err := store.Set(ctx, "tok-2"); err != nil {
		t.Fatalf("Set must succeed via fallback, got %v", err)
	}

	// The credential must be readable and must really live in the secondary.
	got, _ := store.Get(ctx)
	if got != "tok-2" {
		t.Fatalf("token mismatch after fallback: got %q", got)
	}
	raw, _ := secondary.Get(ctx, keyAuthToken)
	if string(raw) != "tok-2" {
		t.Fatalf("secondary store does not hold the token: %q", raw)
	}
}

func TestStore_SetFailsWhenBothFail(t *testing.T) {
	t.Parallel()

	store := NewStore(brokenKV{}, brokenKV{}, testLogger())
	if err := store.Set(context.Background(), "tok"); !errors.Is(err, errBroken) {
		t.Fatalf("expected joined storage error, got %v", err)
	}
}

func TestStore_Remove(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	primary := NewMemoryKV()
	secondary := NewMemoryKV()
	store := NewStore(primary, secondary, testLogger())

	// Seed both stores, then Remove must clear both.
	if err := store.Set(ctx, "tok"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := secondary.Set(ctx, keyAuthToken, []byte("stale")); err != nil {
		t.Fatalf("seed secondary: %v", err)
	}

	if err := store.Remove(ctx); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	if got, _ := store.Get(ctx); got != "" {
		t.Fatalf("token survived Remove: %q", got)
	}
}

func TestStore_RemoveReportsResiduals(t *testing.T) {
	t.Parallel()

	store := NewStore(brokenKV{}, NewMemoryKV(), testLogger())
	if err := store.Remove(context.Background()); !errors.Is(err, errBroken) {
		t.Fatalf("expected residual-credential error, got %v", err)
	}
}

func TestStore_RemoveKeepsUnrelatedKeys(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	primary := NewMemoryKV()
	store := NewStore(primary, NewMemoryKV(), testLogger())

	// The guest session shares the metadata store and must survive logout.
	if err := primary.Set(ctx, "guest_id", []byte("g-1")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := store.Set(ctx, "tok"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Remove(ctx); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	raw, _ := primary.Get(ctx, "guest_id")
	if string(raw) != "g-1" {
		t.Fatalf("unrelated key clobbered by Remove: %q", raw)
	}
}

func TestStore_UnparseableTimestamp(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	primary := NewMemoryKV()
	store := NewStore(primary, NewMemoryKV(), testLogger())
	if err := primary.Set(ctx, keyAuthIssuedAt, []byte("garbage")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	issued, err := store.IssuedAt(ctx)
	if err != nil || !issued.IsZero() {
		t.Fatalf("expected zero time for garbage timestamp, got %v, %v", issued, err)
	}
}
