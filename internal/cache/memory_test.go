package cache

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryPutGet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if _, err := m.Get(ctx, "alice"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get on empty store: got %v, want ErrNotFound", err)
	}

	want := []byte("%PDF-1.4 fake")
	if err := m.Put(ctx, "alice", want); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := m.Get(ctx, "alice")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("Get returned %q, want %q", got, want)
	}
}

func TestMemoryOverwrites(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.Put(ctx, "alice", []byte("first")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := m.Put(ctx, "alice", []byte("second")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := m.Get(ctx, "alice")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "second" {
		t.Fatalf("Get returned %q after overwrite, want %q", got, "second")
	}
	owners, err := m.Owners(ctx)
	if err != nil {
		t.Fatalf("Owners: %v", err)
	}
	if len(owners) != 1 {
		t.Fatalf("store holds %d entries for one owner, want 1", len(owners))
	}
}

func TestMemoryDayRollover(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	day1 := time.Date(2026, 8, 31, 23, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return day1 }

	if err := m.Put(ctx, "alice", []byte("day one")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// Still reachable later the same day.
	m.now = func() time.Time { return day1.Add(30 * time.Minute) }
	if _, err := m.Get(ctx, "alice"); err != nil {
		t.Fatalf("Get within the same day: %v", err)
	}

	// Gone after midnight, and the old bucket is dropped entirely.
	m.now = func() time.Time { return day1.Add(2 * time.Hour) }
	if _, err := m.Get(ctx, "alice"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after rollover: got %v, want ErrNotFound", err)
	}
	m.mu.Lock()
	buckets := len(m.buckets)
	m.mu.Unlock()
	if buckets > 1 {
		t.Fatalf("store still holds %d buckets after rollover, want at most 1", buckets)
	}

	owners, err := m.Owners(ctx)
	if err != nil {
		t.Fatalf("Owners: %v", err)
	}
	if len(owners) != 0 {
		t.Fatalf("Owners after rollover: %v, want empty", owners)
	}
}

func TestMemoryCopiesValue(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	pdf := []byte("original")
	if err := m.Put(ctx, "alice", pdf); err != nil {
		t.Fatalf("Put: %v", err)
	}
	pdf[0] = 'X'

	got, err := m.Get(ctx, "alice")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "original" {
		t.Fatal("stored value aliases the caller's slice")
	}
}
