package history

import (
	"context"
	"testing"
)

func TestBadgerRoundtrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewBadgerStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewBadgerStore() error = %v", err)
	}
	defer store.Close()

	exchanges := []Exchange{
		{UserID: "u1", Query: "q1", Answer: "a1", Meta: map[string]any{"retrieved": 3}},
		{UserID: "u1", Query: "q2", Answer: "a2"},
		{UserID: "u2", Query: "other", Answer: "a"},
	}
	for _, e := range exchanges {
		if err := store.Save(ctx, e); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	recent, err := store.Recent(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d exchanges, want 2", len(recent))
	}
	if recent[0].Query != "q1" || recent[1].Query != "q2" {
		t.Errorf("order = %q, %q, want q1, q2", recent[0].Query, recent[1].Query)
	}
	if recent[0].CreatedAt.IsZero() {
		t.Error("CreatedAt should be set on save")
	}
}

func TestBadgerRecentLimit(t *testing.T) {
	ctx := context.Background()
	store, err := NewBadgerStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	for _, q := range []string{"q1", "q2", "q3"} {
		if err := store.Save(ctx, Exchange{UserID: "u1", Query: q}); err != nil {
			t.Fatal(err)
		}
	}

	recent, err := store.Recent(ctx, "u1", 2)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(recent) != 2 || recent[0].Query != "q2" {
		t.Errorf("Recent(2) = %+v, want the two most recent, oldest first", recent)
	}
}

func TestBadgerClear(t *testing.T) {
	ctx := context.Background()
	store, err := NewBadgerStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if err := store.Save(ctx, Exchange{UserID: "u1", Query: "q"}); err != nil {
		t.Fatal(err)
	}
	removed, err := store.Clear(ctx, "u1")
	if err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("Clear() removed = %d, want 1", removed)
	}

	recent, _ := store.Recent(ctx, "u1", 10)
	if len(recent) != 0 {
		t.Errorf("history should be empty after Clear, got %d", len(recent))
	}
}

func TestBadgerPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewBadgerStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Save(ctx, Exchange{UserID: "u1", Query: "durable"}); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := NewBadgerStore(dir)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	recent, err := reopened.Recent(ctx, "u1", 1)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(recent) != 1 || recent[0].Query != "durable" {
		t.Errorf("Recent() after reopen = %+v, want the saved exchange", recent)
	}
}
