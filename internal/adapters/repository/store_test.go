package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aadsidhu-design/flexa-sub004/internal/domain/model"
)

func summary(id string, reps int) model.SessionSummary {
	return model.SessionSummary{
		SessionID:         id,
		Detector:          model.KindPendulum,
		RepCount:          reps,
		AverageSmoothness: 70,
	}
}

func TestMemoryStore_BasicOperations(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	// Test empty store
	if count := store.Count(ctx); count != 0 {
		t.Errorf("expected count 0, got %d", count)
	}

	// Test put
	if err := store.Put(ctx, summary("session1", 5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count := store.Count(ctx); count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}

	// Test get
	got, err := store.Get(ctx, "session1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.RepCount != 5 {
		t.Errorf("expected rep count 5, got %d", got.RepCount)
	}

	// Test get of unknown session
	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	// Test replace keeps the count stable
	if err := store.Put(ctx, summary("session1", 8)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count := store.Count(ctx); count != 1 {
		t.Errorf("expected count 1 after replace, got %d", count)
	}
	got, _ = store.Get(ctx, "session1")
	if got.RepCount != 8 {
		t.Errorf("expected rep count 8 after replace, got %d", got.RepCount)
	}
}

func TestMemoryStore_RejectsMissingID(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.Put(ctx, model.SessionSummary{}); !errors.Is(err, ErrMissingSessionID) {
		t.Errorf("expected ErrMissingSessionID, got %v", err)
	}
	if count := store.Count(ctx); count != 0 {
		t.Errorf("expected count 0, got %d", count)
	}
}

func TestMemoryStore_List(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for i := 1; i <= 5; i++ {
		id := fmt.Sprintf("session%d", i)
		if err := store.Put(ctx, summary(id, i)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// Most recently finished first
	got, err := store.List(ctx, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 summaries, got %d", len(got))
	}
	for i, want := range []string{"session5", "session4", "session3"} {
		if got[i].SessionID != want {
			t.Errorf("expected %s at position %d, got %s", want, i, got[i].SessionID)
		}
	}

	// A limit above the population returns everything
	got, err = store.List(ctx, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 5 {
		t.Errorf("expected 5 summaries, got %d", len(got))
	}

	// Non-positive limits are rejected
	if _, err := store.List(ctx, 0); !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("expected ErrInvalidLimit, got %v", err)
	}
	if _, err := store.List(ctx, -1); !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("expected ErrInvalidLimit, got %v", err)
	}
}

func TestMemoryStore_Eviction(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(WithMaxSessions(3))

	for i := 1; i <= 5; i++ {
		id := fmt.Sprintf("session%d", i)
		if err := store.Put(ctx, summary(id, i)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if count := store.Count(ctx); count != 3 {
		t.Errorf("expected count capped at 3, got %d", count)
	}

	// Oldest sessions were evicted
	for _, id := range []string{"session1", "session2"} {
		if _, err := store.Get(ctx, id); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected %s to be evicted, got %v", id, err)
		}
	}
	for _, id := range []string{"session3", "session4", "session5"} {
		if _, err := store.Get(ctx, id); err != nil {
			t.Errorf("expected %s to survive, got %v", id, err)
		}
	}
}

func TestMemoryStore_Close(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.Put(ctx, summary("session1", 1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count := store.Count(ctx); count != 0 {
		t.Errorf("expected count 0 after close, got %d", count)
	}
}
