package eventlog

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestLog_AppendAndSnapshot(t *testing.T) {
	log := New(0)

	log.Append(OutcomeConnect, "wallet connected")
	log.Append(OutcomeConfirm, "transaction sent")
	log.Append(OutcomeReject, "request rejected")

	snap := log.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(snap))
	}
	// Most recent first
	if snap[0].Outcome != OutcomeReject {
		t.Errorf("expected reject first, got %s", snap[0].Outcome)
	}
	if snap[2].Outcome != OutcomeConnect {
		t.Errorf("expected connect last, got %s", snap[2].Outcome)
	}
	for _, e := range snap {
		if e.ID == "" {
			t.Error("entry missing ID")
		}
		if e.At.IsZero() {
			t.Error("entry missing timestamp")
		}
	}
}

func TestLog_CapEvictsOldest(t *testing.T) {
	log := New(3)

	for i := 0; i < 5; i++ {
		log.Append(OutcomeSubmit, fmt.Sprintf("request %d", i))
	}

	if log.Len() != 3 {
		t.Fatalf("expected cap of 3, got %d", log.Len())
	}

	snap := log.Snapshot()
	if snap[0].Message != "request 4" {
		t.Errorf("expected newest retained, got %q", snap[0].Message)
	}
	if snap[2].Message != "request 2" {
		t.Errorf("expected oldest evicted, got %q", snap[2].Message)
	}
}

func TestLog_ZeroCapUnbounded(t *testing.T) {
	log := New(0)
	for i := 0; i < 100; i++ {
		log.Append(OutcomeSubmit, "entry")
	}
	if log.Len() != 100 {
		t.Errorf("expected 100 entries, got %d", log.Len())
	}
}

func TestLog_WithStore(t *testing.T) {
	store := NewMemoryStore()
	log := New(0).WithStore(store)

	log.Append(OutcomeError, "provider failed")

	// Store appends are async best-effort
	deadline := time.Now().Add(time.Second)
	for {
		entries, err := store.ListRecent(context.Background(), 10)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(entries) == 1 {
			if entries[0].Outcome != OutcomeError {
				t.Errorf("expected error outcome, got %s", entries[0].Outcome)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("store never received entry")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestMemoryStore_ListRecentLimit(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_ = store.Append(ctx, &Entry{
			ID:      fmt.Sprintf("evt_%d", i),
			Outcome: OutcomeSubmit,
			Message: fmt.Sprintf("entry %d", i),
			At:      time.Now(),
		})
	}

	entries, err := store.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2, got %d", len(entries))
	}
	if entries[0].Message != "entry 4" {
		t.Errorf("expected most recent first, got %q", entries[0].Message)
	}
}
