package classify

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStore_RecordAndListRecent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for i, cat := range []Category{CategoryPayment, CategoryApproval, CategorySwap} {
		err := store.Record(ctx, &Record{
			ID:             string(rune('a' + i)),
			Classification: Classification{Category: cat, Tone: ToneInfo},
			ClassifiedAt:   time.Now(),
		})
		if err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	recent, err := store.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recent))
	}
	// Most recent first
	if recent[0].Classification.Category != CategorySwap {
		t.Errorf("expected swap first, got %s", recent[0].Classification.Category)
	}
	if recent[1].Classification.Category != CategoryApproval {
		t.Errorf("expected approval second, got %s", recent[1].Classification.Category)
	}
}

func TestMemoryStore_ListEmpty(t *testing.T) {
	store := NewMemoryStore()
	recent, err := store.ListRecent(context.Background(), 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if recent != nil {
		t.Errorf("expected nil for empty store, got %v", recent)
	}
}
