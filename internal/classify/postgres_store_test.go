//go:build integration

package classify

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"
)

func setupTestDB(t *testing.T) (*PostgresStore, func()) {
	t.Helper()

	dbURL := os.Getenv("POSTGRES_URL")
	if dbURL == "" {
		t.Skip("POSTGRES_URL not set, skipping integration test")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	store := NewPostgresStore(db)
	ctx := context.Background()

	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	cleanup := func() {
		db.ExecContext(ctx, "DELETE FROM classifications")
		db.Close()
	}

	return store, cleanup
}

func TestPostgresClassify_RecordAndList(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	rec := &Record{
		ID: "cls_test001",
		Request: SigningRequest{
			Kind:        KindTransaction,
			Destination: "0xaaaa000000000000000000000000000000000001",
			Calldata:    "0x095ea7b3",
		},
		Classification: Classification{
			Category: CategoryApproval,
			Tone:     ToneWarn,
			Detail:   "erc20 approve",
		},
		ClassifiedAt: time.Now(),
	}

	if err := store.Record(ctx, rec); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	got, err := store.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(got))
	}
	if got[0].Classification.Category != CategoryApproval {
		t.Errorf("Category: got %s, want %s", got[0].Classification.Category, CategoryApproval)
	}
	if got[0].Request.Calldata != "0x095ea7b3" {
		t.Errorf("Request not round-tripped: %+v", got[0].Request)
	}
}

func TestPostgresClassify_ListRecentOrder(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	for i, cat := range []Category{CategoryPayment, CategorySwap, CategoryStake} {
		rec := &Record{
			ID:             "cls_order00" + string(rune('1'+i)),
			Request:        SigningRequest{Kind: KindTransaction},
			Classification: Classification{Category: cat, Tone: ToneInfo},
			ClassifiedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.Record(ctx, rec); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	got, err := store.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(got))
	}
	// Most recent first
	if got[0].Classification.Category != CategoryStake {
		t.Errorf("Expected stake first, got %s", got[0].Classification.Category)
	}
}
