package history

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kudosx/claude-skill-browser-use/acquire"
)

func memStore(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	store, err := NewWithDB(db, nil)
	if err != nil {
		t.Fatal(err)
	}
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := memStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i, q := range []string{"cats", "dogs", "birds"} {
		store.Record(ctx, &acquire.Report{
			ID:           string(rune('a' + i)),
			Capability:   "image",
			Query:        q,
			Requested:    5,
			Accepted:     4,
			Materialized: 3,
			TiersUsed:    []string{"image-api", "image-script"},
			Elapsed:      2 * time.Second,
			CreatedAt:    base.Add(time.Duration(i) * time.Hour),
		})
	}

	entries, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Query != "birds" {
		t.Errorf("newest first: got %q", entries[0].Query)
	}
	if entries[0].Materialized != 3 || entries[0].Requested != 5 {
		t.Errorf("counts = %+v", entries[0])
	}
	if len(entries[0].TiersUsed) != 2 {
		t.Errorf("tiers = %v", entries[0].TiersUsed)
	}
	if entries[0].ElapsedMS != 2000 {
		t.Errorf("elapsed = %d", entries[0].ElapsedMS)
	}
}

func TestRecord_FailureIsSwallowed(t *testing.T) {
	store := memStore(t)
	store.db.Close()

	// Must not panic or propagate.
	store.Record(context.Background(), &acquire.Report{ID: "x"})
}

func TestRecent_Empty(t *testing.T) {
	store := memStore(t)
	entries, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %d, want 0", len(entries))
	}
}
