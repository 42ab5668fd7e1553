package store

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"chartdesk/api/internal/terms"
)

func newTestPostgresStore(t *testing.T) (*PostgresStore, *sql.DB) {
	t.Helper()
	dsn := strings.TrimSpace(os.Getenv("CHARTDESK_TEST_DATABASE_URL"))
	if dsn == "" {
		t.Skip("CHARTDESK_TEST_DATABASE_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s, err := OpenPostgres(ctx, dsn)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("open raw handle: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.ExecContext(ctx, `TRUNCATE deal_states, commentary`); err != nil {
		t.Fatalf("reset tables: %v", err)
	}
	return s, db
}

func TestPostgresStoreRoundTrip(t *testing.T) {
	s, _ := newTestPostgresStore(t)
	ctx := context.Background()

	if _, found, err := s.LoadDeal(ctx, "deal-1"); err != nil || found {
		t.Fatalf("fresh store: found=%v err=%v", found, err)
	}

	want := sampleState("deal-1")
	if err := s.SaveDeal(ctx, want); err != nil {
		t.Fatalf("SaveDeal() error = %v", err)
	}

	got, found, err := s.LoadDeal(ctx, "deal-1")
	if err != nil {
		t.Fatalf("LoadDeal() error = %v", err)
	}
	if !found {
		t.Fatalf("expected deal to be found after save")
	}
	if got.Deal.ID != "deal-1" || len(got.Rounds) != 1 || got.Rounds[0].Offer[terms.Freight] != "USD 30 pmt" {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
	if got.Ledger.Header.Vessel != HeaderUnknown {
		t.Fatalf("expected header placeholder to survive, got %q", got.Ledger.Header.Vessel)
	}

	// Saving again replaces the whole row.
	want.Rounds = want.Rounds[:0]
	want.Ledger.Terms = terms.Map{}
	if err := s.SaveDeal(ctx, want); err != nil {
		t.Fatalf("SaveDeal() error = %v", err)
	}
	got, _, err = s.LoadDeal(ctx, "deal-1")
	if err != nil {
		t.Fatalf("LoadDeal() error = %v", err)
	}
	if len(got.Rounds) != 0 {
		t.Fatalf("save must replace, not merge: %+v", got.Rounds)
	}
}

func TestPostgresStoreMalformedBlobReadsAsAbsent(t *testing.T) {
	s, db := newTestPostgresStore(t)
	ctx := context.Background()

	// Valid jsonb, but not a DealState.
	if _, err := db.ExecContext(ctx, `
		INSERT INTO deal_states (deal_id, state) VALUES ('deal-bad', '[]'::jsonb)
	`); err != nil {
		t.Fatalf("insert bad row: %v", err)
	}

	_, found, err := s.LoadDeal(ctx, "deal-bad")
	if err != nil {
		t.Fatalf("malformed blob must not error, got %v", err)
	}
	if found {
		t.Fatalf("malformed blob should read as absent")
	}

	if err := s.SaveDeal(ctx, sampleState("deal-ok")); err != nil {
		t.Fatalf("SaveDeal() error = %v", err)
	}
	states, err := s.ListDeals(ctx)
	if err != nil {
		t.Fatalf("ListDeals() error = %v", err)
	}
	if len(states) != 1 || states[0].Deal.ID != "deal-ok" {
		t.Fatalf("expected only the healthy deal, got %+v", states)
	}
}

func TestPostgresStoreCommentaryAndWipe(t *testing.T) {
	s, _ := newTestPostgresStore(t)
	ctx := context.Background()

	now := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	first := Commentary{ID: "note_1", CreatedAt: now, Route: "ECI", Movement: "Up", Recommendation: "Hold"}
	second := Commentary{ID: "note_2", CreatedAt: now.Add(time.Minute), Route: "China", Movement: "Soft", Recommendation: "Fix early"}
	if err := s.SaveCommentary(ctx, first); err != nil {
		t.Fatalf("SaveCommentary() error = %v", err)
	}
	if err := s.SaveCommentary(ctx, second); err != nil {
		t.Fatalf("SaveCommentary() error = %v", err)
	}

	items, err := s.ListCommentary(ctx)
	if err != nil {
		t.Fatalf("ListCommentary() error = %v", err)
	}
	if len(items) != 2 || items[0].ID != "note_2" {
		t.Fatalf("expected newest first, got %+v", items)
	}

	if err := s.SaveDeal(ctx, sampleState("deal-1")); err != nil {
		t.Fatalf("SaveDeal() error = %v", err)
	}
	if err := s.DeleteAll(ctx); err != nil {
		t.Fatalf("DeleteAll() error = %v", err)
	}
	states, err := s.ListDeals(ctx)
	if err != nil {
		t.Fatalf("ListDeals() error = %v", err)
	}
	if len(states) != 0 {
		t.Fatalf("expected empty store after wipe, got %+v", states)
	}
	items, err = s.ListCommentary(ctx)
	if err != nil {
		t.Fatalf("ListCommentary() error = %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no commentary after wipe, got %+v", items)
	}
}
