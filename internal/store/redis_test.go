package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"chartdesk/api/internal/terms"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStoreWithClient(client), mr
}

func sampleState(dealID string) DealState {
	now := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	return DealState{
		Deal: Deal{
			ID:        dealID,
			Tags:      Tags{Route: "ECI", Cargo: "CPO", Size: "12kt", Basis: "ex-Padang"},
			CreatedAt: now,
			UpdatedAt: now,
		},
		Rounds: []Round{{
			ID:            "rnd_1",
			DealID:        dealID,
			Number:        1,
			CreatedAt:     now,
			LastUpdatedAt: now,
			Status:        RoundInProgress,
			Offer:         terms.Map{terms.Freight: "USD 30 pmt"},
		}},
		Ledger: Ledger{
			Header: Header{Vessel: HeaderUnknown, Owners: HeaderUnknown},
			Terms:  terms.Map{terms.Freight: "USD 30 pmt"},
		},
	}
}

func TestRedisStoreRoundTrip(t *testing.T) {
	s, _ := newTestRedisStore(t)
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
}

func TestRedisStoreSaveReplacesWholeState(t *testing.T) {
	s, _ := newTestRedisStore(t)
	ctx := context.Background()

	state := sampleState("deal-1")
	if err := s.SaveDeal(ctx, state); err != nil {
		t.Fatalf("SaveDeal() error = %v", err)
	}

	state.Rounds = state.Rounds[:0]
	state.Ledger.Terms = terms.Map{}
	if err := s.SaveDeal(ctx, state); err != nil {
		t.Fatalf("SaveDeal() error = %v", err)
	}

	got, _, err := s.LoadDeal(ctx, "deal-1")
	if err != nil {
		t.Fatalf("LoadDeal() error = %v", err)
	}
	if len(got.Rounds) != 0 {
		t.Fatalf("save must replace, not merge: %+v", got.Rounds)
	}
}

func TestRedisStoreMalformedBlobReadsAsAbsent(t *testing.T) {
	s, mr := newTestRedisStore(t)
	ctx := context.Background()

	mr.Set(dealKey("deal-bad"), "{not json")
	mr.SAdd(dealIndexKey, "deal-bad")

	_, found, err := s.LoadDeal(ctx, "deal-bad")
	if err != nil {
		t.Fatalf("malformed blob must not error, got %v", err)
	}
	if found {
		t.Fatalf("malformed blob should read as absent")
	}

	// Listing skips it too.
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

func TestRedisStoreCommentary(t *testing.T) {
	s, _ := newTestRedisStore(t)
	ctx := context.Background()

	first := Commentary{ID: "note_1", Route: "ECI", Movement: "Up", Recommendation: "Hold"}
	second := Commentary{ID: "note_2", Route: "China", Movement: "Soft", Recommendation: "Fix early"}
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
}

func TestRedisStoreDeleteAll(t *testing.T) {
	s, _ := newTestRedisStore(t)
	ctx := context.Background()

	if err := s.SaveDeal(ctx, sampleState("deal-1")); err != nil {
		t.Fatalf("SaveDeal() error = %v", err)
	}
	if err := s.SaveCommentary(ctx, Commentary{ID: "note_1", Route: "ECI", Movement: "Up"}); err != nil {
		t.Fatalf("SaveCommentary() error = %v", err)
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
	items, err := s.ListCommentary(ctx)
	if err != nil {
		t.Fatalf("ListCommentary() error = %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no commentary after wipe, got %+v", items)
	}
}
