package search

import (
	"context"
	"errors"
	"testing"
)

func testFixtures() []FixtureRecord {
	return []FixtureRecord{
		{ID: "eci-lubuk-gaung-kandla-20261001", Route: "ECI", Cargo: "CPO", Size: "12kt", Vessel: "MT Ocean Jade", Freight: "USD 32 pmt", FixedAt: "2026-10-05T09:00:00Z"},
		{ID: "china-dumai-zhangjiagang-20260901", Route: "China", Cargo: "Olein", Size: "18.5kt", Vessel: "MT Golden Curl", Freight: "USD 41 pmt", FixedAt: "2026-09-10T09:00:00Z"},
		{ID: "eci-dumai-haldia-20260801", Route: "ECI", Cargo: "CPO", Size: "12kt", Vessel: "MT Sea Lotus", Freight: "USD 28 pmt", FixedAt: "2026-08-15T09:00:00Z"},
	}
}

func newScanService(fixtures []FixtureRecord, err error) *Service {
	return NewService(nil, func(context.Context) ([]FixtureRecord, error) {
		return fixtures, err
	})
}

func TestScanSubstringMatch(t *testing.T) {
	svc := newScanService(testFixtures(), nil)

	resp := svc.Search(context.Background(), Query{Text: "ocean jade"})
	if resp.Total != 1 || len(resp.Results) != 1 {
		t.Fatalf("expected one hit, got %+v", resp)
	}
	if resp.Results[0].Vessel != "MT Ocean Jade" {
		t.Fatalf("unexpected hit: %+v", resp.Results[0])
	}
}

func TestScanFilters(t *testing.T) {
	svc := newScanService(testFixtures(), nil)

	resp := svc.Search(context.Background(), Query{FilterRoute: "ECI"})
	if resp.Total != 2 {
		t.Fatalf("route filter: expected 2, got %d", resp.Total)
	}
	// Newest fixture first.
	if resp.Results[0].ID != "eci-lubuk-gaung-kandla-20261001" {
		t.Fatalf("expected newest first, got %s", resp.Results[0].ID)
	}

	resp = svc.Search(context.Background(), Query{FilterRoute: "ECI", Text: "haldia"})
	if resp.Total != 1 || resp.Results[0].ID != "eci-dumai-haldia-20260801" {
		t.Fatalf("combined filter and text: %+v", resp)
	}
}

func TestScanPagination(t *testing.T) {
	svc := newScanService(testFixtures(), nil)

	resp := svc.Search(context.Background(), Query{Limit: 2})
	if resp.Total != 3 || len(resp.Results) != 2 {
		t.Fatalf("limit: total=%d results=%d", resp.Total, len(resp.Results))
	}

	resp = svc.Search(context.Background(), Query{Limit: 2, Offset: 2})
	if len(resp.Results) != 1 {
		t.Fatalf("offset: expected the last fixture, got %d", len(resp.Results))
	}

	resp = svc.Search(context.Background(), Query{Offset: 10})
	if len(resp.Results) != 0 || resp.Results == nil {
		t.Fatalf("offset past end: expected empty non-nil slice, got %#v", resp.Results)
	}
}

func TestScanLoaderErrorYieldsEmptyResponse(t *testing.T) {
	svc := newScanService(nil, errors.New("store down"))

	resp := svc.Search(context.Background(), Query{Text: "anything"})
	if resp.Results == nil || len(resp.Results) != 0 || resp.Total != 0 {
		t.Fatalf("expected empty response on loader failure, got %+v", resp)
	}
}
