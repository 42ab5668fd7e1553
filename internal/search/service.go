package search

import (
	"context"
	"log"
	"sort"
	"strings"
)

// Loader reads the current fixture records from primary storage. It backs
// both the fallback scan and reindexing after a Meilisearch recovery.
type Loader func(ctx context.Context) ([]FixtureRecord, error)

// Service is the facade that tries Meilisearch first and falls back to an
// in-store substring scan.
type Service struct {
	meili  *Meili
	loader Loader
}

// NewService creates a fixture search service. meili may be nil if
// Meilisearch is not configured.
func NewService(meili *Meili, loader Loader) *Service {
	return &Service{meili: meili, loader: loader}
}

// Search tries Meilisearch if healthy, otherwise scans the store.
func (s *Service) Search(ctx context.Context, q Query) Response {
	if s.meili != nil && s.meili.Healthy() {
		results, total, err := s.meili.Search(q)
		if err == nil {
			return Response{Results: nonNil(results), Total: total, Query: q.Text}
		}
		log.Printf("search: meilisearch error, falling back to scan: %v", err)
	}

	results, total, err := s.scan(ctx, q)
	if err != nil {
		log.Printf("search: fixture scan error: %v", err)
		return Response{Results: []FixtureRecord{}, Total: 0, Query: q.Text}
	}
	return Response{Results: nonNil(results), Total: total, Query: q.Text}
}

// scan is the Meilisearch-free path: case-insensitive substring match over
// every field the index would otherwise cover, newest fixture first.
func (s *Service) scan(ctx context.Context, q Query) ([]FixtureRecord, int, error) {
	fixtures, err := s.loader(ctx)
	if err != nil {
		return nil, 0, err
	}

	needle := strings.ToLower(strings.TrimSpace(q.Text))
	var matched []FixtureRecord
	for _, f := range fixtures {
		if q.FilterRoute != "" && f.Route != q.FilterRoute {
			continue
		}
		if q.FilterCargo != "" && f.Cargo != q.FilterCargo {
			continue
		}
		if q.FilterSize != "" && f.Size != q.FilterSize {
			continue
		}
		if needle != "" && !fixtureMatches(f, needle) {
			continue
		}
		matched = append(matched, f)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].FixedAt > matched[j].FixedAt
	})

	total := len(matched)
	limit := q.Limit
	if limit == 0 {
		limit = 50
	}
	if q.Offset >= len(matched) {
		return []FixtureRecord{}, total, nil
	}
	matched = matched[q.Offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func fixtureMatches(f FixtureRecord, needle string) bool {
	haystacks := []string{
		f.ID, f.Route, f.Cargo, f.Size, f.Basis,
		f.Vessel, f.Owners, f.Freight, f.Laycan,
		f.LoadPorts, f.DischargePorts,
	}
	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}

// IndexFixture indexes a fixture (fire-and-forget to Meilisearch).
func (s *Service) IndexFixture(f FixtureRecord) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.IndexFixture(f); err != nil {
			log.Printf("search: index fixture %s: %v", f.ID, err)
		}
	}()
}

// DeleteFixture removes a fixture from the search index (fire-and-forget).
func (s *Service) DeleteFixture(id string) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.DeleteFixture(id); err != nil {
			log.Printf("search: delete fixture %s: %v", id, err)
		}
	}()
}

// ReindexAll reads the current fixtures from storage and pushes them to
// Meilisearch. Called at startup when Meilisearch is healthy.
func (s *Service) ReindexAll(ctx context.Context) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	fixtures, err := s.loader(ctx)
	if err != nil {
		log.Printf("search: reindex load failed: %v", err)
		return
	}
	if err := s.meili.IndexFixtures(fixtures); err != nil {
		log.Printf("search: reindex fixtures: %v", err)
	}
}

func nonNil(r []FixtureRecord) []FixtureRecord {
	if r == nil {
		return []FixtureRecord{}
	}
	return r
}
