package search

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	meili "github.com/meilisearch/meilisearch-go"
)

const idxFixtures = "chartdesk_fixtures"

// Meili implements Searcher and Indexer via Meilisearch.
type Meili struct {
	client  meili.ServiceManager
	healthy atomic.Bool
	done    chan struct{}
}

// NewMeili creates a Meilisearch client and configures the fixtures index.
// The client keeps probing in the background, so an unreachable instance at
// startup just means the fallback scan serves queries until it recovers.
func NewMeili(url, apiKey string) *Meili {
	client := meili.New(url, meili.WithAPIKey(apiKey))

	m := &Meili{
		client: client,
		done:   make(chan struct{}),
	}

	// Initial health check
	if _, err := client.Health(); err != nil {
		log.Printf("search: meilisearch unavailable at %s: %v", url, err)
		m.healthy.Store(false)
	} else {
		m.healthy.Store(true)
		m.configureIndex()
	}

	go m.healthLoop()
	return m
}

func (m *Meili) configureIndex() {
	if _, err := m.client.CreateIndex(&meili.IndexConfig{
		Uid:        idxFixtures,
		PrimaryKey: "id",
	}); err != nil {
		log.Printf("search: create index %s (may already exist): %v", idxFixtures, err)
	}

	index := m.client.Index(idxFixtures)
	filterable := []interface{}{"route", "cargo", "size"}
	if _, err := index.UpdateFilterableAttributes(&filterable); err != nil {
		log.Printf("search: update filterable attrs for %s: %v", idxFixtures, err)
	}
	searchable := []string{"vessel", "owners", "route", "cargo", "freight", "laycan", "loadPorts", "dischargePorts"}
	if _, err := index.UpdateSearchableAttributes(&searchable); err != nil {
		log.Printf("search: update searchable attrs for %s: %v", idxFixtures, err)
	}
}

func (m *Meili) healthLoop() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			_, err := m.client.Health()
			wasHealthy := m.healthy.Load()
			m.healthy.Store(err == nil)
			if err == nil && !wasHealthy {
				log.Println("search: meilisearch recovered, reconfiguring index")
				m.configureIndex()
			}
		}
	}
}

// Close stops the background health monitor.
func (m *Meili) Close() {
	close(m.done)
}

// Healthy reports whether Meilisearch is reachable.
func (m *Meili) Healthy() bool {
	return m.healthy.Load()
}

// Search queries the fixtures index.
func (m *Meili) Search(q Query) ([]FixtureRecord, int, error) {
	if !m.healthy.Load() {
		return nil, 0, fmt.Errorf("meilisearch unhealthy")
	}

	limit := int64(q.Limit)
	if limit == 0 {
		limit = 50
	}

	sr := &meili.SearchRequest{
		Limit:  limit,
		Offset: int64(q.Offset),
	}

	var filters []string
	if q.FilterRoute != "" {
		filters = append(filters, fmt.Sprintf("route = %q", q.FilterRoute))
	}
	if q.FilterCargo != "" {
		filters = append(filters, fmt.Sprintf("cargo = %q", q.FilterCargo))
	}
	if q.FilterSize != "" {
		filters = append(filters, fmt.Sprintf("size = %q", q.FilterSize))
	}
	if len(filters) > 0 {
		sr.Filter = filters
	}

	resp, err := m.client.Index(idxFixtures).Search(q.Text, sr)
	if err != nil {
		m.healthy.Store(false)
		return nil, 0, fmt.Errorf("meilisearch search: %w", err)
	}

	results := make([]FixtureRecord, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		results = append(results, hitToFixture(hit))
	}
	return results, int(resp.EstimatedTotalHits), nil
}

func hitToFixture(hit meili.Hit) FixtureRecord {
	var f FixtureRecord
	f.ID = decodeString(hit, "id")
	f.Route = decodeString(hit, "route")
	f.Cargo = decodeString(hit, "cargo")
	f.Size = decodeString(hit, "size")
	f.Basis = decodeString(hit, "basis")
	f.Vessel = decodeString(hit, "vessel")
	f.Owners = decodeString(hit, "owners")
	f.Freight = decodeString(hit, "freight")
	f.Laycan = decodeString(hit, "laycan")
	f.LoadPorts = decodeString(hit, "loadPorts")
	f.DischargePorts = decodeString(hit, "dischargePorts")
	f.FixedAt = decodeString(hit, "fixedAt")
	f.FixedRound = decodeInt(hit, "fixedRound")
	return f
}

func decodeString(hit meili.Hit, key string) string {
	raw, ok := hit[key]
	if !ok {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return ""
}

func decodeInt(hit meili.Hit, key string) int {
	raw, ok := hit[key]
	if !ok {
		return 0
	}

	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	return 0
}

// IndexFixture adds or updates a fixture in the search index.
func (m *Meili) IndexFixture(f FixtureRecord) error {
	_, err := m.client.Index(idxFixtures).AddDocuments([]FixtureRecord{f}, nil)
	return err
}

// IndexFixtures bulk-indexes fixtures.
func (m *Meili) IndexFixtures(fixtures []FixtureRecord) error {
	if len(fixtures) == 0 {
		return nil
	}
	_, err := m.client.Index(idxFixtures).AddDocuments(fixtures, nil)
	return err
}

// DeleteFixture removes a fixture from the search index.
func (m *Meili) DeleteFixture(id string) error {
	_, err := m.client.Index(idxFixtures).DeleteDocument(id, nil)
	return err
}
