package search

// FixtureRecord is the data we index for a concluded fixture.
type FixtureRecord struct {
	ID             string `json:"id"`
	Route          string `json:"route"`
	Cargo          string `json:"cargo"`
	Size           string `json:"size"`
	Basis          string `json:"basis"`
	Vessel         string `json:"vessel"`
	Owners         string `json:"owners"`
	Freight        string `json:"freight"`
	Laycan         string `json:"laycan"`
	LoadPorts      string `json:"loadPorts"`
	DischargePorts string `json:"dischargePorts"`
	FixedRound     int    `json:"fixedRound"`
	FixedAt        string `json:"fixedAt"`
}

// Query describes a fixture search request.
type Query struct {
	Text        string
	FilterRoute string
	FilterCargo string
	FilterSize  string
	Limit       int
	Offset      int
}

// Response is the envelope returned by the fixtures endpoint.
type Response struct {
	Results []FixtureRecord `json:"results"`
	Total   int             `json:"total"`
	Query   string          `json:"query"`
}

// Searcher can execute a full-text search over fixtures.
type Searcher interface {
	Search(q Query) ([]FixtureRecord, int, error)
	Healthy() bool
}

// Indexer can push fixtures into a search index.
type Indexer interface {
	IndexFixture(f FixtureRecord) error
	IndexFixtures(fixtures []FixtureRecord) error
	DeleteFixture(id string) error
}
