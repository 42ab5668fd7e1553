// Package export renders concluded fixtures as CSV for download into the
// desk's spreadsheets.
package export

import (
	"github.com/gocarina/gocsv"

	"chartdesk/api/internal/search"
)

// FixtureRow is one CSV line of the fixtures export.
type FixtureRow struct {
	DealID         string `csv:"deal_id"`
	Route          string `csv:"route"`
	Cargo          string `csv:"cargo"`
	Size           string `csv:"size"`
	Basis          string `csv:"load_basis"`
	Vessel         string `csv:"vessel"`
	Owners         string `csv:"owners"`
	Freight        string `csv:"freight"`
	Laycan         string `csv:"laycan"`
	LoadPorts      string `csv:"load_ports"`
	DischargePorts string `csv:"discharge_ports"`
	FixedRound     int    `csv:"fixed_round"`
	FixedAt        string `csv:"fixed_at"`
}

// FixturesCSV marshals fixtures into a CSV document with a header row.
func FixturesCSV(fixtures []search.FixtureRecord) ([]byte, error) {
	rows := make([]*FixtureRow, 0, len(fixtures))
	for _, f := range fixtures {
		rows = append(rows, &FixtureRow{
			DealID:         f.ID,
			Route:          f.Route,
			Cargo:          f.Cargo,
			Size:           f.Size,
			Basis:          f.Basis,
			Vessel:         f.Vessel,
			Owners:         f.Owners,
			Freight:        f.Freight,
			Laycan:         f.Laycan,
			LoadPorts:      f.LoadPorts,
			DischargePorts: f.DischargePorts,
			FixedRound:     f.FixedRound,
			FixedAt:        f.FixedAt,
		})
	}
	return gocsv.MarshalBytes(rows)
}
