// Package recap renders the copy-ready fixture recap for a fixed deal.
// Output is deterministic: the same ledger always yields byte-identical text.
package recap

import (
	"fmt"
	"strings"

	"chartdesk/api/internal/store"
	"chartdesk/api/internal/terms"
)

// Params carries everything the formatter needs. The caller is responsible
// for the fixed-gate; Build itself never refuses.
type Params struct {
	DealID     string
	FixedRound int
	Tags       store.Tags
	Charterers string
	Ledger     store.Ledger
}

const terminator = "*** End of Recap ***"

// Build renders the recap document: title, header block, terms block, Others
// line, terminator. Every tracked field gets a row even when empty; empty
// values render as an em-dash so absence is explicit.
func Build(p Params) string {
	h := p.Ledger.Header
	t := p.Ledger.Terms

	lines := []string{
		fmt.Sprintf("RECAP – %s / %s / %s (%s)", orDash(p.Tags.Route), orDash(p.Tags.Cargo), orDash(p.Tags.Size), orDash(p.Tags.Basis)),
		fmt.Sprintf("Deal: %s   Round: %d", orDash(p.DealID), p.FixedRound),
		"",
		line("Charterers", p.Charterers),
		line("Vessel", h.Vessel),
		line("Owners", h.Owners),
		line("Operator", h.Operator),
		line("Broker", h.Broker),
		line("CP Form", h.CPForm),
		line("Riders", h.Riders),
		"",
	}

	for _, f := range terms.Fields() {
		if f.Key == terms.OtherTerms {
			continue
		}
		value := t[f.Key]
		if f.Key == terms.CargoQty && terms.Empty(value) && p.Tags.Cargo != "" {
			value = p.Tags.Cargo
		}
		lines = append(lines, line(f.Label, value))
	}

	others := strings.TrimSpace(t[terms.OtherTerms])
	if others == "" {
		others = strings.TrimSpace(h.Riders)
	}
	lines = append(lines,
		"",
		line("Others", others),
		"",
		terminator,
	)

	return strings.Join(lines, "\n")
}

func line(label, value string) string {
	return label + "\t" + orDash(value)
}

func orDash(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "—"
	}
	return v
}
