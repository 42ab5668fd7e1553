package ledger

import (
	"testing"

	"chartdesk/api/internal/store"
	"chartdesk/api/internal/terms"
)

func TestMergeFillIsFirstWriterWins(t *testing.T) {
	l := NewLedger("", "standard riders")

	Merge(&l, terms.Map{terms.Freight: "USD 30 pmt"}, nil, "standard riders")
	Merge(&l, terms.Map{terms.Freight: "USD 31 pmt"}, nil, "standard riders")

	if l.Terms[terms.Freight] != "USD 30 pmt" {
		t.Fatalf("expected first stated freight to hold, got %q", l.Terms[terms.Freight])
	}
}

func TestMergeOverrideAlwaysWins(t *testing.T) {
	l := NewLedger("", "")

	Merge(&l, terms.Map{terms.Freight: "USD 30 pmt"}, nil, "")
	Merge(&l, terms.Map{terms.Freight: "USD 31 pmt"}, terms.Map{terms.Freight: "USD 32 pmt"}, "")

	if l.Terms[terms.Freight] != "USD 32 pmt" {
		t.Fatalf("expected override to win, got %q", l.Terms[terms.Freight])
	}

	// A later fill pass must not displace the override either.
	Merge(&l, terms.Map{terms.Freight: "USD 29 pmt"}, nil, "")
	if l.Terms[terms.Freight] != "USD 32 pmt" {
		t.Fatalf("expected override to survive later fills, got %q", l.Terms[terms.Freight])
	}
}

func TestMergeFillTrimsValues(t *testing.T) {
	l := NewLedger("", "")
	Merge(&l, terms.Map{terms.Laycan: "  10-15 Oct  "}, nil, "")
	if l.Terms[terms.Laycan] != "10-15 Oct" {
		t.Fatalf("expected trimmed value, got %q", l.Terms[terms.Laycan])
	}
}

func TestMergeHeaderTreatsPlaceholderAsEmpty(t *testing.T) {
	l := NewLedger("", "")
	if l.Header.Vessel != store.HeaderUnknown {
		t.Fatalf("fresh ledger vessel should be %q, got %q", store.HeaderUnknown, l.Header.Vessel)
	}

	Merge(&l, terms.Map{terms.Vessel: "MT Ocean Jade"}, nil, "")
	if l.Header.Vessel != "MT Ocean Jade" {
		t.Fatalf("expected vessel name to replace placeholder, got %q", l.Header.Vessel)
	}

	// Once a real name landed, fills no longer displace it.
	Merge(&l, terms.Map{terms.Vessel: "MT Other"}, nil, "")
	if l.Header.Vessel != "MT Ocean Jade" {
		t.Fatalf("expected first real vessel to hold, got %q", l.Header.Vessel)
	}

	// But an override does.
	Merge(&l, nil, terms.Map{terms.Vessel: "MT Substitute"}, "")
	if l.Header.Vessel != "MT Substitute" {
		t.Fatalf("expected override vessel, got %q", l.Header.Vessel)
	}
}

func TestMergeReassertsRiders(t *testing.T) {
	l := NewLedger("", "standing riders")
	l.Header.Riders = "tampered"

	Merge(&l, terms.Map{terms.Freight: "USD 30 pmt"}, nil, "standing riders")
	if l.Header.Riders != "standing riders" {
		t.Fatalf("expected riders reasserted on merge, got %q", l.Header.Riders)
	}
}

func TestSetFieldDirectWrite(t *testing.T) {
	l := NewLedger("", "")
	l.Terms[terms.Freight] = "USD 30 pmt"

	if !SetField(&l, terms.Freight, "USD 28 pmt") {
		t.Fatalf("expected freight to be a known field")
	}
	if l.Terms[terms.Freight] != "USD 28 pmt" {
		t.Fatalf("expected direct write to win, got %q", l.Terms[terms.Freight])
	}

	if !SetField(&l, terms.Owners, "Pacific Carriers") {
		t.Fatalf("expected owners to be a known field")
	}
	if l.Header.Owners != "Pacific Carriers" {
		t.Fatalf("expected header write, got %q", l.Header.Owners)
	}

	if SetField(&l, "no_such_field", "x") {
		t.Fatalf("expected unknown field to be rejected")
	}
}
