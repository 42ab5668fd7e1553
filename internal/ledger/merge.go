// Package ledger implements the consolidated-ledger projection and the
// reconciliation of counterparty offers against it. Everything here is pure
// in-memory work over a DealState's ledger; persistence is the caller's job.
package ledger

import (
	"strings"

	"chartdesk/api/internal/store"
	"chartdesk/api/internal/terms"
)

// Merge applies one negotiation round's data to the ledger: a fill-if-empty
// pass with the counterparty offer, then an unconditional override pass with
// the manager's counter values. Fill is first-writer-wins across rounds;
// overrides always win. The riders clause is reasserted on every merge.
func Merge(l *store.Ledger, offer, overrides terms.Map, riders string) {
	if l.Terms == nil {
		l.Terms = terms.Map{}
	}

	for _, f := range terms.Fields() {
		if terms.Empty(l.Terms[f.Key]) && !terms.Empty(offer[f.Key]) {
			l.Terms[f.Key] = strings.TrimSpace(offer[f.Key])
		}
	}
	mergeHeader(&l.Header, offer, false)

	for _, f := range terms.Fields() {
		if !terms.Empty(overrides[f.Key]) {
			l.Terms[f.Key] = strings.TrimSpace(overrides[f.Key])
		}
	}
	mergeHeader(&l.Header, overrides, true)

	if riders != "" {
		l.Header.Riders = riders
	}
}

// mergeHeader fills header fields from a term map. The "TBN" placeholder
// counts as empty so a real vessel or counterparty name can still land.
func mergeHeader(h *store.Header, m terms.Map, override bool) {
	set := func(dst *string, key string) {
		v := strings.TrimSpace(m[key])
		if v == "" {
			return
		}
		if override || headerEmpty(*dst) {
			*dst = v
		}
	}
	set(&h.Vessel, terms.Vessel)
	set(&h.Owners, terms.Owners)
	set(&h.Operator, terms.Operator)
	set(&h.Broker, terms.Broker)
}

func headerEmpty(v string) bool {
	return terms.Empty(v) || strings.EqualFold(strings.TrimSpace(v), store.HeaderUnknown)
}

// SetField writes one field directly, bypassing both merge passes. Used for
// desk edits and for accepting an owner's value from the reconciliation view;
// always authoritative. Unknown keys are ignored.
func SetField(l *store.Ledger, key, value string) bool {
	if l.Terms == nil {
		l.Terms = terms.Map{}
	}
	value = strings.TrimSpace(value)
	switch {
	case terms.IsTermField(key):
		l.Terms[key] = value
	case key == terms.Vessel:
		l.Header.Vessel = value
	case key == terms.Owners:
		l.Header.Owners = value
	case key == terms.Operator:
		l.Header.Operator = value
	case key == terms.Broker:
		l.Header.Broker = value
	default:
		return false
	}
	return true
}

// NewLedger returns the lazily-created ledger for a fresh deal: header fields
// at the "TBN" placeholder, the standing riders clause applied, no terms.
func NewLedger(cpForm, riders string) store.Ledger {
	return store.Ledger{
		Header: store.Header{
			Vessel: store.HeaderUnknown,
			Owners: store.HeaderUnknown,
			CPForm: cpForm,
			Riders: riders,
		},
		Terms: terms.Map{},
	}
}
