// Package terms defines the canonical term-field schema shared by the ledger,
// the reconciliation view and the recap. Synonym handling happens here, once,
// so the merge logic never has to guess key spellings.
package terms

import (
	"sort"
	"strings"
)

// Canonical term-field keys, in fixed display order.
const (
	Laycan         = "laycan"
	CargoQty       = "cargo_qty"
	LoadPorts      = "load_ports"
	DischargePorts = "discharge_ports"
	Freight        = "freight"
	AddlLoadDisch  = "addl_2nd_load_disch"
	Laytime        = "laytime"
	Demurrage      = "demurrage"
	Payment        = "payment"
	Heating        = "heating"
	Subjects       = "subjects_validity"
	OtherTerms     = "other_terms"
)

// Canonical header-field keys.
const (
	Vessel   = "vessel"
	Owners   = "owners"
	Operator = "operator"
	Broker   = "broker"
)

// Map holds term values keyed by canonical field key. Empty string means the
// term is not (yet) stated.
type Map map[string]string

// Field pairs a canonical key with its display label.
type Field struct {
	Key   string
	Label string
}

var fields = []Field{
	{Laycan, "Laycan"},
	{CargoQty, "Cargo / Qty"},
	{LoadPorts, "Load port(s)"},
	{DischargePorts, "Disport(s)"},
	{Freight, "Freight"},
	{AddlLoadDisch, "Add'l 2nd load/disch"},
	{Laytime, "Laytime"},
	{Demurrage, "Demurrage"},
	{Payment, "Payment"},
	{Heating, "Heating / Specs"},
	{Subjects, "Subjects"},
	{OtherTerms, "Other terms"},
}

var headerFields = []Field{
	{Vessel, "Vessel"},
	{Owners, "Owners"},
	{Operator, "Operator"},
	{Broker, "Broker"},
}

// Fields returns the tracked term fields in display order. Callers must not
// mutate the returned slice.
func Fields() []Field { return fields }

// HeaderFields returns the negotiable header fields in display order.
func HeaderFields() []Field { return headerFields }

// IsTermField reports whether key is one of the tracked term-field keys.
func IsTermField(key string) bool {
	for _, f := range fields {
		if f.Key == key {
			return true
		}
	}
	return false
}

// IsHeaderField reports whether key is one of the negotiable header keys.
func IsHeaderField(key string) bool {
	for _, f := range headerFields {
		if f.Key == key {
			return true
		}
	}
	return false
}

// Label returns the display label for a canonical key, or the key itself when
// unknown.
func Label(key string) string {
	for _, f := range fields {
		if f.Key == key {
			return f.Label
		}
	}
	for _, f := range headerFields {
		if f.Key == key {
			return f.Label
		}
	}
	return key
}

// synonyms maps the key spellings seen from extraction collaborators onto the
// canonical schema. Lookups are done on the lowercased key.
var synonyms = map[string]string{
	"laycan_window":           Laycan,
	"quantity":                CargoQty,
	"cargo":                   CargoQty,
	"loadport":                LoadPorts,
	"l_port":                  LoadPorts,
	"disch_ports":             DischargePorts,
	"disport":                 DischargePorts,
	"d_port":                  DischargePorts,
	"premiums_2nd_load_disch": AddlLoadDisch,
	"premiums":                AddlLoadDisch,
	"heating_specs":           Heating,
	"subjects":                Subjects,
	"validity":                Subjects,
	"other":                   OtherTerms,
	"others":                  OtherTerms,
	"remarks":                 OtherTerms,
}

// CanonicalKey resolves a raw collaborator key to its canonical form. The
// second return is false for keys the core does not track (pass-through data).
func CanonicalKey(raw string) (string, bool) {
	k := strings.ToLower(strings.TrimSpace(raw))
	if IsTermField(k) || IsHeaderField(k) {
		return k, true
	}
	if canon, ok := synonyms[k]; ok {
		return canon, true
	}
	return "", false
}

// Canonicalize rewrites a raw key/value mapping onto the canonical schema,
// dropping keys the core does not track. Exact canonical keys win over
// synonyms; colliding synonym keys are resolved in lexical key order so the
// outcome never depends on map iteration.
func Canonicalize(raw map[string]string) Map {
	out := Map{}
	for _, f := range fields {
		if v, ok := raw[f.Key]; ok {
			out[f.Key] = v
		}
	}
	for _, f := range headerFields {
		if v, ok := raw[f.Key]; ok {
			out[f.Key] = v
		}
	}
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		canon, ok := CanonicalKey(k)
		if !ok {
			continue
		}
		if existing, seen := out[canon]; seen && strings.TrimSpace(existing) != "" {
			continue
		}
		v := raw[k]
		if strings.TrimSpace(v) == "" {
			continue
		}
		out[canon] = v
	}
	return out
}

// NormalizeValue trims and collapses internal whitespace runs to single
// spaces. Used for comparisons, never for storage.
func NormalizeValue(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Equal reports whether two stated values agree under the normalized,
// case-insensitive comparison.
func Equal(a, b string) bool {
	return strings.EqualFold(NormalizeValue(a), NormalizeValue(b))
}

// Empty reports whether a value is unset once whitespace is stripped.
func Empty(s string) bool {
	return strings.TrimSpace(s) == ""
}
