// Package cargoorder builds the outbound cargo order that opens a deal
// thread: the copy-ready email text, the deal id, and the route/size/basis
// classification derived from the order itself.
package cargoorder

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Parcel is one commodity lot within a leg.
type Parcel struct {
	Qty         string `json:"qty"`
	CargoFamily string `json:"cargoFamily"`
	CargoType   string `json:"cargoType"`
}

// Leg is one load/discharge movement of the order.
type Leg struct {
	Route     string   `json:"route"`
	Load      string   `json:"load"`
	Discharge string   `json:"discharge"`
	Laycan    string   `json:"laycan"`
	L3C       string   `json:"l3c"`
	Parcels   []Parcel `json:"parcels"`
}

// Requirements lists the mandatory vessel criteria stated on every order.
type Requirements struct {
	HeatingSteamOnly bool   `json:"heatingSteamOnly"`
	AgeLimitYears    string `json:"ageLimitYears"`
	PIIG             bool   `json:"piIg"`
	ClassIACS        bool   `json:"classIacs"`
	ExtraNotes       string `json:"extraNotes"`
}

// Order is the full cargo order as entered by the desk.
type Order struct {
	SubjectPrefix string       `json:"subjectPrefix"`
	Requirements  Requirements `json:"requirements"`
	Legs          []Leg        `json:"legs"`
}

var (
	reSlug     = regexp.MustCompile(`[^a-z0-9]+`)
	reNonNum   = regexp.MustCompile(`[^0-9.]`)
	reEdgeDash = regexp.MustCompile(`(^-|-$)`)
)

func slug(s string) string {
	s = strings.ToLower(s)
	s = reSlug.ReplaceAllString(s, "-")
	s = reEdgeDash.ReplaceAllString(s, "")
	if len(s) > 24 {
		s = s[:24]
	}
	return s
}

// NewDealID mints a stable, human-scannable deal id from the first leg and
// the creation date.
func NewDealID(route, load, discharge string, now time.Time) string {
	base := fmt.Sprintf("%s-%s-%s-%s", route, slug(load), slug(discharge), now.Format("20060102"))
	return strings.Trim(base, "-")
}

// GuessLoadBasis derives the load-basis tag from free-text load port names.
func GuessLoadBasis(loadText string) string {
	t := strings.ToLower(loadText)
	switch {
	case strings.Contains(t, "padang"):
		return "ex-Padang"
	case strings.Contains(t, "balik"):
		return "ex-Balik"
	case strings.Contains(t, "sds1"):
		return "SDS1"
	case strings.Contains(t, "sds2"):
		return "SDS2"
	default:
		return "Other"
	}
}

// GuessSize classifies total parcel tonnage into the desk's size bands.
func GuessSize(parcels []Parcel) string {
	sum := 0.0
	for _, p := range parcels {
		n, err := strconv.ParseFloat(reNonNum.ReplaceAllString(p.Qty, ""), 64)
		if err == nil {
			sum += n
		}
	}
	switch {
	case sum == 0:
		return "Other"
	case sum <= 12000:
		return "12kt"
	case sum <= 18500:
		return "18.5kt"
	case sum <= 30000:
		return "30kt"
	case sum <= 40000:
		return "40kt"
	default:
		return "Other"
	}
}

// Subject builds the tracking subject line for the order's deal thread.
func (o Order) Subject() string {
	prefix := strings.TrimSpace(o.SubjectPrefix)
	if prefix == "" {
		prefix = "Cargo Order"
	}
	route := "Other"
	cargo := "Cargo"
	if len(o.Legs) > 0 {
		if o.Legs[0].Route != "" {
			route = o.Legs[0].Route
		}
		if len(o.Legs[0].Parcels) > 0 {
			p := o.Legs[0].Parcels[0]
			cargo = p.CargoFamily + "/" + p.CargoType
		}
	}
	return strings.TrimSpace(fmt.Sprintf("%s: %s · %s", prefix, route, cargo))
}

// BuildEmail renders the copy-ready cargo order text. The layout is fixed;
// unset values render as an em-dash so brokers see exactly what is missing.
func BuildEmail(o Order) string {
	r := o.Requirements
	lines := []string{
		"Hi,",
		"",
		"Kindly propose suitable vessels along with the updated Q88 (with valid trading certificates) and L3C.",
		"",
		"Vessel Requirements (All Mandatory — highlight any deviations):",
		"1.\tHeating: " + boolReq(r.HeatingSteamOnly, "steam only (no thermal oil)"),
		"2.\tAge Limit: " + ageReq(r.AgeLimitYears),
		"3.\tP&I: " + boolReq(r.PIIG, "IG P&I"),
		"4.\tClass: " + boolReq(r.ClassIACS, "IACS member"),
	}

	if notes := strings.TrimSpace(r.ExtraNotes); notes != "" {
		lines = append(lines, "", "Notes:", notes)
	}

	lines = append(lines, "", "______________", "")

	for i, leg := range o.Legs {
		lines = append(lines, fmt.Sprintf("(%d)", i+1), "Cargo Details:")
		lines = append(lines, parcelLines(leg.Parcels)...)
		lines = append(lines,
			"Load:\t"+orDash(leg.Load),
			"Discharge:\t"+orDash(leg.Discharge),
			"Laycan:\t"+orDash(leg.Laycan),
			"L3C:\t"+orDash(leg.L3C),
			"",
		)
	}

	return strings.TrimSpace(strings.Join(lines, "\n")) + "\n"
}

func parcelLines(parcels []Parcel) []string {
	stated := make([]Parcel, 0, len(parcels))
	for _, p := range parcels {
		if strings.TrimSpace(p.Qty) != "" || strings.TrimSpace(p.CargoType) != "" {
			stated = append(stated, p)
		}
	}

	switch len(stated) {
	case 0:
		return []string{"Parcels:\t—"}
	case 1:
		p := stated[0]
		return []string{fmt.Sprintf("Quantity:\t%s %s / %s", orDash(strings.TrimSpace(p.Qty)), p.CargoFamily, p.CargoType)}
	default:
		lines := []string{"Parcels:"}
		for _, p := range stated {
			lines = append(lines, fmt.Sprintf("- %s %s / %s", orDash(strings.TrimSpace(p.Qty)), p.CargoFamily, p.CargoType))
		}
		return lines
	}
}

func boolReq(set bool, text string) string {
	if set {
		return text
	}
	return "—"
}

func ageReq(years string) string {
	years = strings.TrimSpace(years)
	if years == "" {
		return "—"
	}
	return "<" + years + " years old"
}

func orDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "—"
	}
	return v
}
