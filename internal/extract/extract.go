// Package extract is the collaborator-boundary side of offer analysis: a
// deliberately simple regex pre-extraction over pasted broker/owner text, and
// the rule for merging it with the terms the drafting service returns. Only
// what can be seen clearly is pre-filled; everything else is left to the
// collaborator.
package extract

import (
	"regexp"
	"strings"

	"chartdesk/api/internal/terms"
)

var (
	reLaycanLabel = regexp.MustCompile(`(?i)\bLAYCAN\b\s*[:\-]?\s*([^\n]+)`)
	reLaycanRange = regexp.MustCompile(`(?i)\b(\d{1,2}\s*(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s*[-–]\s*\d{1,2}\s*(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*)\b`)
	reLaycanShort = regexp.MustCompile(`(?i)\b(\d{1,2}\s*[-–]\s*\d{1,2}\s*(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*)\b`)
	reFreight     = regexp.MustCompile(`(?i)\bFREIGHT\b\s*[:\-]?\s*(USD\s*[\d.,]+\s*(?:pmt|PMT)\b[^\n]*)`)
	rePremium     = regexp.MustCompile(`(?i)(Additional|Add'?l|\+)\s*USD?\s*[\d.,]+\s*(?:pmt|PMT)\b[^\n]*`)
	reLaytime     = regexp.MustCompile(`(?i)\bLaytime\b\s*[:\-]\s*([^\n]+)`)
	reDemurrage   = regexp.MustCompile(`(?i)\bDEMURRAGE\b\s*[:\-]?\s*(USD\s*[\d,]+(?:\.\d+)?\s*PDPR[^\n]*)`)
	rePayment     = regexp.MustCompile(`(?i)\bPayment\b\s*[:\-]\s*([^\n]+)`)
	reLoadPort    = regexp.MustCompile(`(?i)\bL/PORT\b\s*[:\-]?\s*([^\n]+)`)
	reDischPort   = regexp.MustCompile(`(?i)\bD/PORT\b\s*[:\-]?\s*([^\n]+)`)
	reVessel      = regexp.MustCompile(`(?i)\b(?:MT|M/T|VESSEL)\b\s*[:\-]?\s*([^\n,;]+)`)
)

// PreExtract scans pasted counterparty text for the term patterns the desk
// sees every day. Fields it cannot match stay empty for the collaborator to
// fill.
func PreExtract(text string) terms.Map {
	t := strings.ReplaceAll(text, "\r", "")

	out := terms.Map{
		terms.Laycan:         firstGroup(t, reLaycanLabel, reLaycanRange, reLaycanShort),
		terms.Freight:        firstGroup(t, reFreight),
		terms.AddlLoadDisch:  premiums(t),
		terms.Laytime:        firstGroup(t, reLaytime),
		terms.Demurrage:      firstGroup(t, reDemurrage),
		terms.Payment:        firstGroup(t, rePayment),
		terms.LoadPorts:      firstGroup(t, reLoadPort),
		terms.DischargePorts: firstGroup(t, reDischPort),
		terms.Vessel:         firstGroup(t, reVessel),
		// Often compound or contextual; left to the collaborator.
		terms.CargoQty: "",
		terms.Subjects: "",
	}
	return out
}

func firstGroup(text string, patterns ...*regexp.Regexp) string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); len(m) > 1 {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

func premiums(text string) string {
	matches := rePremium.FindAllString(text, -1)
	if len(matches) == 0 {
		return ""
	}
	for i, m := range matches {
		matches[i] = strings.TrimSpace(m)
	}
	return strings.Join(matches, " | ")
}

// MergeTerms combines the regex pre-extraction with the collaborator's
// extraction: pre-extracted values win, collaborator values fill the gaps, and
// collaborator keys outside the pre-extracted set ride along untouched. Keys
// are canonicalized once, here, so downstream merge logic sees one schema.
func MergeTerms(pre terms.Map, collab map[string]string) terms.Map {
	merged := map[string]string{}
	for k, v := range pre {
		merged[k] = v
	}
	for k, v := range collab {
		existing, seen := merged[k]
		if !seen || strings.TrimSpace(existing) == "" {
			merged[k] = v
		}
	}
	return terms.Canonicalize(merged)
}
