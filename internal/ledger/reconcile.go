package ledger

import (
	"chartdesk/api/internal/store"
	"chartdesk/api/internal/terms"
)

// Classification of a single term field in the comparison view.
const (
	Agreed       = "AGREED"
	Disagreement = "DISAGREEMENT"
	Missing      = "MISSING"
)

// Row is one line of the offer-vs-ledger comparison. Ephemeral, rebuilt on
// every render.
type Row struct {
	Field          string `json:"field"`
	Label          string `json:"label"`
	OwnerValue     string `json:"ownerValue"`
	LedgerValue    string `json:"ledgerValue"`
	Classification string `json:"classification"`
}

// Reconcile compares the counterparty's stated offer against the consolidated
// ledger, one row per tracked term field in fixed display order. Exactly one
// classification holds per row: Missing when both sides are empty, Agreed when
// both are stated and equal under the normalized comparison, Disagreement
// otherwise.
func Reconcile(offer terms.Map, l store.Ledger) []Row {
	rows := make([]Row, 0, len(terms.Fields()))
	for _, f := range terms.Fields() {
		ownerVal := offer[f.Key]
		ledgerVal := l.Terms[f.Key]
		rows = append(rows, Row{
			Field:          f.Key,
			Label:          f.Label,
			OwnerValue:     ownerVal,
			LedgerValue:    ledgerVal,
			Classification: classify(ownerVal, ledgerVal),
		})
	}
	return rows
}

func classify(ownerVal, ledgerVal string) string {
	ownerEmpty := terms.Empty(ownerVal)
	ledgerEmpty := terms.Empty(ledgerVal)
	switch {
	case ownerEmpty && ledgerEmpty:
		return Missing
	case !ownerEmpty && !ledgerEmpty && terms.Equal(ownerVal, ledgerVal):
		return Agreed
	default:
		return Disagreement
	}
}
