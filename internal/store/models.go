package store

import (
	"time"

	"chartdesk/api/internal/terms"
)

// Round statuses. Desk-triggered transitions only; the store never changes a
// status on its own.
const (
	RoundInProgress = "IN_PROGRESS"
	RoundCompleted  = "COMPLETED"
	RoundDropped    = "DROPPED"
)

// HeaderUnknown is the placeholder used for header fields the desk has not
// learned yet. Fill passes treat it the same as empty.
const HeaderUnknown = "TBN"

// Header holds the deal-level counterparty block of the consolidated ledger.
type Header struct {
	Vessel   string `json:"vessel"`
	Owners   string `json:"owners"`
	Operator string `json:"operator"`
	Broker   string `json:"broker"`
	CPForm   string `json:"cpForm"`
	Riders   string `json:"riders"`
}

// Tags classify a negotiation thread for list views and drafting context.
type Tags struct {
	Route string `json:"route"`
	Cargo string `json:"cargo"`
	Size  string `json:"size"`
	Basis string `json:"basis"`
}

// Deal identifies one negotiation thread with a counterparty.
type Deal struct {
	ID         string     `json:"id"`
	Tags       Tags       `json:"tags"`
	Fixed      bool       `json:"fixed"`
	FixedAt    *time.Time `json:"fixedAt,omitempty"`
	FixedRound int        `json:"fixedRound,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// Round is one immutable snapshot of a negotiation iteration. Only Status and
// LastUpdatedAt may change after creation.
type Round struct {
	ID            string    `json:"id"`
	DealID        string    `json:"dealId"`
	Number        int       `json:"number"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	Status        string    `json:"status"`
	Subject       string    `json:"subject"`
	Body          string    `json:"body"`
	RawInput      string    `json:"rawInput"`
	Offer         terms.Map `json:"offer"`
	CounterOn     terms.Map `json:"counterOn"`
	Tags          Tags      `json:"tags"`
}

// Ledger is the consolidated best-known set of agreed terms for a deal.
type Ledger struct {
	Header Header    `json:"header"`
	Terms  terms.Map `json:"terms"`
}

// DealState is the unit of persistence: one deal with its full round history
// and consolidated ledger, stored and replaced as a whole.
type DealState struct {
	Deal   Deal    `json:"deal"`
	Rounds []Round `json:"rounds"`
	Ledger Ledger  `json:"ledger"`
}

// Commentary is a saved freight-market note, shown alongside counters in the
// memory dashboard.
type Commentary struct {
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"createdAt"`
	Route          string    `json:"route"`
	Movement       string    `json:"movement"`
	Drivers        string    `json:"drivers,omitempty"`
	Recommendation string    `json:"recommendation"`
	RateTable      string    `json:"rateTable,omitempty"`
}

// MaxRoundNumber returns the highest round number recorded for the deal, 0
// when there are no rounds yet.
func (s DealState) MaxRoundNumber() int {
	max := 0
	for _, r := range s.Rounds {
		if r.Number > max {
			max = r.Number
		}
	}
	return max
}

// LatestRound returns the round with the highest number, if any.
func (s DealState) LatestRound() (Round, bool) {
	var latest Round
	found := false
	for _, r := range s.Rounds {
		if !found || r.Number > latest.Number {
			latest = r
			found = true
		}
	}
	return latest, found
}

// RoundByID looks a round up in the state's history.
func (s DealState) RoundByID(roundID string) (int, bool) {
	for i, r := range s.Rounds {
		if r.ID == roundID {
			return i, true
		}
	}
	return 0, false
}
