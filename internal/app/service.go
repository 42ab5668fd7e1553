package app

import (
	"context"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"chartdesk/api/internal/cargoorder"
	"chartdesk/api/internal/catalog"
	"chartdesk/api/internal/config"
	"chartdesk/api/internal/draft"
	"chartdesk/api/internal/extract"
	"chartdesk/api/internal/ledger"
	"chartdesk/api/internal/recap"
	"chartdesk/api/internal/search"
	"chartdesk/api/internal/store"
	"chartdesk/api/internal/terms"
	"chartdesk/api/internal/util"
)

type AppendRoundInput struct {
	Subject   string            `json:"subject"`
	Body      string            `json:"body"`
	RawInput  string            `json:"rawInput"`
	Offer     map[string]string `json:"offer"`
	CounterOn map[string]string `json:"counterOn"`
	Tags      store.Tags        `json:"tags"`
}

type AnalyzeInput struct {
	RawText string     `json:"rawText"`
	Tags    store.Tags `json:"tags"`
	Tone    string     `json:"tone"`
}

type DraftInput struct {
	RawText        string            `json:"rawText"`
	Channel        string            `json:"channel"`
	Length         string            `json:"length"`
	AcceptanceMode string            `json:"acceptanceMode"`
	CounterOn      map[string]string `json:"counterOn"`
	Tags           store.Tags        `json:"tags"`
	Tone           string            `json:"tone"`
}

type CargoOrderInput struct {
	cargoorder.Order
}

type CommentaryInput struct {
	Route          string `json:"route"`
	Movement       string `json:"movement"`
	Drivers        string `json:"drivers"`
	Recommendation string `json:"recommendation"`
	RateTable      string `json:"rateTable"`
}

type MemoryFilter struct {
	Route  string
	Status string
}

var allowedRoundStatuses = map[string]struct{}{
	store.RoundInProgress: {},
	store.RoundCompleted:  {},
	store.RoundDropped:    {},
}

var allowedChannels = map[string]struct{}{
	"Email":    {},
	"WhatsApp": {},
}

var allowedLengths = map[string]struct{}{
	"Standard": {},
	"Short":    {},
}

var allowedAcceptanceModes = map[string]struct{}{
	draft.AcceptAllElse: {},
	draft.OthersSubject: {},
	draft.NoStatement:   {},
}

type dataStore interface {
	LoadDeal(ctx context.Context, dealID string) (store.DealState, bool, error)
	SaveDeal(ctx context.Context, state store.DealState) error
	ListDeals(ctx context.Context) ([]store.DealState, error)
	SaveCommentary(ctx context.Context, item store.Commentary) error
	ListCommentary(ctx context.Context) ([]store.Commentary, error)
	DeleteAll(ctx context.Context) error
	Ping(ctx context.Context) error
}

type drafter interface {
	Analyze(ctx context.Context, rawText string, dctx draft.DealContext) (draft.AnalyzeResult, error)
	Draft(ctx context.Context, req draft.DraftRequest) (draft.DraftResult, error)
}

type Service struct {
	cfg     config.Config
	store   dataStore
	drafter drafter
	catalog catalog.Catalog
	search  *search.Service
}

// New wires the negotiation service. drafter may be nil (no AI collaborator
// configured); searchSvc may be nil in tests.
func New(cfg config.Config, dataStore dataStore, d drafter, cat catalog.Catalog, searchSvc *search.Service) *Service {
	return &Service{
		cfg:     cfg,
		store:   dataStore,
		drafter: d,
		catalog: cat,
		search:  searchSvc,
	}
}

func (s *Service) Catalog() catalog.Catalog {
	return s.catalog
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// AppendRound records one counterparty iteration on a deal, creating the deal
// on first contact. Round numbers are dense: always one past the highest
// recorded number. The ledger merge is skipped once the deal is fixed; the
// history still grows so post-fixture exchanges are not lost.
func (s *Service) AppendRound(ctx context.Context, dealID string, input AppendRoundInput) (map[string]any, error) {
	dealID = strings.TrimSpace(dealID)
	if dealID == "" {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "dealId is required", nil)
	}
	if strings.TrimSpace(input.Body) == "" && strings.TrimSpace(input.RawInput) == "" && len(input.Offer) == 0 {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "round needs a body, raw input, or offer terms", nil)
	}

	state, found, err := s.store.LoadDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if !found {
		state = store.DealState{
			Deal: store.Deal{
				ID:        dealID,
				Tags:      input.Tags,
				CreatedAt: now,
				UpdatedAt: now,
			},
			Ledger: ledger.NewLedger("", s.cfg.Riders),
		}
	}

	fillTags(&state.Deal.Tags, input.Tags)

	offer := terms.Canonicalize(input.Offer)
	counterOn := terms.Canonicalize(input.CounterOn)

	round := store.Round{
		ID:            util.NewID("rnd"),
		DealID:        dealID,
		Number:        state.MaxRoundNumber() + 1,
		CreatedAt:     now,
		LastUpdatedAt: now,
		Status:        store.RoundInProgress,
		Subject:       strings.TrimSpace(input.Subject),
		Body:          input.Body,
		RawInput:      input.RawInput,
		Offer:         offer,
		CounterOn:     counterOn,
		Tags:          state.Deal.Tags,
	}
	state.Rounds = append(state.Rounds, round)

	if !state.Deal.Fixed {
		ledger.Merge(&state.Ledger, offer, counterOn, s.cfg.Riders)
	}
	state.Deal.UpdatedAt = now

	if err := s.store.SaveDeal(ctx, state); err != nil {
		return nil, err
	}

	return map[string]any{
		"deal":   state.Deal,
		"round":  round,
		"ledger": state.Ledger,
	}, nil
}

func (s *Service) GetDeal(ctx context.Context, dealID string) (store.DealState, error) {
	state, found, err := s.store.LoadDeal(ctx, dealID)
	if err != nil {
		return store.DealState{}, err
	}
	if !found {
		return store.DealState{}, domainError(http.StatusNotFound, "DEAL_NOT_FOUND", "Deal not found", nil)
	}
	return state, nil
}

// ListRounds returns the deal's history in round order.
func (s *Service) ListRounds(ctx context.Context, dealID string) ([]store.Round, error) {
	state, err := s.GetDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}
	rounds := append([]store.Round(nil), state.Rounds...)
	sort.Slice(rounds, func(i, j int) bool { return rounds[i].Number < rounds[j].Number })
	return rounds, nil
}

// ListDeals returns dashboard summaries, most recently touched first.
func (s *Service) ListDeals(ctx context.Context) ([]map[string]any, error) {
	states, err := s.store.ListDeals(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(states, func(i, j int) bool {
		return states[i].Deal.UpdatedAt.After(states[j].Deal.UpdatedAt)
	})

	items := make([]map[string]any, 0, len(states))
	for _, state := range states {
		items = append(items, s.dealSummary(state))
	}
	return items, nil
}

func (s *Service) dealSummary(state store.DealState) map[string]any {
	summary := map[string]any{
		"id":         state.Deal.ID,
		"tags":       state.Deal.Tags,
		"status":     dealStatus(state),
		"fixed":      state.Deal.Fixed,
		"rounds":     len(state.Rounds),
		"freight":    state.Ledger.Terms[terms.Freight],
		"laycan":     state.Ledger.Terms[terms.Laycan],
		"vessel":     state.Ledger.Header.Vessel,
		"createdAt":  state.Deal.CreatedAt,
		"updatedAt":  state.Deal.UpdatedAt,
		"stale":      s.isStale(state),
		"fixedRound": state.Deal.FixedRound,
	}
	if latest, ok := state.LatestRound(); ok {
		summary["latestRound"] = latest.Number
		summary["latestStatus"] = latest.Status
	}
	return summary
}

// UpdateRoundStatus moves one round through its lifecycle. Rounds stay
// immutable apart from this status flag and its timestamp.
func (s *Service) UpdateRoundStatus(ctx context.Context, roundID, status string) (store.Round, error) {
	if _, ok := allowedRoundStatuses[status]; !ok {
		return store.Round{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "status must be IN_PROGRESS, COMPLETED, or DROPPED", nil)
	}
	state, idx, err := s.findRound(ctx, roundID)
	if err != nil {
		return store.Round{}, err
	}

	now := time.Now().UTC()
	state.Rounds[idx].Status = status
	state.Rounds[idx].LastUpdatedAt = now
	state.Deal.UpdatedAt = now

	if err := s.store.SaveDeal(ctx, state); err != nil {
		return store.Round{}, err
	}
	return state.Rounds[idx], nil
}

// MarkFixed declares the deal concluded at the given round. Re-marking a
// different round simply moves the fixture pointer; the most recent mark wins.
func (s *Service) MarkFixed(ctx context.Context, roundID string) (map[string]any, error) {
	state, idx, err := s.findRound(ctx, roundID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	state.Rounds[idx].Status = store.RoundCompleted
	state.Rounds[idx].LastUpdatedAt = now
	state.Deal.Fixed = true
	state.Deal.FixedAt = &now
	state.Deal.FixedRound = state.Rounds[idx].Number
	state.Deal.UpdatedAt = now

	if err := s.store.SaveDeal(ctx, state); err != nil {
		return nil, err
	}
	if s.search != nil {
		s.search.IndexFixture(FixtureRecord(state))
	}

	return map[string]any{
		"deal":  state.Deal,
		"round": state.Rounds[idx],
	}, nil
}

// EditLedgerField is the desk's direct pen on the ledger: bypasses both merge
// passes and always wins. Refused once the deal is fixed; the fixed terms are
// what the recap certifies.
func (s *Service) EditLedgerField(ctx context.Context, dealID, field, value string) (store.Ledger, error) {
	state, err := s.GetDeal(ctx, dealID)
	if err != nil {
		return store.Ledger{}, err
	}
	if state.Deal.Fixed {
		return store.Ledger{}, domainError(http.StatusConflict, "DEAL_FIXED", "Deal is fixed; ledger terms are immutable", nil)
	}
	if !ledger.SetField(&state.Ledger, field, value) {
		return store.Ledger{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "unknown ledger field", map[string]any{"field": field})
	}
	state.Deal.UpdatedAt = time.Now().UTC()
	if err := s.store.SaveDeal(ctx, state); err != nil {
		return store.Ledger{}, err
	}
	return state.Ledger, nil
}

// Reconcile compares the latest counterparty offer against the ledger. With
// no rounds yet every tracked field reads as missing.
func (s *Service) Reconcile(ctx context.Context, dealID string) (map[string]any, error) {
	state, err := s.GetDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}
	offer := terms.Map{}
	roundNumber := 0
	if latest, ok := state.LatestRound(); ok {
		offer = latest.Offer
		roundNumber = latest.Number
	}
	return map[string]any{
		"dealId":      state.Deal.ID,
		"roundNumber": roundNumber,
		"rows":        ledger.Reconcile(offer, state.Ledger),
	}, nil
}

// AcceptOwnerValue resolves a disagreement in the owners' favour: the latest
// round's value for the field becomes the ledger value.
func (s *Service) AcceptOwnerValue(ctx context.Context, dealID, field string) (map[string]any, error) {
	state, err := s.GetDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if state.Deal.Fixed {
		return nil, domainError(http.StatusConflict, "DEAL_FIXED", "Deal is fixed; ledger terms are immutable", nil)
	}
	latest, ok := state.LatestRound()
	if !ok {
		return nil, domainError(http.StatusConflict, "NO_ROUNDS", "Deal has no rounds to accept from", nil)
	}
	if !ledger.SetField(&state.Ledger, field, latest.Offer[field]) {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "unknown ledger field", map[string]any{"field": field})
	}
	state.Deal.UpdatedAt = time.Now().UTC()
	if err := s.store.SaveDeal(ctx, state); err != nil {
		return nil, err
	}
	return s.Reconcile(ctx, dealID)
}

// KeepLedgerValue resolves a disagreement in the charterers' favour. The
// ledger already holds the kept value, so this is an explicit no-op that
// still touches the deal so the decision shows in the timeline.
func (s *Service) KeepLedgerValue(ctx context.Context, dealID, field string) (map[string]any, error) {
	state, err := s.GetDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if !terms.IsTermField(field) && !terms.IsHeaderField(field) {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "unknown ledger field", map[string]any{"field": field})
	}
	state.Deal.UpdatedAt = time.Now().UTC()
	if err := s.store.SaveDeal(ctx, state); err != nil {
		return nil, err
	}
	return s.Reconcile(ctx, dealID)
}

// Recap renders the copy-ready fixture recap. An unfixed deal gets an
// advisory payload rather than an error: the desk may still be negotiating.
func (s *Service) Recap(ctx context.Context, dealID string) (map[string]any, error) {
	state, err := s.GetDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if !state.Deal.Fixed {
		return map[string]any{
			"dealId":  state.Deal.ID,
			"fixed":   false,
			"message": "Deal is not fixed yet. Mark the concluding round as fixed to generate a recap.",
		}, nil
	}
	text := recap.Build(recap.Params{
		DealID:     state.Deal.ID,
		FixedRound: state.Deal.FixedRound,
		Tags:       state.Deal.Tags,
		Charterers: s.cfg.Charterers,
		Ledger:     state.Ledger,
	})
	return map[string]any{
		"dealId": state.Deal.ID,
		"fixed":  true,
		"round":  state.Deal.FixedRound,
		"recap":  text,
	}, nil
}

// Fixtures serves the concluded-fixtures review table.
func (s *Service) Fixtures(ctx context.Context, q search.Query) search.Response {
	if s.search != nil {
		return s.search.Search(ctx, q)
	}
	return search.Response{Results: []search.FixtureRecord{}, Query: q.Text}
}

// FixtureRecords maps the fixed deals in the given states to search records.
func FixtureRecords(states ...store.DealState) []search.FixtureRecord {
	var records []search.FixtureRecord
	for _, state := range states {
		if !state.Deal.Fixed {
			continue
		}
		records = append(records, FixtureRecord(state))
	}
	return records
}

// FixtureRecord flattens one fixed deal into its searchable form.
func FixtureRecord(state store.DealState) search.FixtureRecord {
	fixedAt := ""
	if state.Deal.FixedAt != nil {
		fixedAt = state.Deal.FixedAt.UTC().Format(time.RFC3339)
	}
	return search.FixtureRecord{
		ID:             state.Deal.ID,
		Route:          state.Deal.Tags.Route,
		Cargo:          state.Deal.Tags.Cargo,
		Size:           state.Deal.Tags.Size,
		Basis:          state.Deal.Tags.Basis,
		Vessel:         state.Ledger.Header.Vessel,
		Owners:         state.Ledger.Header.Owners,
		Freight:        state.Ledger.Terms[terms.Freight],
		Laycan:         state.Ledger.Terms[terms.Laycan],
		LoadPorts:      state.Ledger.Terms[terms.LoadPorts],
		DischargePorts: state.Ledger.Terms[terms.DischargePorts],
		FixedRound:     state.Deal.FixedRound,
		FixedAt:        fixedAt,
	}
}

// FixturesCSV exports every concluded fixture as CSV, newest first.
func (s *Service) FixturesCSV(ctx context.Context) ([]search.FixtureRecord, error) {
	states, err := s.store.ListDeals(ctx)
	if err != nil {
		return nil, err
	}
	records := FixtureRecords(states...)
	sort.Slice(records, func(i, j int) bool { return records[i].FixedAt > records[j].FixedAt })
	return records, nil
}

// CreateCargoOrder builds the outbound cargo-order email and opens the
// negotiation thread it will run under.
func (s *Service) CreateCargoOrder(ctx context.Context, input CargoOrderInput) (map[string]any, error) {
	order := input.Order
	if len(order.Legs) == 0 {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "at least one leg is required", nil)
	}
	first := order.Legs[0]
	if strings.TrimSpace(first.Route) == "" || strings.TrimSpace(first.Load) == "" || strings.TrimSpace(first.Discharge) == "" {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "first leg needs route, load, and discharge", nil)
	}
	if !s.catalog.ValidRoute(first.Route) {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "unknown route", map[string]any{"route": first.Route})
	}

	now := time.Now().UTC()
	dealID := cargoorder.NewDealID(first.Route, first.Load, first.Discharge, now)

	tags := store.Tags{
		Route: first.Route,
		Size:  cargoorder.GuessSize(first.Parcels),
		Basis: cargoorder.GuessLoadBasis(first.Load),
	}
	if len(first.Parcels) > 0 {
		tags.Cargo = firstNonBlank(first.Parcels[0].CargoType, first.Parcels[0].CargoFamily)
	}

	state, found, err := s.store.LoadDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if !found {
		state = store.DealState{
			Deal: store.Deal{
				ID:        dealID,
				Tags:      tags,
				CreatedAt: now,
				UpdatedAt: now,
			},
			Ledger: ledger.NewLedger("", s.cfg.Riders),
		}
	} else {
		fillTags(&state.Deal.Tags, tags)
		state.Deal.UpdatedAt = now
	}
	if err := s.store.SaveDeal(ctx, state); err != nil {
		return nil, err
	}

	return map[string]any{
		"dealId":  dealID,
		"subject": order.Subject(),
		"email":   cargoorder.BuildEmail(order),
		"deal":    state.Deal,
	}, nil
}

// AnalyzeOffer reads the counterparty paste. The regex pass always runs; the
// AI collaborator refines it when configured and reachable, and a collaborator
// failure degrades to the regex result instead of failing the request.
func (s *Service) AnalyzeOffer(ctx context.Context, input AnalyzeInput) (map[string]any, error) {
	if strings.TrimSpace(input.RawText) == "" {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "rawText is required", nil)
	}

	pre := extract.PreExtract(input.RawText)

	var recommended []draft.RecommendedCounter
	collaborated := false
	if s.drafter != nil {
		result, err := s.drafter.Analyze(ctx, input.RawText, draft.DealContext{
			Route:     input.Tags.Route,
			Cargo:     input.Tags.Cargo,
			Size:      input.Tags.Size,
			LoadBasis: input.Tags.Basis,
			Tone:      input.Tone,
		})
		if err != nil {
			log.Printf("analyze: collaborator unavailable, using extraction only: %v", err)
		} else {
			pre = extract.MergeTerms(pre, result.Offer)
			recommended = result.Recommended
			collaborated = true
		}
	}
	if recommended == nil {
		recommended = []draft.RecommendedCounter{}
	}

	return map[string]any{
		"offer":               pre,
		"recommendedCounters": recommended,
		"collaborated":        collaborated,
	}, nil
}

// GenerateDraft produces the outbound counter message via the collaborator.
func (s *Service) GenerateDraft(ctx context.Context, input DraftInput) (map[string]any, error) {
	if s.drafter == nil {
		return nil, domainError(http.StatusServiceUnavailable, "DRAFT_UNAVAILABLE", "Drafting collaborator is not configured", nil)
	}
	if _, ok := allowedChannels[input.Channel]; !ok {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "channel must be Email or WhatsApp", nil)
	}
	if _, ok := allowedLengths[input.Length]; !ok {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "length must be Standard or Short", nil)
	}
	if input.AcceptanceMode == "" {
		input.AcceptanceMode = draft.AcceptAllElse
	}
	if _, ok := allowedAcceptanceModes[input.AcceptanceMode]; !ok {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid acceptance mode", nil)
	}

	result, err := s.drafter.Draft(ctx, draft.DraftRequest{
		RawText:        input.RawText,
		Channel:        input.Channel,
		Length:         input.Length,
		AcceptanceMode: input.AcceptanceMode,
		CounterOn:      terms.Canonicalize(input.CounterOn),
		Context: draft.DealContext{
			Route:     input.Tags.Route,
			Cargo:     input.Tags.Cargo,
			Size:      input.Tags.Size,
			LoadBasis: input.Tags.Basis,
			Tone:      input.Tone,
		},
	})
	if err != nil {
		return nil, domainError(http.StatusBadGateway, "DRAFT_FAILED", "Drafting collaborator request failed", map[string]any{"reason": err.Error()})
	}
	if result.Body == "" {
		return nil, domainError(http.StatusBadGateway, "DRAFT_EMPTY", "Drafting collaborator returned an empty message", nil)
	}
	if result.Subject == "" && input.Channel == "Email" {
		result.Subject = "RE: Counter"
	}

	return map[string]any{
		"subject": result.Subject,
		"body":    result.Body,
	}, nil
}

// Memory serves the desk's dashboard: every deal with status roll-ups, stale
// flags, and saved market commentary.
func (s *Service) Memory(ctx context.Context, filter MemoryFilter) (map[string]any, error) {
	states, err := s.store.ListDeals(ctx)
	if err != nil {
		return nil, err
	}
	commentary, err := s.store.ListCommentary(ctx)
	if err != nil {
		return nil, err
	}

	stats := map[string]int{
		"total":      0,
		"inProgress": 0,
		"fixed":      0,
		"dropped":    0,
		"stale":      0,
	}
	byRoute := map[string]int{}

	sort.Slice(states, func(i, j int) bool {
		return states[i].Deal.UpdatedAt.After(states[j].Deal.UpdatedAt)
	})

	deals := make([]map[string]any, 0, len(states))
	for _, state := range states {
		status := dealStatus(state)
		stats["total"]++
		switch status {
		case "FIXED":
			stats["fixed"]++
		case "DROPPED":
			stats["dropped"]++
		default:
			stats["inProgress"]++
		}
		if s.isStale(state) {
			stats["stale"]++
		}
		if state.Deal.Tags.Route != "" {
			byRoute[state.Deal.Tags.Route]++
		}

		if filter.Route != "" && state.Deal.Tags.Route != filter.Route {
			continue
		}
		if filter.Status != "" && status != filter.Status {
			continue
		}
		deals = append(deals, s.dealSummary(state))
	}

	return map[string]any{
		"stats":      stats,
		"byRoute":    byRoute,
		"deals":      deals,
		"commentary": commentary,
	}, nil
}

// WipeMemory clears everything. There is no undo; the handler gates it behind
// an explicit confirmation parameter.
func (s *Service) WipeMemory(ctx context.Context) error {
	return s.store.DeleteAll(ctx)
}

func (s *Service) AddCommentary(ctx context.Context, input CommentaryInput) (store.Commentary, error) {
	if strings.TrimSpace(input.Route) == "" {
		return store.Commentary{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "route is required", nil)
	}
	if strings.TrimSpace(input.Movement) == "" {
		return store.Commentary{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "movement is required", nil)
	}
	item := store.Commentary{
		ID:             util.NewID("note"),
		CreatedAt:      time.Now().UTC(),
		Route:          strings.TrimSpace(input.Route),
		Movement:       strings.TrimSpace(input.Movement),
		Drivers:        strings.TrimSpace(input.Drivers),
		Recommendation: strings.TrimSpace(input.Recommendation),
		RateTable:      input.RateTable,
	}
	if err := s.store.SaveCommentary(ctx, item); err != nil {
		return store.Commentary{}, err
	}
	return item, nil
}

func (s *Service) ListCommentary(ctx context.Context) ([]store.Commentary, error) {
	items, err := s.store.ListCommentary(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []store.Commentary{}
	}
	return items, nil
}

// findRound scans every deal for the round. Deal counts on a single desk stay
// small enough that a secondary index is not worth carrying.
func (s *Service) findRound(ctx context.Context, roundID string) (store.DealState, int, error) {
	roundID = strings.TrimSpace(roundID)
	if roundID == "" {
		return store.DealState{}, 0, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "roundId is required", nil)
	}
	states, err := s.store.ListDeals(ctx)
	if err != nil {
		return store.DealState{}, 0, err
	}
	for _, state := range states {
		if idx, ok := state.RoundByID(roundID); ok {
			return state, idx, nil
		}
	}
	return store.DealState{}, 0, domainError(http.StatusNotFound, "ROUND_NOT_FOUND", "Round not found", nil)
}

func (s *Service) isStale(state store.DealState) bool {
	if state.Deal.Fixed || s.cfg.StaleAfter <= 0 {
		return false
	}
	if status := dealStatus(state); status != "IN_PROGRESS" {
		return false
	}
	return time.Since(state.Deal.UpdatedAt) > s.cfg.StaleAfter
}

func dealStatus(state store.DealState) string {
	if state.Deal.Fixed {
		return "FIXED"
	}
	if latest, ok := state.LatestRound(); ok && latest.Status == store.RoundDropped {
		return "DROPPED"
	}
	return "IN_PROGRESS"
}

func fillTags(dst *store.Tags, src store.Tags) {
	if dst.Route == "" {
		dst.Route = src.Route
	}
	if dst.Cargo == "" {
		dst.Cargo = src.Cargo
	}
	if dst.Size == "" {
		dst.Size = src.Size
	}
	if dst.Basis == "" {
		dst.Basis = src.Basis
	}
}

func firstNonBlank(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
