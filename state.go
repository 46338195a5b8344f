package komorebi

import (
	"errors"
	"fmt"
	"slices"
)

// ErrHoldingNotFound is returned when an event refers to an unknown holding id.
var ErrHoldingNotFound = errors.New("holding not found")

// State is the whole application state.
//
// A State is a value: Apply never modifies its receiver and returns the
// next state instead.
type State struct {
	Holdings     []Holding
	Rates        Rates
	RatesFetched bool // a refresh has succeeded at least once
	Loading      bool // a refresh is in progress
}

// NewState returns the initial state for the given holdings, with fallback rates.
func NewState(holdings []Holding) State {
	return State{Holdings: holdings, Rates: DefaultRates()}
}

// EventType identifies an event.
type EventType string

const (
	EvtAdd              EventType = "add"
	EvtUpdate           EventType = "update"
	EvtDelete           EventType = "delete"
	EvtRefreshStarted   EventType = "refresh-started"
	EvtRefreshSucceeded EventType = "refresh-succeeded"
	EvtRefreshFailed    EventType = "refresh-failed"
)

// Event is a state transition.
type Event interface {
	What() EventType
	// apply returns the next state. s is already a copy it can modify.
	apply(s State) (State, error)
}

// Mutates reports whether e changes the holdings collection, in which case
// the collection must be saved after the transition.
func Mutates(e Event) bool {
	switch e.What() {
	case EvtAdd, EvtUpdate, EvtDelete, EvtRefreshSucceeded:
		return true
	}
	return false
}

// Apply returns the state after e. On error the returned state is s unchanged.
func (s State) Apply(e Event) (State, error) {
	next := s
	next.Holdings = make([]Holding, len(s.Holdings))
	for i, h := range s.Holdings {
		next.Holdings[i] = h.clone()
	}
	next, err := e.apply(next)
	if err != nil {
		return s, fmt.Errorf("%s: %w", e.What(), err)
	}
	return next, nil
}

// Holding returns the holding with the given id.
func (s State) Holding(id string) (Holding, bool) {
	i := s.index(id)
	if i < 0 {
		return Holding{}, false
	}
	return s.Holdings[i], true
}

func (s State) index(id string) int {
	return slices.IndexFunc(s.Holdings, func(h Holding) bool { return h.ID == id })
}

// AddHolding appends a new holding.
type AddHolding struct {
	Holding Holding
}

func (AddHolding) What() EventType { return EvtAdd }
func (e AddHolding) apply(s State) (State, error) {
	if e.Holding.ID == "" {
		return s, errors.New("holding id is missing")
	}
	if s.index(e.Holding.ID) >= 0 {
		return s, fmt.Errorf("holding id %q already exists", e.Holding.ID)
	}
	s.Holdings = append(s.Holdings, e.Holding.clone())
	return s, nil
}

// Fields are the fields a user can edit. Price fields are owned by refresh.
type Fields struct {
	Type     AssetType
	Symbol   string
	Shares   Quantity
	AvgPrice Money // carries the holding currency
	Name     string
}

// UpdateHolding merges the submitted fields into an existing holding.
type UpdateHolding struct {
	ID     string
	Fields Fields
}

func (UpdateHolding) What() EventType { return EvtUpdate }
func (e UpdateHolding) apply(s State) (State, error) {
	i := s.index(e.ID)
	if i < 0 {
		return s, fmt.Errorf("%w: %q", ErrHoldingNotFound, e.ID)
	}
	h := &s.Holdings[i]
	h.Type = e.Fields.Type
	h.Symbol = e.Fields.Symbol
	h.Shares = e.Fields.Shares
	h.AvgPrice = e.Fields.AvgPrice.Decimal()
	h.Currency = e.Fields.AvgPrice.Currency()
	h.Name = e.Fields.Name
	return s, nil
}

// DeleteHolding removes a holding.
type DeleteHolding struct {
	ID string
}

func (DeleteHolding) What() EventType { return EvtDelete }
func (e DeleteHolding) apply(s State) (State, error) {
	i := s.index(e.ID)
	if i < 0 {
		return s, fmt.Errorf("%w: %q", ErrHoldingNotFound, e.ID)
	}
	s.Holdings = slices.Delete(s.Holdings, i, i+1)
	return s, nil
}

// RefreshStarted marks the state as loading.
type RefreshStarted struct{}

func (RefreshStarted) What() EventType { return EvtRefreshStarted }
func (RefreshStarted) apply(s State) (State, error) {
	s.Loading = true
	return s, nil
}

// RefreshSucceeded merges a refresh result: the rate table is replaced and
// every holding with a matching quote gets its price fields updated.
type RefreshSucceeded struct {
	Result RefreshResult
	Match  MatchFunc // nil means MatchSubstring
}

func (RefreshSucceeded) What() EventType { return EvtRefreshSucceeded }
func (e RefreshSucceeded) apply(s State) (State, error) {
	match := e.Match
	if match == nil {
		match = MatchSubstring
	}
	s.Loading = false
	s.Rates = e.Result.Rates
	s.RatesFetched = true
	for i := range s.Holdings {
		q, ok := FindQuote(e.Result.Quotes, s.Holdings[i], match)
		if !ok {
			continue
		}
		price := q.Price
		s.Holdings[i].CurrentPrice = &price
		s.Holdings[i].DailyChange = nil
		if q.DailyChangePct != nil {
			change := *q.DailyChangePct
			s.Holdings[i].DailyChange = &change
		}
		s.Holdings[i].Name = q.Name
	}
	return s, nil
}

// RefreshFailed ends a refresh without touching the holdings. Rates keep
// their last known values, or the fallback ones if none were ever fetched.
type RefreshFailed struct {
	Err error
}

func (RefreshFailed) What() EventType { return EvtRefreshFailed }
func (RefreshFailed) apply(s State) (State, error) {
	s.Loading = false
	if !s.RatesFetched {
		s.Rates = DefaultRates()
	}
	return s, nil
}
