package komorebi

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestState_Apply(t *testing.T) {
	aapl := equity(USStock, "AAPL", "10", "150", USDCurrency)
	s := NewState(nil)

	s, err := s.Apply(AddHolding{Holding: aapl})
	if err != nil {
		t.Fatalf("Apply(add) error = %v", err)
	}
	if len(s.Holdings) != 1 {
		t.Fatalf("holdings = %d, want 1", len(s.Holdings))
	}

	if _, err := s.Apply(AddHolding{Holding: aapl}); err == nil {
		t.Error("Apply(add duplicate) error = nil, want an error")
	}
	if _, err := s.Apply(AddHolding{}); err == nil {
		t.Error("Apply(add without id) error = nil, want an error")
	}

	// update keeps the price fields.
	s.Holdings[0].CurrentPrice = ptr(dec("200"))
	s, err = s.Apply(UpdateHolding{ID: aapl.ID, Fields: Fields{
		Type: USStock, Symbol: "AAPL", Shares: Q(20), AvgPrice: M(160, USDCurrency), Name: "Apple",
	}})
	if err != nil {
		t.Fatalf("Apply(update) error = %v", err)
	}
	got := s.Holdings[0]
	if !got.Shares.Equal(Q(20)) || !got.AvgPrice.Equal(dec("160")) || got.Name != "Apple" {
		t.Errorf("updated holding = %+v", got)
	}
	if got.CurrentPrice == nil || !got.CurrentPrice.Equal(dec("200")) {
		t.Errorf("updated CurrentPrice = %v, want 200 kept", got.CurrentPrice)
	}

	if _, err := s.Apply(UpdateHolding{ID: "nope"}); !errors.Is(err, ErrHoldingNotFound) {
		t.Errorf("Apply(update unknown) error = %v, want ErrHoldingNotFound", err)
	}

	s, err = s.Apply(DeleteHolding{ID: aapl.ID})
	if err != nil {
		t.Fatalf("Apply(delete) error = %v", err)
	}
	if len(s.Holdings) != 0 {
		t.Errorf("holdings after delete = %d, want 0", len(s.Holdings))
	}
	if _, err := s.Apply(DeleteHolding{ID: aapl.ID}); !errors.Is(err, ErrHoldingNotFound) {
		t.Errorf("Apply(delete twice) error = %v, want ErrHoldingNotFound", err)
	}
}

func TestState_ApplyDoesNotModifyReceiver(t *testing.T) {
	h := equity(USStock, "AAPL", "10", "150", USDCurrency)
	h.CurrentPrice = ptr(dec("100"))
	s := NewState([]Holding{h})

	next, err := s.Apply(RefreshSucceeded{Result: RefreshResult{
		Quotes: []Quote{{Symbol: "US:AAPL", Price: dec("200"), DailyChangePct: ptr(Percent(1)), Name: "Apple"}},
		Rates:  DefaultRates(),
	}})
	if err != nil {
		t.Fatal(err)
	}
	if !s.Holdings[0].CurrentPrice.Equal(dec("100")) || s.Holdings[0].Name != "" {
		t.Errorf("receiver modified: %+v", s.Holdings[0])
	}
	if !next.Holdings[0].CurrentPrice.Equal(dec("200")) {
		t.Errorf("next CurrentPrice = %v, want 200", next.Holdings[0].CurrentPrice)
	}
}

func TestState_Refresh(t *testing.T) {
	s := NewState([]Holding{
		equity(USStock, "AAPL", "10", "150", USDCurrency),
		equity(TWStock, "2330", "1000", "600", TWDCurrency),
		balance(Cash, "1000", USDCurrency),
	})

	s, _ = s.Apply(RefreshStarted{})
	if !s.Loading {
		t.Fatal("Loading = false after RefreshStarted")
	}

	fetched := NewRates(dec("31"), dec("0.2"))
	s, err := s.Apply(RefreshSucceeded{Result: RefreshResult{
		Quotes: []Quote{
			{Symbol: "US:AAPL", Price: dec("190"), DailyChangePct: ptr(Percent(1.2)), Name: "Apple Inc."},
			{Symbol: "TW:2330", Price: dec("620"), DailyChangePct: ptr(Percent(-0.5)), Name: "TSMC"},
		},
		Rates: fetched,
	}})
	if err != nil {
		t.Fatal(err)
	}
	if s.Loading || !s.RatesFetched || !s.Rates.Equal(fetched) {
		t.Errorf("state after success = loading %v, fetched %v, rates %v", s.Loading, s.RatesFetched, s.Rates)
	}
	if h := s.Holdings[1]; h.Name != "TSMC" || !h.CurrentPrice.Equal(dec("620")) || !h.DailyChange.Equal(-0.5) {
		t.Errorf("refreshed 2330 = %+v", h)
	}
	if s.Holdings[2].CurrentPrice != nil {
		t.Errorf("cash got a price: %+v", s.Holdings[2])
	}

	// a failure keeps everything, the fetched rates included.
	before := s
	s, _ = s.Apply(RefreshStarted{})
	s, err = s.Apply(RefreshFailed{Err: errors.New("boom")})
	if err != nil {
		t.Fatal(err)
	}
	if s.Loading || !s.Rates.Equal(fetched) {
		t.Errorf("state after failure = loading %v, rates %v, want idle with fetched rates", s.Loading, s.Rates)
	}
	want, _ := EncodeHoldings(before.Holdings)
	got, _ := EncodeHoldings(s.Holdings)
	if diff := cmp.Diff(string(want), string(got)); diff != "" {
		t.Errorf("holdings changed by a failed refresh (-want +got):\n%s", diff)
	}
}

func TestState_RefreshWithoutDailyChange(t *testing.T) {
	msft := equity(USStock, "MSFT", "10", "100", USDCurrency)
	msft.DailyChange = ptr(Percent(5))
	s := NewState([]Holding{equity(USStock, "AAPL", "10", "100", USDCurrency), msft})

	s, err := s.Apply(RefreshSucceeded{Result: RefreshResult{
		Quotes: []Quote{
			{Symbol: "US:AAPL", Price: dec("100"), DailyChangePct: ptr(Percent(2)), Name: "Apple"},
			{Symbol: "US:MSFT", Price: dec("100"), Name: "Microsoft"},
		},
		Rates: DefaultRates(),
	}})
	if err != nil {
		t.Fatal(err)
	}
	if h := s.Holdings[1]; h.DailyChange != nil || !h.CurrentPrice.Equal(dec("100")) {
		t.Errorf("MSFT = %+v, want a price and no daily change", h)
	}
	got, err := WeightedDailyChange(s.Holdings, s.Rates)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(2) {
		t.Errorf("WeightedDailyChange() = %v, want 2", got)
	}
}

func TestRefreshFailed_FallbackRates(t *testing.T) {
	s := NewState(nil)
	s.Rates = NewRates(dec("40"), dec("0.3"))
	s, _ = s.Apply(RefreshFailed{})
	if !s.Rates.Equal(DefaultRates()) {
		t.Errorf("rates = %v, want fallback rates when none were fetched", s.Rates)
	}
}

func TestMutates(t *testing.T) {
	tests := []struct {
		e    Event
		want bool
	}{
		{AddHolding{}, true},
		{UpdateHolding{}, true},
		{DeleteHolding{}, true},
		{RefreshSucceeded{}, true},
		{RefreshStarted{}, false},
		{RefreshFailed{}, false},
	}
	for _, tc := range tests {
		if got := Mutates(tc.e); got != tc.want {
			t.Errorf("Mutates(%s) = %v, want %v", tc.e.What(), got, tc.want)
		}
	}
}
