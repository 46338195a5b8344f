package komorebi

import (
	"context"
	"errors"
	"testing"
	"time"
)

type providerFunc func(ctx context.Context, reqs []QuoteRequest) (RefreshResult, error)

func (f providerFunc) Fetch(ctx context.Context, reqs []QuoteRequest) (RefreshResult, error) {
	return f(ctx, reqs)
}

func TestRequests(t *testing.T) {
	hs := []Holding{
		equity(USStock, "AAPL", "1", "1", USDCurrency),
		balance(Cash, "1", TWDCurrency),
		equity(TWStock, "2330", "1", "1", TWDCurrency),
		equity(TWStock, "", "1", "1", TWDCurrency),
		{ID: "gold", Type: Other, Symbol: "GOLD"},
	}
	reqs := Requests(hs)
	if len(reqs) != 2 {
		t.Fatalf("Requests() = %v, want AAPL and 2330", reqs)
	}
	if got := reqs[0].Market(); got != "US:AAPL" {
		t.Errorf("Market() = %q, want US:AAPL", got)
	}
	if got := reqs[1].Market(); got != "TW:2330" {
		t.Errorf("Market() = %q, want TW:2330", got)
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		quote, symbol       string
		substring, exactly bool
	}{
		{"US:AAPL", "AAPL", true, true},
		{"AAPL", "AAPL", true, true},
		{"US:AAPL", "AAP", true, false},
		{"TW:2330", "2330", true, true},
		{"TW:2330", "233", true, false},
		{"US:aapl", "AAPL", false, true},
		{"US:MSFT", "AAPL", false, false},
		{"US:AAPL", "", true, false},
	}
	for _, tc := range tests {
		h := Holding{Symbol: tc.symbol}
		if got := MatchSubstring(tc.quote, h); got != tc.substring {
			t.Errorf("MatchSubstring(%q, %q) = %v, want %v", tc.quote, tc.symbol, got, tc.substring)
		}
		if got := MatchExact(tc.quote, h); got != tc.exactly {
			t.Errorf("MatchExact(%q, %q) = %v, want %v", tc.quote, tc.symbol, got, tc.exactly)
		}
	}

	if _, ok := ParseMatch("fuzzy"); ok {
		t.Error("ParseMatch(fuzzy) ok = true, want false")
	}
}

func TestRefresh(t *testing.T) {
	s := NewState([]Holding{equity(USStock, "AAPL", "10", "150", USDCurrency)})

	var asked []QuoteRequest
	ok := providerFunc(func(_ context.Context, reqs []QuoteRequest) (RefreshResult, error) {
		asked = reqs
		return RefreshResult{
			Quotes: []Quote{{Symbol: "US:AAPL", Price: dec("180"), DailyChangePct: ptr(Percent(2)), Name: "Apple"}},
			Rates:  NewRates(dec("30"), dec("0.2")),
		}, nil
	})
	got := Refresh(context.Background(), s, ok, RefreshOptions{})
	if len(asked) != 1 || asked[0].Symbol != "AAPL" {
		t.Errorf("provider asked for %v, want AAPL", asked)
	}
	if got.Loading || !got.RatesFetched || !got.Holdings[0].CurrentPrice.Equal(dec("180")) {
		t.Errorf("Refresh() = %+v, want AAPL priced at 180", got)
	}

	failing := providerFunc(func(context.Context, []QuoteRequest) (RefreshResult, error) {
		return RefreshResult{}, errors.New("unavailable")
	})
	got = Refresh(context.Background(), s, failing, RefreshOptions{})
	if got.Loading || got.RatesFetched || got.Holdings[0].CurrentPrice != nil {
		t.Errorf("Refresh(failing) = %+v, want the state unchanged and idle", got)
	}
}

func TestRefresh_Timeout(t *testing.T) {
	s := NewState([]Holding{equity(USStock, "AAPL", "10", "150", USDCurrency)})
	hanging := providerFunc(func(ctx context.Context, _ []QuoteRequest) (RefreshResult, error) {
		<-ctx.Done()
		return RefreshResult{}, ctx.Err()
	})

	done := make(chan State)
	go func() {
		done <- Refresh(context.Background(), s, hanging, RefreshOptions{Timeout: 10 * time.Millisecond})
	}()
	select {
	case got := <-done:
		if got.Loading {
			t.Error("Refresh() left the state loading after a timeout")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Refresh() did not honor its timeout")
	}
}
