package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/etnz/komorebi"
	"github.com/shopspring/decimal"
)

func pct(v float64) *komorebi.Percent {
	p := komorebi.Percent(v)
	return &p
}

func samePercent(a, b *komorebi.Percent) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func TestParseResponse(t *testing.T) {
	testCases := []struct {
		name       string
		text       string
		wantQuotes []komorebi.Quote
		wantUSD    string
		wantJPY    string
	}{
		{
			name: "complete response",
			text: `{"prices":[{"symbol":"US:AAPL","price":189.25,"name":"Apple Inc.","dailyChangePct":1.5},
				{"symbol":"TW:2330","price":1025,"name":"TSMC","dailyChangePct":-0.48}],
				"rates":{"usd_to_twd":31.85,"jpy_to_twd":0.2134}}`,
			wantQuotes: []komorebi.Quote{
				{Symbol: "US:AAPL", Price: decimal.RequireFromString("189.25"), Name: "Apple Inc.", DailyChangePct: pct(1.5)},
				{Symbol: "TW:2330", Price: decimal.RequireFromString("1025"), Name: "TSMC", DailyChangePct: pct(-0.48)},
			},
			wantUSD: "31.85",
			wantJPY: "0.2134",
		},
		{
			name:    "fenced response with missing rates",
			text:    "```json\n{\"prices\":[],\"rates\":{}}\n```",
			wantUSD: "32.5",
			wantJPY: "0.21",
		},
		{
			name:    "no prices and zero rate",
			text:    `{"rates":{"usd_to_twd":0,"jpy_to_twd":"0.22"}}`,
			wantUSD: "32.5",
			wantJPY: "0.22",
		},
		{
			name: "malformed entries are skipped",
			text: `{"prices":[{"symbol":"US:MSFT"},{"price":12},{"symbol":"US:NVDA","price":"120.5","dailyChangePct":"2.5%"}],"rates":{"usd_to_twd":32,"jpy_to_twd":0.2}}`,
			wantQuotes: []komorebi.Quote{
				{Symbol: "US:NVDA", Price: decimal.RequireFromString("120.5"), DailyChangePct: pct(2.5)},
			},
			wantUSD: "32",
			wantJPY: "0.2",
		},
		{
			name: "missing daily change",
			text: `{"prices":[{"symbol":"US:MSFT","price":400,"name":"Microsoft"}],"rates":{"usd_to_twd":32,"jpy_to_twd":0.2}}`,
			wantQuotes: []komorebi.Quote{
				{Symbol: "US:MSFT", Price: decimal.NewFromInt(400), Name: "Microsoft"},
			},
			wantUSD: "32",
			wantJPY: "0.2",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseResponse(tc.text)
			if err != nil {
				t.Fatalf("ParseResponse() error = %v", err)
			}
			if len(got.Quotes) != len(tc.wantQuotes) {
				t.Fatalf("len(Quotes) = %d, want %d: %v", len(got.Quotes), len(tc.wantQuotes), got.Quotes)
			}
			for i, want := range tc.wantQuotes {
				q := got.Quotes[i]
				if q.Symbol != want.Symbol || q.Name != want.Name || !q.Price.Equal(want.Price) || !samePercent(q.DailyChangePct, want.DailyChangePct) {
					t.Errorf("Quotes[%d] = %+v, want %+v", i, q, want)
				}
			}
			if want := decimal.RequireFromString(tc.wantUSD); !got.Rates.USD.Equal(want) {
				t.Errorf("Rates.USD = %v, want %v", got.Rates.USD, want)
			}
			if want := decimal.RequireFromString(tc.wantJPY); !got.Rates.JPY.Equal(want) {
				t.Errorf("Rates.JPY = %v, want %v", got.Rates.JPY, want)
			}
		})
	}
}

func TestParseResponse_Invalid(t *testing.T) {
	for _, text := range []string{"", "sorry, I cannot help", "[1,2]"} {
		if _, err := ParseResponse(text); err == nil {
			t.Errorf("ParseResponse(%q) error = nil, want an error", text)
		}
	}
}

func TestPrompt(t *testing.T) {
	got := Prompt([]komorebi.QuoteRequest{
		{Type: komorebi.USStock, Symbol: "AAPL"},
		{Type: komorebi.TWStock, Symbol: "2330"},
	})
	if !strings.Contains(got, "US:AAPL, TW:2330") {
		t.Errorf("Prompt() = %q, want the market qualified symbols", got)
	}
	if got := Prompt(nil); !strings.Contains(got, "symbols: none.") {
		t.Errorf("Prompt(nil) = %q, want %q", got, "symbols: none.")
	}
}

func TestClient_Fetch(t *testing.T) {
	var asked string
	c := &Client{model: DefaultModel, generate: func(_ context.Context, prompt string) (string, error) {
		asked = prompt
		return `{"prices":[{"symbol":"US:AAPL","price":190,"name":"Apple","dailyChangePct":1}],"rates":{"usd_to_twd":31,"jpy_to_twd":0.2}}`, nil
	}}

	res, err := c.Fetch(context.Background(), []komorebi.QuoteRequest{{Type: komorebi.USStock, Symbol: "AAPL"}})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if !strings.Contains(asked, "US:AAPL") {
		t.Errorf("prompt = %q, want it to mention US:AAPL", asked)
	}
	if len(res.Quotes) != 1 || res.Quotes[0].Symbol != "US:AAPL" {
		t.Errorf("Quotes = %v, want one US:AAPL quote", res.Quotes)
	}

	boom := errors.New("quota exceeded")
	c.generate = func(context.Context, string) (string, error) { return "", boom }
	if _, err := c.Fetch(context.Background(), nil); !errors.Is(err, boom) {
		t.Errorf("Fetch() error = %v, want %v", err, boom)
	}
}
