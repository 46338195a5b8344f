package komorebi

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// QuoteRequest asks for the quote of one equity.
type QuoteRequest struct {
	Type   AssetType
	Symbol string
}

// Market returns the market qualified symbol sent to the data provider,
// e.g. "US:AAPL" or "TW:2330".
func (r QuoteRequest) Market() string {
	if r.Type == USStock {
		return "US:" + r.Symbol
	}
	return "TW:" + r.Symbol
}

// Quote is the price of one symbol, as returned by a data provider.
type Quote struct {
	Symbol         string
	Price          decimal.Decimal
	DailyChangePct *Percent // nil when the source has no figure
	Name           string
}

// RefreshResult is what a successful refresh returns.
type RefreshResult struct {
	Quotes []Quote
	Rates  Rates
}

// Provider fetches quotes and exchange rates from an external data source.
type Provider interface {
	Fetch(ctx context.Context, reqs []QuoteRequest) (RefreshResult, error)
}

// Requests lists the quote requests for the equity holdings with a symbol.
func Requests(holdings []Holding) []QuoteRequest {
	var reqs []QuoteRequest
	for _, h := range holdings {
		if h.Symbol != "" && h.Type.IsEquity() {
			reqs = append(reqs, QuoteRequest{Type: h.Type, Symbol: h.Symbol})
		}
	}
	return reqs
}

// MatchFunc reports whether quote applies to holding.
type MatchFunc func(quote string, h Holding) bool

// MatchSubstring matches a quote whose symbol contains the holding symbol.
// It is ambiguous: a holding "AAP" matches a quote "US:AAPL".
func MatchSubstring(quote string, h Holding) bool {
	return strings.Contains(quote, h.Symbol)
}

// MatchExact matches a quote whose symbol, without its market prefix, is the
// holding symbol, ignoring case. Holdings without a symbol never match.
func MatchExact(quote string, h Holding) bool {
	if h.Symbol == "" {
		return false
	}
	if i := strings.IndexByte(quote, ':'); i >= 0 {
		quote = quote[i+1:]
	}
	return strings.EqualFold(strings.TrimSpace(quote), h.Symbol)
}

// ParseMatch returns the match policy by name: "substring" or "exact".
func ParseMatch(name string) (MatchFunc, bool) {
	switch name {
	case "", "substring":
		return MatchSubstring, true
	case "exact":
		return MatchExact, true
	}
	return nil, false
}

// FindQuote returns the first quote matching h.
func FindQuote(quotes []Quote, h Holding, match MatchFunc) (Quote, bool) {
	for _, q := range quotes {
		if match(q.Symbol, h) {
			return q, true
		}
	}
	return Quote{}, false
}

// RefreshOptions tune a refresh.
type RefreshOptions struct {
	Timeout time.Duration // 0 means no timeout
	Match   MatchFunc     // nil means MatchSubstring
}

// Refresh runs a full refresh cycle on s and returns the resulting state.
//
// The provider is given a snapshot of the equity holdings. A failure is
// logged and never returned: the holdings are left unchanged and the user
// keeps seeing the last known values.
func Refresh(ctx context.Context, s State, p Provider, opts RefreshOptions) State {
	s, _ = s.Apply(RefreshStarted{})

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	reqs := Requests(s.Holdings)
	start := time.Now()
	res, err := p.Fetch(ctx, reqs)
	if err != nil {
		log.Error().Err(err).Int("symbols", len(reqs)).Dur("elapsed", time.Since(start)).Msg("refresh failed, keeping last known values")
		s, _ = s.Apply(RefreshFailed{Err: err})
		return s
	}
	log.Debug().Int("symbols", len(reqs)).Int("quotes", len(res.Quotes)).Dur("elapsed", time.Since(start)).Msg("refresh succeeded")

	next, err := s.Apply(RefreshSucceeded{Result: res, Match: opts.Match})
	if err != nil {
		// merging cannot fail, but never leave the state loading.
		s, _ = s.Apply(RefreshFailed{Err: err})
		return s
	}
	return next
}
