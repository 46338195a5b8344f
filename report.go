package komorebi

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// ValuationReport is the whole display: net worth, daily change, and the
// holdings grouped by asset type.
type ValuationReport struct {
	ReportingCurrency Currency
	Rates             Rates
	RatesFetched      bool // false while Rates are the fallback ones
	NetWorth          Money
	DailyChange       Percent
	Count             int
	Groups            []GroupReport
	Warnings          []error // holdings left out of the totals
}

// GroupReport is one asset type section of the report.
type GroupReport struct {
	Type  AssetType
	Lines []HoldingLine
	Value Money // in reporting currency
}

// HoldingLine is one holding with its computed figures.
type HoldingLine struct {
	Holding
	LocalValue Money // in the holding currency
	Value      Money // in reporting currency, zero if it cannot be converted
	Profit     Profit
	Lots       Quantity // only meaningful for domestic equities
}

// NewValuationReport computes the report of a state. Holdings that cannot
// be converted are listed in Warnings and left out of the totals instead
// of failing the whole report.
func NewValuationReport(s State) *ValuationReport {
	r := &ValuationReport{
		ReportingCurrency: ReportingCurrency,
		Rates:             s.Rates,
		RatesFetched:      s.RatesFetched,
		NetWorth:          TWD(0),
		Count:             len(s.Holdings),
	}

	valued := make([]Holding, 0, len(s.Holdings))
	for _, h := range s.Holdings {
		if _, err := s.Rates.Rate(h.Currency); err != nil {
			log.Warn().Str("id", h.ID).Str("currency", string(h.Currency)).Msg("holding left out of totals")
			r.Warnings = append(r.Warnings, fmt.Errorf("holding %q: %w", h.Symbol, err))
			continue
		}
		valued = append(valued, h)
	}

	// valued holdings all convert, errors are impossible from now on.
	r.NetWorth = must(TotalNetWorth(valued, s.Rates))
	r.DailyChange = must(WeightedDailyChange(valued, s.Rates))

	for _, g := range GroupByType(s.Holdings) {
		gr := GroupReport{Type: g.Type, Value: TWD(0)}
		for _, h := range g.Holdings {
			line := HoldingLine{
				Holding:    h,
				LocalValue: h.LocalValue(),
				Profit:     UnrealizedProfit(h),
				Lots:       h.Shares.Lots(),
			}
			if v, err := HoldingValue(h, s.Rates); err == nil {
				line.Value = v
				gr.Value = gr.Value.Add(v)
			}
			gr.Lines = append(gr.Lines, line)
		}
		r.Groups = append(r.Groups, gr)
	}
	return r
}

// Group returns the section of the given asset type.
func (r *ValuationReport) Group(t AssetType) GroupReport {
	for _, g := range r.Groups {
		if g.Type == t {
			return g
		}
	}
	return GroupReport{Type: t, Value: TWD(0)}
}

// HasUnsupportedCurrency reports whether some holding was left out of the totals.
func (r *ValuationReport) HasUnsupportedCurrency() bool {
	for _, w := range r.Warnings {
		if errors.Is(w, ErrUnsupportedCurrency) {
			return true
		}
	}
	return false
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
