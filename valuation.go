package komorebi

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ConvertToReporting converts an amount expressed in currency c into the
// reporting currency.
func ConvertToReporting(amount decimal.Decimal, c Currency, rates Rates) (Money, error) {
	rate, err := rates.Rate(c)
	if err != nil {
		return Money{}, err
	}
	return TWD(amount.Mul(rate)), nil
}

// HoldingValue returns the market value of h in the reporting currency,
// using the average cost when no current price is known.
func HoldingValue(h Holding, rates Rates) (Money, error) {
	v, err := ConvertToReporting(h.LocalValue().Decimal(), h.Currency, rates)
	if err != nil {
		return Money{}, fmt.Errorf("holding %q: %w", h.Symbol, err)
	}
	return v, nil
}

// TotalNetWorth returns the sum of all holding values in the reporting
// currency. It fails on the first holding it cannot convert.
func TotalNetWorth(holdings []Holding, rates Rates) (Money, error) {
	total := TWD(0)
	for _, h := range holdings {
		v, err := HoldingValue(h, rates)
		if err != nil {
			return Money{}, err
		}
		total = total.Add(v)
	}
	return total, nil
}

// WeightedDailyChange returns the value-weighted average of the daily
// change of the equities that have one. It is 0 when there is no such
// equity or when their total value is not positive.
func WeightedDailyChange(holdings []Holding, rates Rates) (Percent, error) {
	weighted, total := decimal.Zero, decimal.Zero
	for _, h := range holdings {
		if !h.Type.IsEquity() || h.DailyChange == nil {
			continue
		}
		v, err := HoldingValue(h, rates)
		if err != nil {
			return 0, err
		}
		weighted = weighted.Add(decimal.NewFromFloat(float64(*h.DailyChange)).Mul(v.Decimal()))
		total = total.Add(v.Decimal())
	}
	if !total.IsPositive() {
		return 0, nil
	}
	return Percent(weighted.Div(total).InexactFloat64()), nil
}

// Profit is an unrealized gain or loss, in the holding's own currency.
type Profit struct {
	Amount  Money
	Percent Percent
}

// UnrealizedProfit returns the gain of h at its current price over its
// average cost. The percentage is 0 when the cost basis is 0.
func UnrealizedProfit(h Holding) Profit {
	amount := h.Price().Sub(h.Cost()).Mul(h.Shares)
	basis := h.Cost().Mul(h.Shares)
	if basis.IsZero() {
		return Profit{Amount: amount}
	}
	pct := amount.Decimal().Div(basis.Decimal()).Mul(decimal.NewFromInt(100))
	return Profit{Amount: amount, Percent: Percent(pct.InexactFloat64())}
}

// Group is the list of holdings of one asset type.
type Group struct {
	Type     AssetType
	Holdings []Holding
}

// GroupByType partitions holdings into the four asset types, in display
// order. Holdings keep their relative order; every group is present, even
// when empty. Holdings of an unknown type are dropped.
func GroupByType(holdings []Holding) []Group {
	groups := make([]Group, len(AssetTypes))
	for i, t := range AssetTypes {
		groups[i].Type = t
		for _, h := range holdings {
			if h.Type == t {
				groups[i].Holdings = append(groups[i].Holdings, h)
			}
		}
	}
	return groups
}
