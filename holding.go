package komorebi

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AssetType classifies a holding.
type AssetType string

// Asset types, in display order.
const (
	TWStock AssetType = "TW_STOCK" // domestic equity
	USStock AssetType = "US_STOCK" // foreign equity
	Cash    AssetType = "CASH"
	Other   AssetType = "OTHER"
)

// AssetTypes lists the asset types in display order.
var AssetTypes = []AssetType{TWStock, USStock, Cash, Other}

// ParseAssetType parses an asset type, accepting the stored code or a short alias.
func ParseAssetType(s string) (AssetType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tw_stock", "tw", "domestic":
		return TWStock, nil
	case "us_stock", "us", "foreign":
		return USStock, nil
	case "cash":
		return Cash, nil
	case "other":
		return Other, nil
	}
	return "", fmt.Errorf("unknown asset type %q", s)
}

// IsEquity reports whether the asset is quoted on a market.
func (t AssetType) IsEquity() bool { return t == TWStock || t == USStock }

// MarketCurrency returns the currency equities of type t trade in.
func (t AssetType) MarketCurrency() (Currency, bool) {
	switch t {
	case TWStock:
		return TWDCurrency, true
	case USStock:
		return USDCurrency, true
	}
	return "", false
}

// Title returns the display title of the asset group.
func (t AssetType) Title() string {
	switch t {
	case TWStock:
		return "Domestic Equities"
	case USStock:
		return "Foreign Equities"
	case Cash:
		return "Cash"
	case Other:
		return "Other Assets"
	}
	return string(t)
}

// Holding is one tracked asset position.
type Holding struct {
	ID       string
	Type     AssetType
	Symbol   string
	Shares   Quantity        // shares, or amount for cash and other assets
	AvgPrice decimal.Decimal // average cost per share, 1 for cash and other assets
	Currency Currency
	Name     string

	// Updated by a refresh, nil until a quote has matched.
	CurrentPrice *decimal.Decimal
	DailyChange  *Percent
}

// Price returns the current price if known, the average cost otherwise.
func (h Holding) Price() Money {
	if h.CurrentPrice != nil {
		return M(*h.CurrentPrice, h.Currency)
	}
	return M(h.AvgPrice, h.Currency)
}

// Cost returns the average cost per share.
func (h Holding) Cost() Money { return M(h.AvgPrice, h.Currency) }

// LocalValue returns the value of the holding in its own currency.
func (h Holding) LocalValue() Money { return h.Price().Mul(h.Shares) }

// clone returns a copy that shares no pointer with h.
func (h Holding) clone() Holding {
	if h.CurrentPrice != nil {
		p := *h.CurrentPrice
		h.CurrentPrice = &p
	}
	if h.DailyChange != nil {
		c := *h.DailyChange
		h.DailyChange = &c
	}
	return h
}

// holdingJSON is the persisted shape of a Holding.
type holdingJSON struct {
	ID             string           `json:"id"`
	Type           AssetType        `json:"type"`
	Symbol         string           `json:"symbol"`
	Shares         decimal.Decimal  `json:"shares"`
	AvgPrice       decimal.Decimal  `json:"avgPrice"`
	Currency       Currency         `json:"currency"`
	Name           string           `json:"name"`
	CurrentPrice   *decimal.Decimal `json:"currentPrice"`
	DailyChangePct *float64         `json:"dailyChangePct"`
}

// MarshalJSON writes the holding with a stable field order and plain JSON numbers.
func (h Holding) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", h.ID)
	w.Append("type", h.Type)
	w.Append("symbol", h.Symbol)
	w.Append("shares", json.Number(h.Shares.value.String()))
	w.Append("avgPrice", json.Number(h.AvgPrice.String()))
	w.Append("currency", h.Currency)
	w.Append("name", h.Name)
	if h.CurrentPrice != nil {
		w.Append("currentPrice", json.Number(h.CurrentPrice.String()))
	}
	if h.DailyChange != nil {
		w.Append("dailyChangePct", float64(*h.DailyChange))
	}
	return w.MarshalJSON()
}

// UnmarshalJSON reads a holding as stored, without any validation.
func (h *Holding) UnmarshalJSON(data []byte) error {
	var j holdingJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	*h = Holding{
		ID:           j.ID,
		Type:         j.Type,
		Symbol:       j.Symbol,
		Shares:       Quantity{value: j.Shares},
		AvgPrice:     j.AvgPrice,
		Currency:     j.Currency,
		Name:         j.Name,
		CurrentPrice: j.CurrentPrice,
	}
	if j.DailyChangePct != nil {
		p := Percent(*j.DailyChangePct)
		h.DailyChange = &p
	}
	return nil
}
