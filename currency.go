package komorebi

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 code. Only the reporting currency, USD and JPY
// are supported; other values may still come from older stored data.
type Currency string

const (
	TWDCurrency Currency = "TWD"
	USDCurrency Currency = "USD"
	JPYCurrency Currency = "JPY"

	// ReportingCurrency is the currency all aggregate figures are expressed in.
	ReportingCurrency = TWDCurrency
)

// Currencies lists the supported currencies, reporting currency first.
var Currencies = []Currency{TWDCurrency, USDCurrency, JPYCurrency}

// ErrUnsupportedCurrency is returned when a value cannot be converted to the reporting currency.
var ErrUnsupportedCurrency = errors.New("unsupported currency")

// ParseCurrency parses a currency code, case-insensitively.
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	if !c.IsSupported() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedCurrency, s)
	}
	return c, nil
}

// IsSupported reports whether c can be converted to the reporting currency.
func (c Currency) IsSupported() bool {
	switch c {
	case TWDCurrency, USDCurrency, JPYCurrency:
		return true
	}
	return false
}

func (c Currency) String() string { return string(c) }

// Rates is the exchange rate table to the reporting currency.
type Rates struct {
	USD decimal.Decimal // TWD per USD
	JPY decimal.Decimal // TWD per JPY
}

// Fallback rates used until a refresh has succeeded, and for any rate a
// refresh could not provide.
var (
	FallbackUSD = decimal.RequireFromString("32.5")
	FallbackJPY = decimal.RequireFromString("0.21")
)

// DefaultRates returns the fallback rate table.
func DefaultRates() Rates {
	return Rates{USD: FallbackUSD, JPY: FallbackJPY}
}

// NewRates builds a rate table, substituting the fallback for any rate
// that is missing (zero or negative).
func NewRates(usd, jpy decimal.Decimal) Rates {
	r := DefaultRates()
	if usd.IsPositive() {
		r.USD = usd
	}
	if jpy.IsPositive() {
		r.JPY = jpy
	}
	return r
}

// Rate returns the multiplier converting c into the reporting currency.
func (r Rates) Rate(c Currency) (decimal.Decimal, error) {
	switch c {
	case TWDCurrency:
		return decimal.NewFromInt(1), nil
	case USDCurrency:
		return r.USD, nil
	case JPYCurrency:
		return r.JPY, nil
	}
	return decimal.Zero, fmt.Errorf("%w: %q", ErrUnsupportedCurrency, string(c))
}

func (r Rates) Equal(s Rates) bool { return r.USD.Equal(s.USD) && r.JPY.Equal(s.JPY) }
