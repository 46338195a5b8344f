package komorebi

import "github.com/shopspring/decimal"

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float32 | float64 | int | int32 | int64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	default:
		panic("unsupported type")
	}
}

// Quantity is a number of shares, or an amount of units for cash and other assets.
type Quantity struct {
	value decimal.Decimal
}

func Q[T float32 | float64 | int | int32 | int64 | decimal.Decimal](value T) Quantity {
	return Quantity{value: newDecimal(value)}
}

// shareLot is the number of shares in a board lot on the domestic market.
var shareLot = decimal.NewFromInt(1000)

func (q Quantity) Decimal() decimal.Decimal      { return q.value }
func (q Quantity) Equal(p Quantity) bool         { return q.value.Equal(p.value) }
func (q Quantity) Mul(p Quantity) Quantity       { return Quantity{value: q.value.Mul(p.value)} }
func (q Quantity) IsNegative() bool              { return q.value.IsNegative() }
func (q Quantity) IsZero() bool                  { return q.value.IsZero() }
func (q Quantity) String() string                { return q.value.String() }
func (q Quantity) Lots() Quantity                { return Quantity{value: q.value.Div(shareLot)} }
func (q Quantity) MarshalJSON() ([]byte, error)  { return []byte(q.value.String()), nil }
func (q *Quantity) UnmarshalJSON(b []byte) error { return q.value.UnmarshalJSON(b) }
