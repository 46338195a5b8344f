package komorebi

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EditorMode is the state of the holding editor.
type EditorMode int

const (
	Closed EditorMode = iota
	Creating
	Editing
)

func (m EditorMode) String() string {
	switch m {
	case Creating:
		return "creating"
	case Editing:
		return "editing"
	}
	return "closed"
}

// Form holds the raw user input of the editor.
type Form struct {
	Type     AssetType
	Symbol   string
	Shares   string
	AvgPrice string
	Currency Currency
}

// ValidationError is a rejected submission. The editor state is unchanged.
type ValidationError struct {
	Field   string // empty when the form is incomplete
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// ErrEditorClosed is returned when submitting while no form is open.
var ErrEditorClosed = errors.New("editor is closed")

// Editor is the create/edit workflow of a holding.
//
// It goes Closed → Creating → Closed, or Closed → Editing(id) → Closed.
// A successful Submit returns the event to apply and closes the editor.
type Editor struct {
	Form  Form
	NewID func() string // generates ids for new holdings

	mode    EditorMode
	initial Holding // the edited holding
}

// NewEditor returns a closed editor generating UUIDs.
func NewEditor() *Editor {
	return &Editor{NewID: uuid.NewString}
}

func (e *Editor) Mode() EditorMode { return e.mode }

// EditingID returns the id of the edited holding, if any.
func (e *Editor) EditingID() string {
	if e.mode != Editing {
		return ""
	}
	return e.initial.ID
}

// OpenCreate opens an empty form with default values.
func (e *Editor) OpenCreate() {
	e.mode = Creating
	e.initial = Holding{}
	e.Form = Form{Type: TWStock, Currency: TWDCurrency}
	e.applyType()
}

// OpenEdit opens a form filled with h.
func (e *Editor) OpenEdit(h Holding) {
	e.mode = Editing
	e.initial = h
	e.Form = Form{
		Type:     h.Type,
		Symbol:   h.Symbol,
		Shares:   h.Shares.String(),
		AvgPrice: h.AvgPrice.String(),
		Currency: h.Currency,
	}
	e.applyType()
}

// Close discards the form.
func (e *Editor) Close() {
	e.mode = Closed
	e.initial = Holding{}
	e.Form = Form{}
}

// SetType changes the asset type and auto-fills the fields it implies.
func (e *Editor) SetType(t AssetType) {
	e.Form.Type = t
	e.applyType()
}

func (e *Editor) applyType() {
	f := &e.Form
	switch f.Type {
	case USStock, TWStock:
		f.Currency, _ = f.Type.MarketCurrency()
		// a unit price left over from cash or other is not a share price.
		if f.AvgPrice == "1" && e.mode == Creating {
			f.AvgPrice = ""
		}
	case Cash:
		f.AvgPrice = "1"
	case Other:
		f.AvgPrice = "1"
		if f.Currency == JPYCurrency {
			f.Currency = TWDCurrency
		}
	}
}

// Submit validates the form and returns the event to apply.
func (e *Editor) Submit() (Event, error) {
	if e.mode == Closed {
		return nil, ErrEditorClosed
	}
	f := e.Form

	symbol := strings.ToUpper(strings.TrimSpace(f.Symbol))
	if f.Type == Cash {
		symbol = string(f.Currency)
	}
	if (f.Type != Cash && symbol == "") || strings.TrimSpace(f.Shares) == "" || strings.TrimSpace(f.AvgPrice) == "" {
		return nil, &ValidationError{Message: "please fill in all fields"}
	}
	if !f.Type.IsEquity() && f.Type != Cash && f.Type != Other {
		return nil, &ValidationError{Field: "type", Message: fmt.Sprintf("unknown asset type %q", f.Type)}
	}
	if !f.Currency.IsSupported() {
		return nil, &ValidationError{Field: "currency", Message: fmt.Sprintf("unsupported currency %q", f.Currency)}
	}
	if want, ok := f.Type.MarketCurrency(); ok && f.Currency != want {
		return nil, &ValidationError{Field: "currency", Message: fmt.Sprintf("%s holdings are in %s", f.Type.Title(), want)}
	}
	if f.Type == Other && f.Currency == JPYCurrency {
		return nil, &ValidationError{Field: "currency", Message: "other assets are held in TWD or USD"}
	}

	shares, err := decimal.NewFromString(strings.TrimSpace(f.Shares))
	if err != nil {
		return nil, &ValidationError{Field: "shares", Message: fmt.Sprintf("%q is not a number", f.Shares)}
	}
	if shares.IsNegative() {
		return nil, &ValidationError{Field: "shares", Message: "must not be negative"}
	}
	price := decimal.NewFromInt(1)
	if f.Type.IsEquity() {
		price, err = decimal.NewFromString(strings.TrimSpace(f.AvgPrice))
		if err != nil {
			return nil, &ValidationError{Field: "price", Message: fmt.Sprintf("%q is not a number", f.AvgPrice)}
		}
		if price.IsNegative() {
			return nil, &ValidationError{Field: "price", Message: "must not be negative"}
		}
	}

	fields := Fields{
		Type:     f.Type,
		Symbol:   symbol,
		Shares:   Q(shares),
		AvgPrice: M(price, f.Currency),
		Name:     e.defaultName(symbol),
	}

	var evt Event
	if e.mode == Editing {
		evt = UpdateHolding{ID: e.initial.ID, Fields: fields}
	} else {
		evt = AddHolding{Holding: Holding{
			ID:       e.NewID(),
			Type:     fields.Type,
			Symbol:   fields.Symbol,
			Shares:   fields.Shares,
			AvgPrice: price,
			Currency: f.Currency,
			Name:     fields.Name,
		}}
	}
	e.Close()
	return evt, nil
}

func (e *Editor) defaultName(symbol string) string {
	if e.mode == Editing && e.initial.Name != "" {
		return e.initial.Name
	}
	switch e.Form.Type {
	case Cash:
		return string(e.Form.Currency) + " cash"
	case Other:
		return symbol
	}
	return ""
}
