package gemini

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/komorebi"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ParseResponse reads the JSON document returned by the model.
//
// Models do not always honor the schema, so the document is queried
// leniently: a missing price list means no quotes, an entry without a
// symbol or a price is skipped, and a missing rate falls back to its
// default value.
func ParseResponse(text string) (komorebi.RefreshResult, error) {
	doc, err := decode(text)
	if err != nil {
		return komorebi.RefreshResult{}, err
	}

	var quotes []komorebi.Quote
	if prices, err := jsonpath.Get("$.prices", doc); err == nil {
		list, _ := prices.([]any)
		for _, item := range list {
			q, ok := parseQuote(item)
			if !ok {
				log.Debug().Interface("item", item).Msg("ignoring malformed quote")
				continue
			}
			quotes = append(quotes, q)
		}
	}

	usd, _ := number(doc, "$.rates.usd_to_twd")
	jpy, _ := number(doc, "$.rates.jpy_to_twd")
	return komorebi.RefreshResult{
		Quotes: quotes,
		Rates:  komorebi.NewRates(usd, jpy),
	}, nil
}

// decode parses text as JSON, removing a markdown code fence around it.
func decode(text string) (any, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid JSON response: %w", err)
	}
	if _, ok := doc.(map[string]any); !ok {
		return nil, fmt.Errorf("invalid JSON response: want an object, got %T", doc)
	}
	return doc, nil
}

func parseQuote(item any) (komorebi.Quote, bool) {
	symbol, _ := str(item, "$.symbol")
	price, ok := number(item, "$.price")
	if symbol == "" || !ok {
		return komorebi.Quote{}, false
	}
	name, _ := str(item, "$.name")
	q := komorebi.Quote{Symbol: symbol, Price: price, Name: name}
	if change, ok := number(item, "$.dailyChangePct"); ok {
		p := komorebi.Percent(change.InexactFloat64())
		q.DailyChangePct = &p
	}
	return q, true
}

// number returns the number at path, accepting numeric strings.
func number(doc any, path string) (decimal.Decimal, bool) {
	v, err := jsonpath.Get(path, doc)
	if err != nil {
		return decimal.Zero, false
	}
	switch n := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	case float64:
		return decimal.NewFromFloat(n), true
	case string:
		d, err := decimal.NewFromString(strings.TrimSuffix(strings.TrimSpace(n), "%"))
		return d, err == nil
	}
	return decimal.Zero, false
}

func str(doc any, path string) (string, bool) {
	v, err := jsonpath.Get(path, doc)
	if err != nil {
		return "", false
	}
	s, ok := v.(string)
	return strings.TrimSpace(s), ok
}
