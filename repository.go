package komorebi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Keys of the stored blobs.
const (
	HoldingsKey = "komorebi_assets"
	RatesKey    = "komorebi_rates"
)

// BlobStore is a durable key-value store of opaque blobs.
//
// Get returns an error matching fs.ErrNotExist when the key is absent.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
}

// Repository loads and saves the holdings collection as a single blob.
type Repository struct {
	store BlobStore
}

func NewRepository(store BlobStore) *Repository {
	return &Repository{store: store}
}

// Load returns the stored holdings. Missing or unreadable content yields an
// empty collection: a corrupt blob must never prevent the application from
// starting. Records are consumed as stored, without validation.
func (r *Repository) Load(ctx context.Context) []Holding {
	data, err := r.store.Get(ctx, HoldingsKey)
	if errors.Is(err, fs.ErrNotExist) {
		return []Holding{}
	}
	if err != nil {
		log.Warn().Err(err).Str("key", HoldingsKey).Msg("cannot read holdings, starting empty")
		return []Holding{}
	}
	holdings, err := DecodeHoldings(data)
	if err != nil {
		log.Warn().Err(err).Str("key", HoldingsKey).Msg("cannot parse holdings, starting empty")
		return []Holding{}
	}
	return holdings
}

// Save replaces the stored holdings.
func (r *Repository) Save(ctx context.Context, holdings []Holding) error {
	data, err := EncodeHoldings(holdings)
	if err != nil {
		return err
	}
	if err := r.store.Put(ctx, HoldingsKey, data); err != nil {
		return fmt.Errorf("cannot save holdings: %w", err)
	}
	return nil
}

type ratesJSON struct {
	USD decimal.Decimal `json:"usd_to_twd"`
	JPY decimal.Decimal `json:"jpy_to_twd"`
}

// LoadRates returns the last fetched rate table. ok is false when none was
// saved or it cannot be read.
func (r *Repository) LoadRates(ctx context.Context) (rates Rates, ok bool) {
	data, err := r.store.Get(ctx, RatesKey)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn().Err(err).Str("key", RatesKey).Msg("cannot read rates")
		}
		return Rates{}, false
	}
	var v ratesJSON
	if err := json.Unmarshal(data, &v); err != nil {
		log.Warn().Err(err).Str("key", RatesKey).Msg("cannot parse rates")
		return Rates{}, false
	}
	return NewRates(v.USD, v.JPY), true
}

// SaveRates replaces the stored rate table.
func (r *Repository) SaveRates(ctx context.Context, rates Rates) error {
	data, err := json.Marshal(ratesJSON{USD: rates.USD, JPY: rates.JPY})
	if err != nil {
		return fmt.Errorf("cannot encode rates: %w", err)
	}
	if err := r.store.Put(ctx, RatesKey, data); err != nil {
		return fmt.Errorf("cannot save rates: %w", err)
	}
	return nil
}

// EncodeHoldings serializes holdings as a JSON array. A nil collection is
// encoded as an empty array.
func EncodeHoldings(holdings []Holding) ([]byte, error) {
	if holdings == nil {
		holdings = []Holding{}
	}
	data, err := json.Marshal(holdings)
	if err != nil {
		return nil, fmt.Errorf("cannot encode holdings: %w", err)
	}
	return data, nil
}

// DecodeHoldings parses a JSON array of holdings. "null" is an empty collection.
func DecodeHoldings(data []byte) ([]Holding, error) {
	var holdings []Holding
	if err := json.Unmarshal(data, &holdings); err != nil {
		return nil, fmt.Errorf("cannot decode holdings: %w", err)
	}
	if holdings == nil {
		holdings = []Holding{}
	}
	return holdings, nil
}
