// Package quote decorates a komorebi.Provider to spare the upstream data
// source: Cached remembers recent answers and Limited spaces out calls.
package quote

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/etnz/komorebi"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// ProviderFunc adapts a function to the komorebi.Provider interface.
type ProviderFunc func(ctx context.Context, reqs []komorebi.QuoteRequest) (komorebi.RefreshResult, error)

func (f ProviderFunc) Fetch(ctx context.Context, reqs []komorebi.QuoteRequest) (komorebi.RefreshResult, error) {
	return f(ctx, reqs)
}

// Cache is a provider answering identical requests from memory for a while.
// Concurrent identical requests share a single upstream call.
type Cache struct {
	next  komorebi.Provider
	cache *cache.Cache
	group singleflight.Group
}

// Cached wraps next with a cache keeping successful results for ttl.
// Failures are never cached.
func Cached(next komorebi.Provider, ttl time.Duration) *Cache {
	return &Cache{next: next, cache: cache.New(ttl, 2*ttl)}
}

func (c *Cache) Fetch(ctx context.Context, reqs []komorebi.QuoteRequest) (komorebi.RefreshResult, error) {
	key := Key(reqs)
	if v, found := c.cache.Get(key); found {
		log.Debug().Str("key", key).Msg("quote cache hit")
		return v.(komorebi.RefreshResult), nil
	}
	v, err, shared := c.group.Do(key, func() (any, error) {
		res, err := c.next.Fetch(ctx, reqs)
		if err == nil {
			c.cache.Set(key, res, cache.DefaultExpiration)
		}
		return res, err
	})
	if shared {
		log.Debug().Str("key", key).Msg("quote request shared")
	}
	return v.(komorebi.RefreshResult), err
}

// Flush forgets all cached results.
func (c *Cache) Flush() { c.cache.Flush() }

// Key identifies a request set regardless of its order.
func Key(reqs []komorebi.QuoteRequest) string {
	symbols := make([]string, len(reqs))
	for i, r := range reqs {
		symbols[i] = r.Market()
	}
	slices.Sort(symbols)
	symbols = slices.Compact(symbols)
	return "quotes:" + strings.Join(symbols, ",")
}

// Limiter is a provider calling its upstream at a bounded rate.
type Limiter struct {
	next    komorebi.Provider
	limiter *rate.Limiter
}

// Limited wraps next so that calls are at least every apart. Callers wait
// for their turn, or give up when their context is done.
func Limited(next komorebi.Provider, every time.Duration) *Limiter {
	return &Limiter{next: next, limiter: rate.NewLimiter(rate.Every(every), 1)}
}

func (l *Limiter) Fetch(ctx context.Context, reqs []komorebi.QuoteRequest) (komorebi.RefreshResult, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return komorebi.RefreshResult{}, err
	}
	return l.next.Fetch(ctx, reqs)
}
