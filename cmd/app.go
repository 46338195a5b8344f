// Package cmd implements the kmb command line application.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/etnz/komorebi"
	"github.com/etnz/komorebi/config"
	"github.com/etnz/komorebi/gemini"
	"github.com/etnz/komorebi/quote"
	"github.com/etnz/komorebi/store"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile = flag.String("config", "komorebi.toml", "Path to the configuration file (TOML)")
	storePath  = flag.String("store", "", "Path to the store, overrides the configuration")
	driver     = flag.String("driver", "", "Store driver, \"file\" or \"sqlite\", overrides the configuration")
	Verbose    = flag.Bool("v", false, "Log debug messages")
)

// standard streams of the commands, replaced in tests.
var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
)

// Commands lists all the subcommands with their group.
var Commands = map[subcommands.Command]string{
	&showCmd{}:    "holdings",
	&addCmd{}:     "holdings",
	&editCmd{}:    "holdings",
	&deleteCmd{}:  "holdings",
	&refreshCmd{}: "market",
	&ratesCmd{}:   "market",
	&watchCmd{}:   "market",
	&exportCmd{}:  "reports",
	&topicCmd{}:   "help",
}

// Register the subcommands.
func Register(c *subcommands.Commander) {
	for cmd, group := range Commands {
		c.Register(cmd, group)
	}
}

// app is the state of one kmb invocation.
type app struct {
	cfg   *config.Config
	store store.Store
	repo  *komorebi.Repository
	state komorebi.State
}

// openApp loads the configuration, opens the store, and loads the state.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	setupLogging(cfg.Logging.Level)

	s, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	repo := komorebi.NewRepository(s)
	state := komorebi.NewState(repo.Load(ctx))
	if rates, ok := repo.LoadRates(ctx); ok {
		state.Rates, state.RatesFetched = rates, true
	}
	log.Debug().Str("driver", cfg.Store.Driver).Str("path", cfg.Store.Path).Int("holdings", len(state.Holdings)).Msg("state loaded")
	return &app{cfg: cfg, store: s, repo: repo, state: state}, nil
}

// LoadConfig loads the configuration file and applies the global flags.
func LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	if *storePath != "" {
		cfg.Store.Path = *storePath
	}
	if *driver != "" {
		cfg.Store.Driver = *driver
	}
	if *Verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, cfg.Validate()
}

func (a *app) Close() error { return a.store.Close() }

// apply applies e to the state and saves the holdings if they changed.
func (a *app) apply(ctx context.Context, e komorebi.Event) error {
	next, err := a.state.Apply(e)
	if err != nil {
		return err
	}
	a.state = next
	if komorebi.Mutates(e) {
		return a.repo.Save(ctx, a.state.Holdings)
	}
	return nil
}

// refresh runs a refresh cycle and saves its result. When the provider
// fails, the state keeps its last known values and the error is returned.
func (a *app) refresh(ctx context.Context, p komorebi.Provider) error {
	var fetchErr error
	probe := quote.ProviderFunc(func(ctx context.Context, reqs []komorebi.QuoteRequest) (komorebi.RefreshResult, error) {
		res, err := p.Fetch(ctx, reqs)
		fetchErr = err
		return res, err
	})
	a.state = komorebi.Refresh(ctx, a.state, probe, a.refreshOptions())
	if fetchErr != nil {
		return fmt.Errorf("refresh failed: %w", fetchErr)
	}
	if err := a.repo.Save(ctx, a.state.Holdings); err != nil {
		return err
	}
	return a.repo.SaveRates(ctx, a.state.Rates)
}

// update refreshes with the configured provider.
func (a *app) update(ctx context.Context) error {
	p, err := newProvider(ctx, a.cfg)
	if err != nil {
		return err
	}
	return a.refresh(ctx, p)
}

func (a *app) refreshOptions() komorebi.RefreshOptions {
	match, _ := komorebi.ParseMatch(a.cfg.Refresh.Match)
	return komorebi.RefreshOptions{Timeout: a.cfg.Refresh.GetTimeout(), Match: match}
}

// newProvider builds the quote provider. Tests replace it.
var newProvider = geminiProvider

// geminiProvider returns the Gemini client, spaced out and cached.
func geminiProvider(ctx context.Context, cfg *config.Config) (komorebi.Provider, error) {
	client, err := gemini.NewClient(ctx, cfg.Gemini.APIKey, gemini.WithModel(cfg.Gemini.Model))
	if err != nil {
		return nil, err
	}
	var p komorebi.Provider = client
	if every := cfg.Refresh.GetMinInterval(); every > 0 {
		p = quote.Limited(p, every)
	}
	if ttl := cfg.Refresh.GetCacheTTL(); ttl > 0 {
		p = quote.Cached(p, ttl)
	}
	return p, nil
}

// findHolding returns the holding whose id starts with prefix.
func findHolding(s komorebi.State, prefix string) (komorebi.Holding, error) {
	if prefix == "" {
		return komorebi.Holding{}, errors.New("holding id is missing")
	}
	var found []komorebi.Holding
	for _, h := range s.Holdings {
		if h.ID == prefix {
			return h, nil
		}
		if strings.HasPrefix(h.ID, prefix) {
			found = append(found, h)
		}
	}
	switch len(found) {
	case 0:
		return komorebi.Holding{}, fmt.Errorf("%w: %q", komorebi.ErrHoldingNotFound, prefix)
	case 1:
		return found[0], nil
	}
	return komorebi.Holding{}, fmt.Errorf("id %q is ambiguous, it matches %d holdings", prefix, len(found))
}

// setupLogging configures the global logger on stderr.
func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.WarnLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

// fail prints an error and returns the failure status.
func fail(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	return subcommands.ExitFailure
}
