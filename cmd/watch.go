package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/etnz/komorebi"
	"github.com/google/subcommands"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// watchCmd holds the flags for the 'watch' subcommand.
type watchCmd struct {
	schedule string
	hide     bool
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "refresh periodically and print the net worth" }
func (*watchCmd) Usage() string {
	return `kmb watch [-schedule <cron spec>] [-hide]

  Refreshes now, then on a cron schedule (refresh.schedule in the
  configuration, every 15 minutes by default), printing one line per
  refresh. A refresh still running when the next one is due is skipped.
  Stops on interrupt.
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.schedule, "schedule", "", "cron spec, overrides the configuration")
	f.BoolVar(&c.hide, "hide", false, "mask amounts, shares and prices")
}

func (c *watchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		return fail("Error opening holdings: %v", err)
	}
	defer a.Close()

	schedule := c.schedule
	if schedule == "" {
		schedule = a.cfg.Refresh.Schedule
	}
	p, err := newProvider(ctx, a.cfg)
	if err != nil {
		return fail("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	job := func() {
		if err := a.refresh(ctx, p); err != nil {
			log.Error().Err(err).Msg("watch refresh")
		}
		fmt.Fprintln(stdout, summaryLine(time.Now(), komorebi.NewValuationReport(a.state), c.hide))
	}

	sched := cron.New(
		cron.WithLogger(cronLogger{}),
		cron.WithChain(cron.Recover(cronLogger{}), cron.SkipIfStillRunning(cronLogger{})),
	)
	if _, err := sched.AddFunc(schedule, job); err != nil {
		return fail("Error: invalid schedule %q: %v", schedule, err)
	}

	job()
	sched.Start()
	<-ctx.Done()
	<-sched.Stop().Done()
	return subcommands.ExitSuccess
}

// summaryLine is one line of the watch output.
func summaryLine(at time.Time, r *komorebi.ValuationReport, hide bool) string {
	worth := r.NetWorth.StringFixed(0)
	if hide {
		worth = "******"
	}
	line := fmt.Sprintf("%s  net worth %s  daily %s", at.Format(time.TimeOnly), worth, r.DailyChange.SignedString())
	if !r.RatesFetched {
		line += "  (fallback rates)"
	}
	return line
}

// cronLogger routes cron logs to zerolog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.Debug().Fields(keysAndValues).Msg(msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
