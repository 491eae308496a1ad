// Command agenda-sweeper advances stale event states once and exits.
// Run it from cron; the handlers derive state on read anyway, the sweep
// only keeps the stored column honest for direct SQL consumers
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"agenda/internal/core/lifecycle"
	"agenda/internal/platform/clock"
	"agenda/internal/platform/config"
	"agenda/internal/platform/logger"
	"agenda/internal/platform/store"
	agendarepo "agenda/internal/services/agenda/repo"
	agendasvc "agenda/internal/services/agenda/service"
)

func main() {
	onlyToday := flag.Bool("only-today", false, "restrict the sweep to events on today's civil day")
	dryRun := flag.Bool("dry-run", false, "report what would change without writing")
	flag.Parse()

	logger.Init(logger.FromEnv())
	log := logger.Named("agenda-sweeper")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pgCfg := config.New().Prefix("SERVICE_PGSQL_")
	st, err := store.Open(ctx, store.Config{
		URL:         pgCfg.MustString("URL"),
		MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 2)),
		SlowQueryMs: pgCfg.MayInt("SLOW_QUERY_MS", 200),
	}, store.WithLogger(*logger.Named("store")))
	if err != nil {
		log.Fatal().Err(err).Msg("store open failed")
	}
	defer func() { _ = st.Close(context.Background()) }()

	if err := st.Guard(ctx); err != nil {
		log.Fatal().Err(err).Msg("database unreachable")
	}

	engine, err := lifecycle.Default()
	if err != nil {
		log.Fatal().Err(err).Msg("timezone load failed")
	}

	sw := agendasvc.NewSweeper(agendarepo.NewPG(st.PG), engine, clock.NewSystem(), *logger.Named("sweeper"))
	report, err := sw.Sweep(ctx, *onlyToday, *dryRun)
	if err != nil {
		log.Fatal().Err(err).Msg("sweep failed")
	}
	log.Info().
		Int("scanned", report.Scanned).
		Int("changed", report.Changed).
		Int("stale", report.Stale).
		Bool("dry_run", *dryRun).
		Msg("sweep complete")
}
