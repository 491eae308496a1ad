// Command agenda-seed loads the municipality catalog. Safe to rerun,
// existing names are left alone
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"agenda/internal/platform/config"
	"agenda/internal/platform/logger"
	"agenda/internal/platform/store"
	munirepo "agenda/internal/services/municipalities/repo"
	munisvc "agenda/internal/services/municipalities/service"
	"agenda/migrations"
)

func main() {
	logger.Init(logger.FromEnv())
	log := logger.Named("agenda-seed")

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
	if err := migrations.Apply(ctx, st.Pool().Pool); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}

	svc := munisvc.New(munirepo.NewPG(st.PG), *logger.Named("municipalities"))
	report, err := svc.Seed(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
	log.Info().
		Int("created", report.Created).
		Int("existing", report.Existing).
		Msg("catalog seeded")
}
