// Command agenda-api serves the agenda HTTP API: events, the municipality
// catalog and the chat assistant
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agenda/internal/platform/config"
	"agenda/internal/platform/logger"
	phttp "agenda/internal/platform/net/http"
	"agenda/internal/platform/store"
	"agenda/internal/services/api"
	"agenda/migrations"
)

func main() {
	logger.Init(logger.FromEnv())
	log := logger.Named("agenda-api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	pgCfg := root.Prefix("SERVICE_PGSQL_")

	st, err := store.Open(ctx, store.Config{
		URL:         pgCfg.MustString("URL"),
		MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 8)),
		SlowQueryMs: pgCfg.MayInt("SLOW_QUERY_MS", 200),
	}, store.WithLogger(*logger.Named("store")))
	if err != nil {
		log.Fatal().Err(err).Msg("store open failed")
	}
	defer func() { _ = st.Close(context.Background()) }()

	if err := st.Guard(ctx); err != nil {
		log.Fatal().Err(err).Msg("database unreachable")
	}
	if apiCfg.MayBool("MIGRATE", true) {
		if err := migrations.Apply(ctx, st.Pool().Pool); err != nil {
			log.Fatal().Err(err).Msg("migrations failed")
		}
	}

	srv := phttp.NewServer(apiCfg)
	if _, err := api.Mount(srv.Router(), api.Options{Cfg: apiCfg, DB: st.PG}); err != nil {
		log.Fatal().Err(err).Msg("api mount failed")
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown error")
		}
	}()

	if err := srv.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
	log.Info().Msg("bye")
}
