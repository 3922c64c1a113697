// Command querycanon drains query_logs into query_normalization and serves the admin API
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"querycanon/internal/modkit"
	"querycanon/internal/platform/config"
	"querycanon/internal/platform/logger"
	phttp "querycanon/internal/platform/net/http"
	"querycanon/internal/platform/store"
	"querycanon/internal/platform/store/schema"

	"querycanon/internal/services/api"
	rulesdom "querycanon/internal/services/rules/domain"
	rulesmod "querycanon/internal/services/rules/module"
)

func main() {
	var (
		migrate = flag.Bool("migrate", false, "apply the embedded schema before starting")
		once    = flag.Bool("once", false, "drain query_logs once and exit")
		serve   = flag.Bool("serve", true, "run the admin API and reload rules on CORE_RULES_RELOAD_EVERY")
	)
	flag.Parse()

	root := config.New()
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	rdsCfg := root.Prefix("SERVICE_REDIS_")
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	useRedis := rulesmod.FromConfig(root).Source == rulesdom.SourceRedis
	rdsConf := store.RedisConfig{Enabled: useRedis}
	if useRedis {
		rdsConf.Addr = rdsCfg.MustString("ADDR")
		rdsConf.DB = rdsCfg.MayInt("DB", 0)
		rdsConf.Password = rdsCfg.MayString("PASSWORD", "")
	}

	st, err := store.Open(ctx, store.Config{
		AppName: "querycanon",
		PG: store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 8)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		},
		RDS: rdsConf,
	}, store.WithLogger(*l))
	if err != nil {
		l.Fatal().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	if *migrate {
		if err := schema.Apply(ctx, func(ctx context.Context, sql string) error {
			_, err := st.PG.Exec(ctx, sql)
			return err
		}); err != nil {
			l.Fatal().Err(err).Msg("schema apply failed")
		}
		l.Info().Msg("schema applied")
	}

	app := api.New(api.Options{Config: root, Deps: modkit.FromStore(root, st)})

	snap, err := app.Rules.Load(ctx)
	if err != nil {
		l.Fatal().Err(err).Msg("rule load failed")
	}
	l.Info().
		Uint64("version", snap.Version).
		Int("rules", snap.Len()).
		Str("source", snap.Source).
		Msg("rules loaded")

	if *once {
		rep, err := app.Jobs.Runner().RunLoop(ctx)
		if err != nil {
			l.Fatal().Err(err).Str("run_id", rep.RunID).Msg("drain failed")
		}
		return
	}
	if !*serve {
		return
	}

	go app.Rules.Watch(ctx)

	srv := phttp.NewServer(root.Prefix("CORE_API_"))
	app.Mount(srv.Router(), root)

	if err := srv.Run(ctx); err != nil {
		l.Error().Err(err).Msg("http server stopped")
	}
}
