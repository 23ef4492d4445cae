package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "stayhub/internal/adapters/http_server"
	"stayhub/internal/adapters/observability"
	redisad "stayhub/internal/adapters/redis"
	"stayhub/internal/app"
	"stayhub/internal/domain"
	"stayhub/internal/shared"
	"stayhub/internal/storage/memory"
	mysqlrepo "stayhub/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv, "store")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store domain.Store
	switch cfg.StoreBackend {
	case "memory":
		log.Warn().Msg("using in-memory store; data is lost on exit")
		store = memory.New()
	default:
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("database connection ok")
		store = mysqlrepo.New(db)
	}

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()

	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountStore(&server.StoreHandlers{
		Store:   store,
		Search:  app.NewMatcher(store, store, cfg.EnrichWorkers),
		Catalog: app.NewCachedCatalog(store, cache, cfg.CacheTTL),
	})

	httpSrv := &http.Server{Addr: cfg.StoreAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdown)
	}()

	log.Info().Str("addr", cfg.StoreAddr).Str("backend", cfg.StoreBackend).Msg("store listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
