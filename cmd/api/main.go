package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	server "stayhub/internal/adapters/http_server"
	"stayhub/internal/adapters/kafka"
	"stayhub/internal/adapters/observability"
	redisad "stayhub/internal/adapters/redis"
	"stayhub/internal/adapters/storeapi"
	"stayhub/internal/app"
	"stayhub/internal/domain"
	"stayhub/internal/shared"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "api")

	observability.Serve()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// remote store
	store, err := storeapi.New(cfg.StoreBaseURL, cfg.StoreToken, cfg.StoreRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("store client init failed")
	}

	// cache
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()
	if err := cache.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("redis unavailable; listing images and cache will miss")
	}

	// events
	var events domain.EventPublisher = app.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		p, err := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, nil)
		if err != nil {
			log.Fatal().Err(err).Msg("kafka producer init failed")
		}
		defer p.Close()
		events = p
	}

	// core
	catalog := app.NewCachedCatalog(store, cache, cfg.CacheTTL)
	classifier := app.NewClassifier(store, catalog, cache, cfg.EnrichWorkers)
	h := &server.Handlers{
		Search:   app.NewMatcher(catalog, store, cfg.EnrichWorkers),
		Booking:  app.NewBookingEngine(catalog, store, store, events),
		Classify: classifier,
		Ratings:  app.NewRatingGate(store, classifier, events),
		Cancel:   app.NewCancellation(classifier, store, events),
	}

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(h)

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdown)
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Str("store", cfg.StoreBaseURL).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
