package main

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"stayhub/internal/adapters/observability"
	redisad "stayhub/internal/adapters/redis"
	"stayhub/internal/adapters/storeapi"
	"stayhub/internal/app"
	"stayhub/internal/shared"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "seed")

	entries, err := shared.LoadSeed(cfg.SeedFile)
	if err != nil {
		log.Fatal().Err(err).Msg("reading seed file failed")
	}
	log.Info().
		Str("store", cfg.StoreBaseURL).
		Str("file", cfg.SeedFile).
		Int("listings", len(entries)).
		Int("workers", cfg.SeedWorkers).
		Msg("seed starting")

	client, err := storeapi.New(cfg.StoreBaseURL, cfg.StoreToken, cfg.StoreRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize store client")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()

	svc := app.NewSeedService(client, cache)
	sem := semaphore.NewWeighted(int64(cfg.SeedWorkers))
	var wg sync.WaitGroup
	var failed atomic.Int32

	for _, e := range entries {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(in app.SeedListing) {
			defer wg.Done()
			defer sem.Release(1)

			res, err := svc.Seed(ctx, in)
			if err != nil {
				failed.Add(1)
				log.Warn().Str("name", in.Listing.Name).Err(err).Msg("seed failed")
				return
			}
			log.Info().
				Str("listing_id", res.Listing.ID).
				Int("windows", res.Windows).
				Int("skipped", res.SkippedWindows).
				Msg("seed ok")
		}(e)
	}

	wg.Wait()
	log.Info().Int32("failed", failed.Load()).Msg("seed completed")
}
