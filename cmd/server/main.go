package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"gasolinera-golang/internal/application"
	"gasolinera-golang/internal/config"
	"gasolinera-golang/internal/domain"
	"gasolinera-golang/internal/infra/database"
	http_infra "gasolinera-golang/internal/infra/http"
	redis_impl "gasolinera-golang/internal/infra/redis"
	"gasolinera-golang/internal/infra/sqlite"
	"gasolinera-golang/internal/infra/worker"
	"gasolinera-golang/internal/logging"
	"gasolinera-golang/internal/metrics"
	"gasolinera-golang/internal/pprof"

	"github.com/redis/go-redis/v9"
	"github.com/valyala/fasthttp"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	m := metrics.New()

	pprof.Start(cfg.PprofAddr, logger)

	var repo domain.MovementRepository
	if cfg.SQLitePath != "" {
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to open sqlite store")
		}
		defer store.Close()
		repo = store
		logger.Info().Str("path", cfg.SQLitePath).Msg("using sqlite store")
	} else {
		repo = database.NewMemDB()
		logger.Warn().Msg("SQLITE_PATH not set, movements are kept in memory")
	}

	var wg sync.WaitGroup
	var queue domain.MovementQueue
	var health http_infra.HealthChecker
	closeQueue := func() {}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid REDIS_URL")
		}
		redisClient := redis.NewClient(opts)
		defer redisClient.Close()

		repo = redis_impl.NewCachedMovementRepository(redisClient, repo, cfg.CacheTTL, logging.Component(logger, "cache"))
		queue = redis_impl.NewMovementQueue(redisClient)

		healthCheck := redis_impl.NewHealthCheckService(redisClient, 0, logging.Component(logger, "health"))
		health = healthCheck
		wg.Add(1)
		go func() {
			defer wg.Done()
			healthCheck.Start(ctx)
		}()

		logger.Info().Int("workers", cfg.Workers).Msg("starting redis workers")
		for i := 0; i < cfg.Workers; i++ {
			w := &redis_impl.Worker{
				Client:       redisClient,
				Repo:         repo,
				Logger:       logging.Component(logger, "worker"),
				Metrics:      m,
				WorkerNum:    i + 1,
				PollInterval: cfg.WorkerPollInterval,
			}
			wg.Add(1)
			go func(workerID int) {
				defer wg.Done()
				w.Start(ctx)
				logger.Info().Int("worker", workerID).Msg("worker stopped")
			}(i + 1)
		}
	} else {
		chQueue := worker.NewChannelQueue(1024)
		queue = chQueue
		closeQueue = chQueue.Close
		// Detached from ctx so workers drain the queue once it is closed.
		workerCtx := context.WithoutCancel(ctx)

		logger.Info().Int("workers", cfg.Workers).Msg("starting in-process workers")
		for i := 0; i < cfg.Workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				worker.WorkerMovements(workerCtx, chQueue, repo, logging.Component(logger, "worker"), m)
			}()
		}
	}

	loc := cfg.Location()
	handler := &http_infra.Handler{
		GetLitersUC:      &application.GetLitersDistributedUseCase{Repo: repo, Location: loc},
		RecordMovementUC: &application.RecordMovementUseCase{Queue: queue, Repo: repo, Location: loc},
		ListMovementsUC:  &application.ListMovementsUseCase{Repo: repo, Location: loc},
		EditMovementUC:   &application.EditMovementUseCase{Repo: repo, Location: loc},
		DeleteMovementUC: &application.DeleteMovementUseCase{Repo: repo},
		InitialBalanceUC: &application.InitialBalanceUseCase{Repo: repo},
		FuelSaleUC:       &application.RegisterFuelSaleUseCase{Queue: queue, Location: loc},
		Health:           health,
		Logger:           logging.Component(logger, "http"),
	}

	server := &fasthttp.Server{
		Handler:           http_infra.SetupRoutes(handler, m),
		Name:              "gasolinera-go",
		ReduceMemoryUsage: true,
	}

	go func() {
		logger.Info().Str("addr", cfg.ListenAddr).Msg("http server listening")
		if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()

	logger.Info().Msg("shutdown signal received")
	if err := server.Shutdown(); err != nil {
		logger.Error().Err(err).Msg("http server shutdown failed")
	}

	closeQueue()
	logger.Info().Msg("waiting for background workers")
	wg.Wait()

	logger.Info().Msg("shutdown complete")
}
