package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"retailing/internal/config"
	"retailing/internal/infra"
	"retailing/internal/repository"
	"retailing/internal/router"
	"retailing/internal/service"
	"retailing/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger; pretty in dev, JSON in prod
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	if cfg.MigrateOnBoot {
		if err := infra.Migrate(cfg.DatabaseURL); err != nil {
			log.Fatal().Err(err).Msg("failed to apply migrations")
		}
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	// Redis backs the country cache and the notification queue. Orders are
	// recorded without it.
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = infra.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, running without cache and notifications")
			rdb = nil
		}
	}

	metrics := infra.NewMetrics()
	mailer := infra.NewMailer(cfg)
	dispatcher := worker.NewDispatcher(rdb)

	r := router.New(cfg, router.Deps{
		DB:         db,
		Rdb:        rdb,
		Mailer:     mailer,
		Metrics:    metrics,
		Dispatcher: dispatcher,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Msgf("retailing backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server…")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	// Async workers are wired here (composition root) so the pool has access
	// to every infrastructure dependency.
	if rdb != nil {
		pool := worker.NewPool(rdb, cfg.WorkerPoolSize, metrics)
		pool.Handle(worker.JobOrderNotification, worker.NewNotificationWorker(mailer).Process)
		g.Go(func() error { return pool.Run(gctx) })
	}

	reconciler := service.NewReconciler(repository.NewOrderRepository(db), repository.NewWarehouseRepository(db), metrics)
	g.Go(func() error {
		return worker.RunReconcileCron(gctx, cfg.ReconcileSchedule, func(ctx context.Context) (int, error) {
			drift, err := reconciler.Run(ctx)
			return len(drift), err
		})
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server exited with error")
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	log.Info().Msg("server exited")
}
