package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flota/internal/config"
	"flota/internal/infra"
	"flota/internal/repository"
	"flota/internal/router"
	"flota/internal/service"
	"flota/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: pretty console in development, JSON in production
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Worker handlers are wired here (composition root) so that the pool
	// has full access to all infrastructure dependencies.
	mailer := infra.NewMailer(cfg, infra.NewCircuitBreaker(infra.DefaultCBConfig("smtp")))
	dispatcher := worker.NewDispatcher(rdb)

	notificacionSvc := service.NewNotificacionService(
		repository.NewNotificacionRepository(db),
		repository.NewOperacionRepository(db),
		repository.NewTarjetaRepository(db),
		repository.NewReservorioRepository(db),
		service.Umbrales{SaldoMinimo: cfg.UmbralSaldo(), PorcentajeMinimo: cfg.UmbralReservorioPct()},
	)
	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, worker.Handlers{
		worker.QueueAlerta: worker.NewAlertaWorker(notificacionSvc, dispatcher, cfg.AlertEmail),
		worker.QueueEmail:  worker.NewEmailWorker(mailer),
	})

	r := router.New(cfg, db, rdb, dispatcher)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("flota backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
