package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/Tiendas-api/internal/application/reconcile"
	"github.com/jhoicas/Tiendas-api/internal/infrastructure/jobs"
	"github.com/jhoicas/Tiendas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Tiendas-api/pkg/config"
	"github.com/jhoicas/Tiendas-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: cfg.App.Name}).Component("worker")

	if cfg.Redis.Addr == "" {
		log.Fatal().Msg("REDIS_ADDR requerido para el worker")
	}
	if cfg.Inventory.StorageDriver != "postgres" {
		log.Fatal().Str("storage", cfg.Inventory.StorageDriver).Msg("el worker solo concilia contra PostgreSQL")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	reconcileJob := jobs.NewReconcileJob(reconcile.NewService(postgres.NewRepos(pool), log), log)

	scheduled, err := jobs.NewReconcileTask("")
	if err != nil {
		log.Fatal().Err(err).Msg("construir tarea de conciliación")
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB},
		Logger:    log,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskReconcileStock, Handler: reconcileJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.Inventory.ReconcileCron, Task: scheduled},
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("iniciar worker")
	}

	log.Info().Str("cron", cfg.Inventory.ReconcileCron).Msg("worker de conciliación listo")
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("worker finalizado con error")
	}
}
