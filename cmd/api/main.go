package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Tiendas-api/internal/application/inventory"
	"github.com/jhoicas/Tiendas-api/internal/application/pricing"
	"github.com/jhoicas/Tiendas-api/internal/application/purchasing"
	"github.com/jhoicas/Tiendas-api/internal/application/reconcile"
	"github.com/jhoicas/Tiendas-api/internal/application/sales"
	"github.com/jhoicas/Tiendas-api/internal/application/transfer"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
	"github.com/jhoicas/Tiendas-api/internal/infrastructure/cache"
	"github.com/jhoicas/Tiendas-api/internal/infrastructure/excel"
	"github.com/jhoicas/Tiendas-api/internal/infrastructure/jobs"
	"github.com/jhoicas/Tiendas-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Tiendas-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Tiendas-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Tiendas-api/internal/interfaces/http"
	"github.com/jhoicas/Tiendas-api/pkg/config"
	"github.com/jhoicas/Tiendas-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("storage", cfg.Inventory.StorageDriver).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Persistencia: PostgreSQL o almacén en memoria con datos de demostración.
	var (
		txRunner repository.TxRunner
		repos    repository.Repos
	)
	switch cfg.Inventory.StorageDriver {
	case "memory":
		db := memory.New()
		memory.SeedDemo(db)
		txRunner, repos = db, db.Repos()
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.Migrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				log.Fatal().Err(err).Msg("aplicar schema")
			}
		}
		txRunner, repos = postgres.NewTxRunner(pool), postgres.NewRepos(pool)
	}

	// Redis: caché de price-check y cola de conciliación. Sin REDIS_ADDR ambas se desactivan.
	var (
		priceCache pricing.QuoteCache
		enqueuer   httpRouter.ReconcileEnqueuer
	)
	if cfg.Redis.Addr != "" {
		var client *redis.Client
		client, err = cache.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn().Err(err).Msg("redis no disponible, caché de precios y cola desactivadas")
		} else {
			defer func() { _ = client.Close() }()
			priceCache = cache.NewPriceCache(client, cfg.Redis.PriceCheckTTL)
			jobsClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
			defer func() { _ = jobsClient.Close() }()
			enqueuer = jobsClient
		}
	}

	pricingUC := pricing.NewPricingUseCase(txRunner, repos, priceCache, log)
	ledger := inventory.NewLedgerUseCase(txRunner, repos, excel.NewStockExporter(), pricingUC, log, cfg.Inventory.AllowNegativeStock)
	purchaseOrderUC := purchasing.NewPurchaseOrderUseCase(txRunner, repos, ledger, infrapdf.NewMarotoRenderer(), log, cfg.Inventory.TaxRate)
	transferUC := transfer.NewTransferUseCase(txRunner, repos, ledger, log)
	saleUC := sales.NewSaleUseCase(txRunner, repos, ledger, log)
	reconciler := reconcile.NewService(repos, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs (solo si existe el archivo)
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Tiendas API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Ledger:         ledger,
		Pricing:        pricingUC,
		PurchaseOrders: purchaseOrderUC,
		Transfers:      transferUC,
		Sales:          saleUC,
		Reconciler:     reconciler,
		Enqueuer:       enqueuer,
		JWTSecret:      cfg.JWT.Secret,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.Listen(cfg.HTTP.Addr())
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("señal de apagado recibida, cerrando servidor...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("servidor HTTP finalizado")
	}
	log.Info().Msg("aplicación detenida")
}
