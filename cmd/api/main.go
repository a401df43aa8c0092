package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/application/orders"
	"github.com/jhoicas/Inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/Inventario-ledger/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/Inventario-ledger/internal/interfaces/http"
	"github.com/jhoicas/Inventario-ledger/pkg/config"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
	"github.com/jhoicas/Inventario-ledger/pkg/metrics"
	"github.com/jhoicas/Inventario-ledger/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.Storage).
		Msg("iniciando aplicación")

	ctx := context.Background()

	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		ServiceName: cfg.App.Name,
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar tracing")
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	// Almacenamiento: PostgreSQL en producción, memoria para desarrollo y demos.
	var txRunner inventory.TxRunner
	switch cfg.App.Storage {
	case config.StorageMemory:
		store := memory.NewStore()
		if err := store.Load(ctx, memory.DemoSeed()); err != nil {
			log.Fatal().Err(err).Msg("cargar datos de demo")
		}
		txRunner = store
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.Migrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				log.Fatal().Err(err).Msg("aplicar esquema")
			}
		}
		txRunner = postgres.NewTxRunner(pool)
	}

	// Caché de disponible opcional (REDIS_ADDR).
	var cache inventory.StockCache
	if cfg.Redis.Enabled() {
		client, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		cache = infraredis.NewStockCache(client, cfg.Redis.TTL)
	}

	ledger := inventory.NewService(txRunner, inventory.Options{
		Cache:   cache,
		Metrics: m,
		Logger:  log,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventario Ledger API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Ledger:      ledger,
		Catalog:     usecase.NewCatalogUseCase(ledger),
		SalesOrders: orders.NewSalesOrderUseCase(ledger),
		Purchases:   orders.NewPurchaseUseCase(ledger),
		IssueNotes:  orders.NewIssueNoteUseCase(ledger),
		Outsourcing: orders.NewOutsourcingUseCase(ledger),
		Logger:      log,
		Metrics:     m,
		Gatherer:    prometheus.DefaultGatherer,
		JWTSecret:   cfg.JWT.Secret,
		JWTIssuer:   cfg.JWT.Issuer,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("cierre del tracer")
	}

	log.Info().Msg("aplicación detenida")
}
