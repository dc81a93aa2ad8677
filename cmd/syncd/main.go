package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	syncapp "github.com/tu-usuario/margin-sync/internal/application/sync"
	"github.com/tu-usuario/margin-sync/internal/infrastructure/facturaapi"
	"github.com/tu-usuario/margin-sync/internal/infrastructure/postgres"
	"github.com/tu-usuario/margin-sync/internal/interfaces/http"
	"github.com/tu-usuario/margin-sync/internal/scheduler"
	"github.com/tu-usuario/margin-sync/pkg/config"
	"github.com/tu-usuario/margin-sync/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	// Credenciales y destino se validan antes de tocar la red.
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración incompleta")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("creación de esquema")
	}

	fetcher, err := facturaapi.NewClient(facturaapi.Config{
		BaseURL:      cfg.API.BaseURL,
		Token:        cfg.API.Token,
		PageSize:     cfg.API.PageSize,
		CallInterval: cfg.API.CallInterval,
		PauseEvery:   cfg.API.PauseEvery,
		Pause:        cfg.API.Pause,
		MaxAttempts:  cfg.API.MaxAttempts,
		RetryBase:    cfg.API.RetryBase,
	}, log.Component("facturaapi"))
	if err != nil {
		log.Fatal().Err(err).Msg("cliente del API de facturación")
	}

	productRepo := postgres.NewProductRowRepository(pool)
	stockRepo := postgres.NewStockRowRepository(pool)
	saleRepo := postgres.NewSaleRowRepository(pool)
	cursorRepo := postgres.NewCursorRepository(pool)
	runRepo := postgres.NewSyncRunRepository(pool)
	refRepo := postgres.NewReferenceRepository(pool)
	stateRepo := postgres.NewSchedulerStateRepository(pool)

	service := syncapp.NewService(
		fetcher,
		productRepo, stockRepo, saleRepo,
		cursorRepo, runRepo, refRepo,
		log.Component("sync"),
		cfg.Sync.BatchSize,
		cfg.Sync.BaseCurrency,
	)

	autosync, err := scheduler.NewAutoSync(cfg.Sync.CronSpec, service, stateRepo, log)
	if err != nil {
		log.Fatal().Err(err).Msg("auto-sync")
	}
	autosync.Run()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	http.Router(app, http.RouterDeps{
		Service:   service,
		AutoSync:  autosync,
		Runs:      runRepo,
		JWTSecret: cfg.JWT.Secret,
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

	autosync.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
