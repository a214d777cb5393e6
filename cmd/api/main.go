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

	"github.com/invorya/vendor-console/internal/application/drafts"
	"github.com/invorya/vendor-console/internal/application/ledger"
	"github.com/invorya/vendor-console/internal/infrastructure/inventoryapi"
	infrapdf "github.com/invorya/vendor-console/internal/infrastructure/pdf"
	"github.com/invorya/vendor-console/internal/infrastructure/postgres"
	httpRouter "github.com/invorya/vendor-console/internal/interfaces/http"
	"github.com/invorya/vendor-console/pkg/config"
	"github.com/invorya/vendor-console/pkg/logger"
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
		Msg("iniciando consola de inventario")

	if cfg.Session.Secret == "" {
		log.Fatal().Msg("SESSION_SECRET es obligatorio")
	}

	gateway := inventoryapi.NewClient(cfg.Inventory.BaseURL, cfg.Inventory.Timeout(), log)
	registry := ledger.NewRegistry(gateway, log)
	reports := infrapdf.NewMovementReportGenerator()

	// La DB propia solo guarda borradores de recepción: si no está disponible
	// la consola arranca igual, sin la funcionalidad de borradores.
	var draftsUC *drafts.UseCase
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Warn().Err(err).Msg("PostgreSQL no disponible; borradores deshabilitados")
	} else {
		defer pool.Close()
		draftsUC = drafts.NewUseCase(postgres.NewBatchDraftRepository(pool))
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 60, // exports y PDF pueden tardar
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Vendor Console API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Registry:      registry,
		Gateway:       gateway,
		Reports:       reports,
		DraftsUC:      draftsUC,
		SessionSecret: cfg.Session.Secret,
		SessionCookie: cfg.Session.Cookie,
		Log:           log,
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

	log.Info().Msg("consola detenida")
}
