// @title           Kardex API
// @version         1.0
// @description     Kardex de insumos por departamento y flujo de devoluciones.
// @BasePath        /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
// @description                 Bearer <token>
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/kardex-api/docs"
	"github.com/jhoicas/kardex-api/internal/application/analytics"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/application/returns"
	"github.com/jhoicas/kardex-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/kardex-api/internal/interfaces/http"
	"github.com/jhoicas/kardex-api/pkg/config"
	"github.com/jhoicas/kardex-api/pkg/logger"
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
		Str("driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("aplicación finalizada con error")
		os.Exit(1)
	}
	log.Info().Msg("aplicación detenida")
}

// run devuelve el error en lugar de terminar el proceso para que los defer cierren el almacenamiento.
func run(cfg *config.Config, log *logger.Logger) error {
	ctx := context.Background()
	store, err := storage.Open(ctx, cfg, log.Zerolog())
	if err != nil {
		return fmt.Errorf("almacenamiento: %w", err)
	}
	defer store.Close()

	loc, err := cfg.Ledger.Location()
	if err != nil {
		return fmt.Errorf("zona horaria de reportes: %w", err)
	}

	zl := log.Zerolog()
	engine := inventory.NewMovementEngine(store.TxRunner, inventory.EngineConfig{
		MaxRetries:   cfg.Ledger.MaxRetries,
		RetryBackoff: cfg.Ledger.RetryBackoff,
	}, zl)
	bulkExit := inventory.NewBulkExitProcessor(engine, store.Items, cfg.Ledger.BulkExitConcurrency, zl)
	itemUC := inventory.NewItemUseCase(store.TxRunner, engine, store.Items, zl)
	ledgerUC := inventory.NewLedgerUseCase(store.TxRunner, store.Ledger, cfg.Ledger.AllowCorrections, zl)
	returnsUC := returns.NewUseCase(store.TxRunner, store.Returns, engine, zl)
	reports := analytics.NewStockReportUseCase(store.Items, store.Ledger, store.Reference, loc)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(zl))

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath:    "/",
		FileContent: []byte(docs.SwaggerInfo.ReadDoc()),
		Path:        "docs",
		Title:       "Kardex API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "driver": store.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ItemUC:    itemUC,
		Engine:    engine,
		BulkExit:  bulkExit,
		LedgerUC:  ledgerUC,
		ReturnsUC: returnsUC,
		Reports:   reports,
		JWTSecret: cfg.JWT.Secret,
		Log:       zl,
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
		return fmt.Errorf("apagado del servidor: %w", err)
	}
	return nil
}
