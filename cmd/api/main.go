package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/uyfcastell/FNC-dev/docs"
	"github.com/uyfcastell/FNC-dev/internal/application/inventory"
	"github.com/uyfcastell/FNC-dev/internal/infrastructure/postgres"
	httpRouter "github.com/uyfcastell/FNC-dev/internal/interfaces/http"
	"github.com/uyfcastell/FNC-dev/pkg/config"
	"github.com/uyfcastell/FNC-dev/pkg/logger"
)

// @title                       FNC Stock API
// @version                     1.0
// @description                 Ledger de stock y lotes de producción.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
// @description                 Bearer <token>
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("tx_isolation", cfg.Stock.TxIsolation).
		Bool("allow_negative_direct", cfg.Stock.AllowNegativeDirect).
		Msg("iniciando aplicación")

	ctx := context.Background()
	log.Info().Str("dsn", postgres.RedactedDSN(cfg.DB)).Int("max_conns", cfg.DB.MaxConns).Msg("conectando a PostgreSQL")
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	txRunner := postgres.NewTxRunner(pool, cfg.Stock.TxIsolation)
	ledger := inventory.NewLedger(txRunner, log)
	mermaUC := inventory.NewMermaUseCase(ledger)
	countUC := inventory.NewInventoryCountUseCase(ledger)
	lotsUC := inventory.NewLotQueryUseCase(txRunner)
	kardexUC := inventory.NewMovementQueryUseCase(txRunner)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(docs.Handler())

	httpRouter.Router(app, httpRouter.RouterDeps{
		Ledger:              ledger,
		Merma:               mermaUC,
		Counts:              countUC,
		Lots:                lotsUC,
		Movements:           kardexUC,
		JWTSecret:           cfg.JWT.Secret,
		JWTIssuer:           cfg.JWT.Issuer,
		AllowNegativeDirect: cfg.Stock.AllowNegativeDirect,
		Log:                 log,
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

	log.Info().Msg("aplicación detenida")
}
