package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/uyfcastell/FNC-dev/internal/application/inventory"
	"github.com/uyfcastell/FNC-dev/pkg/jwt"
	"github.com/uyfcastell/FNC-dev/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger              *inventory.Ledger
	Merma               *inventory.MermaUseCase
	Counts              *inventory.InventoryCountUseCase
	Lots                *inventory.LotQueryUseCase
	Movements           *inventory.MovementQueryUseCase
	JWTSecret           string
	JWTIssuer           string
	AllowNegativeDirect bool
	Log                 *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))
	stockHandler := NewStockHandler(deps.Ledger, deps.Merma, deps.Counts, deps.Lots, deps.Movements, deps.AllowNegativeDirect, deps.Log)

	api.Post("/stock/movements",
		RequireRole(jwt.RoleAdmin, jwt.RoleProduction, jwt.RoleDeposit),
		stockHandler.PostMovement)
	api.Post("/inventory-counts/reconcile",
		RequireRole(jwt.RoleAdmin, jwt.RoleDeposit),
		stockHandler.ReconcileCount)

	// Cualquier usuario autenticado
	api.Post("/mermas", stockHandler.PostMerma)
	api.Get("/stock/movements", stockHandler.ListMovements)
	api.Get("/production/lots", stockHandler.ListLots)
}
