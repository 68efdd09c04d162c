package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/kardex-api/internal/application/analytics"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/application/returns"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemUC    *inventory.ItemUseCase
	Engine    *inventory.MovementEngine
	BulkExit  *inventory.BulkExitProcessor
	LedgerUC  *inventory.LedgerUseCase
	ReturnsUC *returns.UseCase
	Reports   *analytics.StockReportUseCase
	JWTSecret string
	Log       zerolog.Logger
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(RoleAdmin)

	// Items
	items := api.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC, deps.LedgerUC, deps.Log)
	items.Post("/", itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", itemHandler.Update)
	items.Delete("/:id", itemHandler.Delete)
	items.Get("/:id/reconciliation", itemHandler.Reconciliation)

	// Kardex
	ledger := api.Group("/ledger")
	ledgerHandler := NewLedgerHandler(deps.Engine, deps.BulkExit, deps.LedgerUC, deps.Log)
	ledger.Post("/movements", ledgerHandler.RegisterMovement)
	ledger.Post("/bulk-exit", ledgerHandler.BulkExit)
	ledger.Get("/entries", ledgerHandler.ListEntries)
	ledger.Patch("/entries/:id/observation", ledgerHandler.EditObservation)
	ledger.Post("/entries/:id/correction", adminOnly, ledgerHandler.Correct)

	// Devoluciones
	rets := api.Group("/returns")
	returnHandler := NewReturnHandler(deps.ReturnsUC, deps.Log)
	rets.Post("/", returnHandler.Create)
	rets.Get("/", returnHandler.List)
	rets.Get("/:id", returnHandler.GetByID)
	rets.Put("/:id", returnHandler.Edit)
	rets.Delete("/:id", returnHandler.Delete)
	rets.Post("/:id/approve", adminOnly, returnHandler.Approve)
	rets.Post("/:id/reject", adminOnly, returnHandler.Reject)
	rets.Post("/:id/complete", adminOnly, returnHandler.Complete)

	// Reportes
	reports := api.Group("/reports")
	reportHandler := NewReportHandler(deps.Reports, deps.Log)
	reports.Get("/low-stock", reportHandler.LowStock)
	reports.Get("/departments", reportHandler.Departments)
	reports.Get("/monthly-movements", reportHandler.MonthlyMovements)
}
