package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/invorya/vendor-console/internal/application/drafts"
	"github.com/invorya/vendor-console/internal/application/ledger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Registry      *ledger.Registry
	Gateway       ledger.RemoteLedgerGateway
	Reports       ledger.MovementReportGenerator
	DraftsUC      *drafts.UseCase // nil si la consola corre sin DB propia
	SessionSecret string
	SessionCookie string
	Log           zerolog.Logger
}

// Router registra las rutas de la consola. Todo exige la cookie de sesión.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", SessionMiddleware(deps.SessionSecret, deps.SessionCookie))

	// Vista de libro por producto (protegido)
	products := api.Group("/products/:id")
	ledgerHandler := NewLedgerHandler(deps.Registry)
	products.Get("/ledger", ledgerHandler.GetLedger)
	products.Delete("/ledger", ledgerHandler.Release)
	products.Put("/ledger/location-filter", ledgerHandler.SetLocationFilter)
	products.Get("/ledger/locations/:loc/batches", ledgerHandler.GetFeed)
	products.Post("/ledger/locations/:loc/batches/more", ledgerHandler.LoadMore)
	products.Put("/ledger/locations/:loc/filter", ledgerHandler.SetFilter)

	// Recepciones (protegido)
	batchHandler := NewBatchHandler(deps.Registry, deps.Gateway, deps.DraftsUC, deps.Log)
	products.Post("/batches", batchHandler.Create)

	// Defectos y bajas (protegido)
	adjustmentHandler := NewAdjustmentHandler(deps.Registry, deps.Gateway, deps.Log)
	products.Post("/stocks/:stockId/defects", adjustmentHandler.CreateDefect)
	products.Patch("/defects/:defectId", adjustmentHandler.UpdateDefect)
	products.Post("/defects/:defectId/remove", adjustmentHandler.RemoveDefect)
	products.Post("/stocks/:stockId/writeoffs", adjustmentHandler.CreateWriteoff)
	products.Patch("/writeoffs/:writeoffId", adjustmentHandler.UpdateWriteoff)
	products.Delete("/writeoffs/:writeoffId", adjustmentHandler.DeleteWriteoff)

	// Precio y activación (protegido)
	priceHandler := NewPriceHandler(deps.Registry, deps.Gateway, deps.Log)
	products.Put("/prices", priceHandler.Upsert)
	products.Post("/prices/toggle", priceHandler.Toggle)

	// Borradores de recepción (protegido; requiere DB propia)
	if deps.DraftsUC != nil {
		draftHandler := NewDraftHandler(deps.DraftsUC)
		products.Get("/batch-draft", draftHandler.Get)
		products.Put("/batch-draft", draftHandler.Save)
		products.Delete("/batch-draft", draftHandler.Delete)
	}

	// Historial de movimientos (protegido)
	movements := api.Group("/movements")
	historyHandler := NewHistoryHandler(deps.Gateway, deps.Reports, deps.Log)
	movements.Get("/:scope", historyHandler.Open)
	movements.Post("/:scope/more", historyHandler.LoadMore)
	movements.Get("/:scope/export", historyHandler.Export)
	movements.Get("/:scope/report.pdf", historyHandler.Report)
}
