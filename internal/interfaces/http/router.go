package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/Inventario-dashboard/internal/application/ports"
	"github.com/jhoicas/Inventario-dashboard/internal/application/requestmgr"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/entity"
	"github.com/jhoicas/Inventario-dashboard/internal/interfaces/binding"
	"github.com/jhoicas/Inventario-dashboard/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Views       *binding.Group
	Coordinator *requestmgr.Coordinator
	Session     ports.SessionStore
	Reports     ports.InventoryReportGenerator
	Names       ViewNames
	Thresholds  entity.StockThresholds
	Log         *logger.Logger
}

// Router registra las rutas del servidor de vistas.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		_, ok := deps.Session.Token()
		return c.JSON(fiber.Map{"status": "ok", "session": ok})
	})

	api := app.Group("/api/dashboard", requestid.New(), SessionMiddleware(deps.Session))
	dashboardHandler := NewDashboardHandler(deps.Views, deps.Coordinator, deps.Names, deps.Log)
	reportHandler := NewReportHandler(deps.Views, deps.Reports, deps.Names, deps.Thresholds)

	// Lectura (sin sesión las vistas responden en estado idle)
	api.Get("/inventory", dashboardHandler.GetInventory)
	api.Get("/inventory/report.pdf", reportHandler.InventoryReport)
	api.Get("/platforms/:platform", dashboardHandler.GetPlatform)
	api.Get("/skus", dashboardHandler.GetSKUs)
	api.Get("/cache/stats", dashboardHandler.CacheStats)

	// Acciones que consultan el backend (requieren sesión)
	api.Post("/skus/page/:page", RequireSession(), dashboardHandler.LoadPage)
	api.Post("/refresh", RequireSession(), dashboardHandler.Refresh)

	// Estado local
	api.Put("/refresh-interval", dashboardHandler.SetRefreshInterval)
	api.Delete("/cache", dashboardHandler.ClearCache)
}
