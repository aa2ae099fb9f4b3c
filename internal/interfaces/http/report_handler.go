package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-dashboard/internal/application/dto"
	"github.com/jhoicas/Inventario-dashboard/internal/application/ports"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/entity"
	"github.com/jhoicas/Inventario-dashboard/internal/interfaces/binding"
)

// ReportHandler genera el reporte PDF a partir de las vistas ya cargadas.
type ReportHandler struct {
	views      *binding.Group
	generator  ports.InventoryReportGenerator
	names      ViewNames
	thresholds entity.StockThresholds
}

// NewReportHandler construye el handler.
func NewReportHandler(views *binding.Group, generator ports.InventoryReportGenerator, names ViewNames, thresholds entity.StockThresholds) *ReportHandler {
	return &ReportHandler{views: views, generator: generator, names: names, thresholds: thresholds}
}

// InventoryReport PDF con la página actual de SKUs, su resumen y las alertas activas.
// No consulta el backend: imprime lo que la vista ya tiene.
// @Summary      Reporte PDF de inventario
// @Tags         dashboard
// @Produce      application/pdf
// @Success      200
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/dashboard/inventory/report.pdf [get]
func (h *ReportHandler) InventoryReport(c *fiber.Ctx) error {
	skus, err := h.views.Get(h.names.SKUs)
	if err != nil {
		return viewNotFound(c, err)
	}
	snap := skus.Snapshot()
	if !snap.HasSKUs {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code: "NOT_LOADED", Message: "el listado de SKUs aún no se ha cargado",
		})
	}

	var alerts []entity.Alert
	if inv, err := h.views.Get(h.names.Inventory); err == nil {
		alerts = inv.Alerts()
	}

	now := time.Now()
	pdfBytes, err := h.generator.GenerateInventoryReport(c.UserContext(), dto.InventoryReport{
		Title:       "Reporte de inventario",
		Company:     GetCompanyID(c),
		Platform:    snap.Platform,
		GeneratedAt: now,
		SKUs:        snap.SKUs,
		Summary:     snap.Summary,
		Pagination:  snap.Pagination,
		Alerts:      alerts,
		Thresholds:  h.thresholds,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "PDF_ERROR", Message: err.Error()})
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="inventario-%s-p%d-%s.pdf"`,
		snap.Platform, snap.CurrentPage, now.Format("20060102")))
	return c.Send(pdfBytes)
}
