package dto

import (
	"time"

	"github.com/jhoicas/Inventario-dashboard/internal/domain/entity"
)

// InventoryReport datos de entrada del reporte PDF de inventario.
type InventoryReport struct {
	Title       string
	Company     string // company_id del token de sesión, si se conoce
	Platform    entity.Platform
	GeneratedAt time.Time
	SKUs        []entity.SKU
	Summary     entity.SummaryStats
	Pagination  entity.Pagination
	Alerts      []entity.Alert
	Thresholds  entity.StockThresholds
}
