package dto

import "github.com/jhoicas/Inventario-dashboard/internal/domain/entity"

// SKUQuery parámetros para GET <sku-endpoint>.
type SKUQuery struct {
	Page         int
	PageSize     int
	UseCache     bool
	ForceRefresh bool
	Platform     entity.Platform
}

// SKUListResponse respuesta del listado de SKUs.
// SummaryStats es opcional: si no viene, el agregador la deriva de SKUs.
type SKUListResponse struct {
	Envelope
	SKUs         []entity.SKU         `json:"skus"`
	Pagination   *entity.Pagination   `json:"pagination"`
	SummaryStats *entity.SummaryStats `json:"summary_stats,omitempty"`
}
