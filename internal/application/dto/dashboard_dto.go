package dto

import (
	"time"

	"github.com/jhoicas/Inventario-dashboard/internal/domain/entity"
)

// DashboardSnapshotDTO respuesta de GET /api/dashboard/{inventory,skus}.
// Refleja el estado de un binding tal cual lo leería un componente visual.
type DashboardSnapshotDTO struct {
	Name        string                    `json:"name"`
	Status      string                    `json:"status"` // idle | loading | success | error
	Loading     bool                      `json:"loading"`
	Error       *string                   `json:"error"`
	Platform    string                    `json:"platform"`
	Platforms   *entity.PlatformViewModel `json:"platforms,omitempty"`
	SKUs        []entity.SKU              `json:"skus,omitempty"`
	Pagination  *entity.Pagination        `json:"pagination,omitempty"`
	Summary     *entity.SummaryStats      `json:"summary_stats,omitempty"`
	Alerts      []entity.Alert            `json:"alerts,omitempty"`
	Cached      bool                      `json:"cached"`
	CurrentPage int                       `json:"current_page"`
	UpdatedAt   *time.Time                `json:"updated_at,omitempty"`
}

// PlatformViewDTO respuesta de GET /api/dashboard/platforms/:platform.
type PlatformViewDTO struct {
	Platform string                   `json:"platform"`
	Empty    bool                     `json:"empty"`
	Data     *entity.AnalyticsPayload `json:"data"`
}

// RefreshResultDTO respuesta de POST /api/dashboard/refresh.
type RefreshResultDTO struct {
	Forced    bool     `json:"forced"`
	Refreshed []string `json:"refreshed"`
}

// CoordinatorStatsDTO contadores de la caché de peticiones.
type CoordinatorStatsDTO struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Coalesced int64 `json:"coalesced"`
	Cancelled int64 `json:"cancelled"`
	Entries   int   `json:"entries"`
	Pending   int   `json:"pending"`
}
