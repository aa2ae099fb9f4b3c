package ports

import (
	"context"

	"github.com/jhoicas/Inventario-dashboard/internal/application/dto"
)

// DashboardAPI define el puerto de salida hacia el backend de analítica.
// El backend es una caja negra: cualquier adaptador (HTTP, mock, fixture) debe implementar esta interfaz.
// Todas las llamadas deben respetar la cancelación de ctx.
type DashboardAPI interface {
	// FetchAnalytics consulta la analítica de inventario/ventas.
	// La respuesta puede venir en forma multi-plataforma o legacy; el adaptador no la interpreta.
	FetchAnalytics(ctx context.Context, q dto.AnalyticsQuery) (*dto.AnalyticsResponse, error)

	// FetchSKUs consulta una página del listado de SKUs.
	FetchSKUs(ctx context.Context, q dto.SKUQuery) (*dto.SKUListResponse, error)

	// InvalidateCache pide al backend que descarte su propia caché (best-effort).
	InvalidateCache(ctx context.Context) error
}

// SessionStore fuente del token de sesión persistido localmente.
type SessionStore interface {
	// Token devuelve el bearer token vigente; ok=false si no hay sesión válida.
	Token() (token string, ok bool)
}

// InventoryReportGenerator genera el reporte imprimible de inventario.
type InventoryReportGenerator interface {
	GenerateInventoryReport(ctx context.Context, report dto.InventoryReport) ([]byte, error)
}
