package entity

import "github.com/shopspring/decimal"

// SalesKPIs indicadores de ventas del período consultado.
type SalesKPIs struct {
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalOrders       int             `json:"total_orders"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	TotalUnitsSold    int             `json:"total_units_sold"`
	RevenueGrowthPct  decimal.Decimal `json:"revenue_growth_pct"` // vs. período anterior
}

// TrendPoint un punto de la serie de ingresos (semana o mes).
type TrendPoint struct {
	Period    string          `json:"period"` // ej: "2026-W14" o "2026-04"
	Revenue   decimal.Decimal `json:"revenue"`
	UnitsSold int             `json:"units_sold"`
}

// TrendAnalysis series de ingresos y dirección de la tendencia.
type TrendAnalysis struct {
	Direction string       `json:"trend_direction"` // up | down | stable
	Weekly    []TrendPoint `json:"weekly_data"`
	Monthly   []TrendPoint `json:"monthly_data"`
}

// AlertsSummary alertas activas y sus conteos.
type AlertsSummary struct {
	Alerts        []Alert `json:"alerts"`
	TotalAlerts   int     `json:"total_alerts"`
	CriticalCount int     `json:"critical_count"`
}

// AnalyticsPayload datos de analítica de una plataforma (o de la vista combinada).
// Las secciones ausentes en la respuesta quedan en nil y se consideran vacías.
type AnalyticsPayload struct {
	SalesKPIs        *SalesKPIs     `json:"sales_kpis,omitempty"`
	TrendAnalysis    *TrendAnalysis `json:"trend_analysis,omitempty"`
	AlertsSummary    *AlertsSummary `json:"alerts_summary,omitempty"`
	InventorySummary *SummaryStats  `json:"inventory_summary,omitempty"`
}

// IsEmpty indica que la plataforma no tiene ninguna sección de datos.
func (p *AnalyticsPayload) IsEmpty() bool {
	return p == nil ||
		(p.SalesKPIs == nil && p.TrendAnalysis == nil && p.AlertsSummary == nil && p.InventorySummary == nil)
}

// Alerts devuelve las alertas de la plataforma o un slice vacío.
func (p *AnalyticsPayload) Alerts() []Alert {
	if p == nil || p.AlertsSummary == nil {
		return []Alert{}
	}
	return p.AlertsSummary.Alerts
}

// PlatformViewModel modelo de vista normalizado: siempre con las tres vistas presentes.
type PlatformViewModel struct {
	Shopify  *AnalyticsPayload `json:"shopify"`
	Amazon   *AnalyticsPayload `json:"amazon"`
	Combined *AnalyticsPayload `json:"combined"`
}

// View devuelve la vista pedida; nil si el nombre no es una vista.
func (v PlatformViewModel) View(p Platform) *AnalyticsPayload {
	switch p {
	case PlatformShopify:
		return v.Shopify
	case PlatformAmazon:
		return v.Amazon
	case PlatformCombined, PlatformAll:
		return v.Combined
	default:
		return nil
	}
}
