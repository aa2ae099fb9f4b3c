package analytics

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/Inventario-dashboard/internal/application/dto"
	"github.com/jhoicas/Inventario-dashboard/internal/domain"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/entity"
)

// Shape forma en la que llegó la respuesta de analítica.
type Shape string

const (
	ShapeMultiPlatform Shape = "multi_platform" // {"platforms": {"shopify": {...}, "amazon": {...}}, "combined": {...}}
	ShapeLegacy        Shape = "legacy"         // {"sales_kpis": {...}, "trend_analysis": {...}, ...}
	ShapeEmpty         Shape = "empty"          // ninguna sección reconocible
)

// Secciones de primer nivel de la forma legacy.
var legacySections = []string{"sales_kpis", "trend_analysis", "alerts_summary", "inventory_summary"}

// DecodedAnalytics resultado de normalizar una respuesta de analítica.
type DecodedAnalytics struct {
	View   entity.PlatformViewModel
	Shape  Shape
	Issues []string // secciones ilegibles que se trataron como vacías
}

// DecodeAnalytics normaliza el cuerpo JSON a la forma multi-plataforma.
//
// Intenta primero la variante multi-plataforma; si no aplica, la legacy. Los datos
// legacy se colocan bajo la plataforma que representan (requested, o shopify cuando se
// pidió "all") y bajo combined. Las plataformas sin datos quedan vacías, nunca inventadas.
// Función pura: sin efectos secundarios.
func DecodeAnalytics(body []byte, requested entity.Platform) (DecodedAnalytics, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return DecodedAnalytics{}, fmt.Errorf("analítica: cuerpo no es un objeto JSON: %w", err)
	}

	if out, ok := parseMultiPlatform(fields); ok {
		return out, nil
	}
	if out, ok := parseLegacy(fields, requested); ok {
		return out, nil
	}
	return DecodedAnalytics{View: emptyView(), Shape: ShapeEmpty}, nil
}

// parseMultiPlatform variante A: existe "platforms" y es un objeto.
func parseMultiPlatform(fields map[string]json.RawMessage) (DecodedAnalytics, bool) {
	raw, ok := fields["platforms"]
	if !ok || isNull(raw) {
		return DecodedAnalytics{}, false
	}
	var platforms map[string]json.RawMessage
	if err := json.Unmarshal(raw, &platforms); err != nil {
		return DecodedAnalytics{}, false
	}

	out := DecodedAnalytics{Shape: ShapeMultiPlatform}
	out.View.Shopify = decodePayload(platforms[string(entity.PlatformShopify)], "platforms.shopify", &out.Issues)
	out.View.Amazon = decodePayload(platforms[string(entity.PlatformAmazon)], "platforms.amazon", &out.Issues)

	combined, ok := fields["combined"]
	if !ok {
		combined = platforms[string(entity.PlatformCombined)]
	}
	out.View.Combined = decodePayload(combined, "combined", &out.Issues)
	return out, true
}

// parseLegacy variante B: secciones planas en el primer nivel.
func parseLegacy(fields map[string]json.RawMessage, requested entity.Platform) (DecodedAnalytics, bool) {
	found := false
	for _, s := range legacySections {
		if _, ok := fields[s]; ok {
			found = true
			break
		}
	}
	if !found {
		return DecodedAnalytics{}, false
	}

	represents := entity.PlatformShopify
	if requested == entity.PlatformAmazon {
		represents = entity.PlatformAmazon
	}

	out := DecodedAnalytics{Shape: ShapeLegacy, View: emptyView()}
	// Dos decodificaciones independientes: las vistas no comparten punteros.
	platform := decodeSections(fields, "legacy", &out.Issues)
	out.View.Combined = decodeSections(fields, "legacy", nil)
	if represents == entity.PlatformAmazon {
		out.View.Amazon = platform
	} else {
		out.View.Shopify = platform
	}
	return out, true
}

func emptyView() entity.PlatformViewModel {
	return entity.PlatformViewModel{
		Shopify:  &entity.AnalyticsPayload{},
		Amazon:   &entity.AnalyticsPayload{},
		Combined: &entity.AnalyticsPayload{},
	}
}

// decodePayload decodifica un sub-objeto de plataforma; ausente o null => vacío.
func decodePayload(raw json.RawMessage, path string, issues *[]string) *entity.AnalyticsPayload {
	if len(raw) == 0 || isNull(raw) {
		return &entity.AnalyticsPayload{}
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		addIssue(issues, path, err)
		return &entity.AnalyticsPayload{}
	}
	return decodeSections(fields, path, issues)
}

// decodeSections decodifica sección por sección: una sección ilegible queda en nil
// sin invalidar las demás.
func decodeSections(fields map[string]json.RawMessage, path string, issues *[]string) *entity.AnalyticsPayload {
	p := &entity.AnalyticsPayload{}
	if raw, ok := fields["sales_kpis"]; ok && !isNull(raw) {
		var v entity.SalesKPIs
		if err := json.Unmarshal(raw, &v); err != nil {
			addIssue(issues, path+".sales_kpis", err)
		} else {
			p.SalesKPIs = &v
		}
	}
	if raw, ok := fields["trend_analysis"]; ok && !isNull(raw) {
		var v entity.TrendAnalysis
		if err := json.Unmarshal(raw, &v); err != nil {
			addIssue(issues, path+".trend_analysis", err)
		} else {
			p.TrendAnalysis = &v
		}
	}
	if raw, ok := fields["alerts_summary"]; ok && !isNull(raw) {
		var v entity.AlertsSummary
		if err := json.Unmarshal(raw, &v); err != nil {
			addIssue(issues, path+".alerts_summary", err)
		} else {
			normalizeAlerts(&v)
			p.AlertsSummary = &v
		}
	}
	if raw, ok := fields["inventory_summary"]; ok && !isNull(raw) {
		var v entity.SummaryStats
		if err := json.Unmarshal(raw, &v); err != nil {
			addIssue(issues, path+".inventory_summary", err)
		} else {
			p.InventorySummary = &v
		}
	}
	return p
}

func normalizeAlerts(s *entity.AlertsSummary) {
	if s.Alerts == nil {
		s.Alerts = []entity.Alert{}
	}
	for i := range s.Alerts {
		s.Alerts[i].Severity = s.Alerts[i].Severity.Normalize()
	}
	if s.TotalAlerts == 0 {
		s.TotalAlerts = len(s.Alerts)
	}
	if s.CriticalCount == 0 {
		s.CriticalCount = entity.CountBySeverity(s.Alerts)[entity.SeverityCritical]
	}
}

func addIssue(issues *[]string, path string, err error) {
	if issues != nil {
		*issues = append(*issues, fmt.Sprintf("%s: %v", path, err))
	}
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// ── SKUs ──────────────────────────────────────────────────────────────────────

// DeriveSummaryStats calcula el resumen cuando el backend no lo envía.
func DeriveSummaryStats(skus []entity.SKU, t entity.StockThresholds) entity.SummaryStats {
	stats := entity.SummaryStats{TotalSKUs: len(skus)}
	for _, s := range skus {
		stats.TotalInventoryValue = stats.TotalInventoryValue.Add(s.Value())
		switch t.Classify(s.CurrentAvailability) {
		case entity.StockOutOfStock:
			stats.OutOfStockCount++
		case entity.StockLow:
			stats.LowStockCount++
		case entity.StockOverstock:
			stats.OverstockCount++
		}
	}
	return stats
}

// ToSKUPage valida y normaliza una respuesta de SKUs.
// page y pageSize son los de la consulta; se usan si el backend omite la paginación.
func ToSKUPage(resp *dto.SKUListResponse, page, pageSize int, t entity.StockThresholds) (entity.SKUPage, error) {
	if resp == nil {
		return entity.SKUPage{}, fmt.Errorf("skus: respuesta vacía: %w", domain.ErrUnsuccessfulResponse)
	}
	if !resp.OK() {
		return entity.SKUPage{}, fmt.Errorf("skus: %w", unsuccessful(resp.Envelope))
	}

	skus := make([]entity.SKU, len(resp.SKUs))
	for i, s := range resp.SKUs {
		s.TotalValue = s.Value()
		skus[i] = s
	}

	out := entity.SKUPage{SKUs: skus, Cached: resp.Cached}
	if resp.Pagination != nil {
		out.Pagination = *resp.Pagination
	} else {
		out.Pagination = entity.Pagination{
			CurrentPage: page,
			PageSize:    pageSize,
			TotalCount:  len(skus),
			HasPrevious: page > 1,
		}
		if len(skus) > 0 {
			out.Pagination.TotalPages = page
		}
	}

	if resp.SummaryStats != nil {
		out.Summary = *resp.SummaryStats
	} else {
		out.Summary = DeriveSummaryStats(skus, t)
		out.SummaryDerived = true
	}
	return out, nil
}

// unsuccessful describe un envelope con success=false o ausente.
func unsuccessful(env dto.Envelope) error {
	switch {
	case env.Error != "":
		return fmt.Errorf("%w: %s", domain.ErrUnsuccessfulResponse, env.Error)
	case env.Message != "":
		return fmt.Errorf("%w: %s", domain.ErrUnsuccessfulResponse, env.Message)
	default:
		return domain.ErrUnsuccessfulResponse
	}
}
