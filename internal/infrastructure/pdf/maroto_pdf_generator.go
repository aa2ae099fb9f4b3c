// Package pdf implementa el reporte imprimible del inventario del dashboard.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + empresa    │  Plataforma + Fecha          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: SKUs | Valor | Bajo stock | Sin stock | Sobrestock │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Producto | Disp. | Entr. | Sal. | Valor | Est. │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ALERTAS: severidad + SKU + mensaje                          │
//	│  FOOTER: página del listado y umbrales usados                │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/Inventario-dashboard/internal/application/dto"
	"github.com/jhoicas/Inventario-dashboard/internal/application/ports"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/entity"
)

var _ ports.InventoryReportGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary  = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray     = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite    = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorCritical = &props.Color{Red: 178, Green: 34, Blue: 34}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa ports.InventoryReportGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	printer *message.Printer
}

// NewMarotoPDFGenerator construye el generador. Las cifras se formatean en es-CO.
func NewMarotoPDFGenerator() *MarotoPDFGenerator {
	return &MarotoPDFGenerator{printer: message.NewPrinter(language.MustParse("es-CO"))}
}

// GenerateInventoryReport genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInventoryReport(_ context.Context, r dto.InventoryReport) ([]byte, error) {
	title := nonEmpty(r.Title, "Reporte de inventario")
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(nonEmpty(r.Company, "Inventario"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(title, r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(g.summaryRow(r.Summary))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(g.tableDetailRows(r.SKUs, thresholdsOrDefault(r.Thresholds))...)

	if len(r.Alerts) > 0 {
		m.AddRows(line.NewRow(3))
		m.AddRows(alertRows(r.Alerts)...)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(g.footerRow(r))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título + empresa (izq) y plataforma + fecha (der).
func (g *MarotoPDFGenerator) headerRow(title string, r dto.InventoryReport) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Empresa: "+nonEmpty(r.Company, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("PLATAFORMA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(strings.ToUpper(nonEmpty(string(r.Platform), string(entity.PlatformAll))), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Generado: "+r.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// summaryRow: indicadores del listado.
func (g *MarotoPDFGenerator) summaryRow(s entity.SummaryStats) core.Row {
	kpi := func(label, value string, size int) core.Col {
		return col.New(size).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 7, Color: colorPrimary, Top: 1, Align: align.Center}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 11, Top: 6, Align: align.Center}),
		)
	}
	return row.New(16).Add(
		kpi("SKUs", g.printer.Sprintf("%d", s.TotalSKUs), 2),
		kpi("VALOR TOTAL", g.money(s.TotalInventoryValue), 4),
		kpi("BAJO STOCK", g.printer.Sprintf("%d", s.LowStockCount), 2),
		kpi("SIN STOCK", g.printer.Sprintf("%d", s.OutOfStockCount), 2),
		kpi("SOBRESTOCK", g.printer.Sprintf("%d", s.OverstockCount), 2),
	)
}

// tableHeaderRow: cabecera de la tabla con fondo azul.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("SKU", 2, align.Left),
		h("Producto", 3, align.Left),
		h("Disp.", 1, align.Right),
		h("Entr.", 1, align.Right),
		h("Sal.", 1, align.Right),
		h("Valor", 2, align.Right),
		h("Estado", 2, align.Center),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableDetailRows: una fila por SKU.
func (g *MarotoPDFGenerator) tableDetailRows(skus []entity.SKU, t entity.StockThresholds) []core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	result := make([]core.Row, 0, len(skus))
	for _, s := range skus {
		status := t.Classify(s.CurrentAvailability)
		statusText := props.Text{Size: 8, Align: align.Center, Top: 1}
		if status == entity.StockOutOfStock {
			statusText.Style = fontstyle.Bold
			statusText.Color = colorCritical
		}
		result = append(result, row.New(7).Add(
			cell(s.SKU, 2, align.Left),
			cell(s.ProductName, 3, align.Left),
			cell(g.printer.Sprintf("%d", s.CurrentAvailability), 1, align.Right),
			cell(g.printer.Sprintf("%d", s.IncomingInventory), 1, align.Right),
			cell(g.printer.Sprintf("%d", s.OutgoingInventory), 1, align.Right),
			cell(g.money(s.Value()), 2, align.Right),
			col.New(2).Add(text.New(statusLabel(status), statusText)),
		))
	}
	return result
}

// alertRows: alertas activas, las críticas resaltadas.
func alertRows(alerts []entity.Alert) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("ALERTAS ACTIVAS", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
	}
	for _, a := range alerts {
		sev := props.Text{Style: fontstyle.Bold, Size: 7.5, Top: 1}
		if a.Severity == entity.SeverityCritical {
			sev.Color = colorCritical
		}
		rows = append(rows, row.New(5).Add(
			col.New(2).Add(text.New(strings.ToUpper(string(a.Severity)), sev)),
			col.New(2).Add(text.New(a.SKU, props.Text{Size: 7.5, Top: 1})),
			col.New(8).Add(text.New(a.Message, props.Text{Size: 7.5, Top: 1, Color: colorGray})),
		))
	}
	return rows
}

// footerRow: paginación del listado y umbrales de clasificación.
func (g *MarotoPDFGenerator) footerRow(r dto.InventoryReport) core.Row {
	t := thresholdsOrDefault(r.Thresholds)
	page := g.printer.Sprintf("Página %d de %d del listado (%d SKUs en total)",
		r.Pagination.CurrentPage, r.Pagination.TotalPages, r.Pagination.TotalCount)
	legend := fmt.Sprintf("Bajo stock: disponibilidad < %d   |   Sobrestock: disponibilidad > %d", t.LowStock, t.Overstock)
	return row.New(10).Add(col.New(12).Add(
		text.New(page, props.Text{Size: 7, Color: colorGray, Top: 1}),
		text.New(legend, props.Text{Size: 6.5, Color: colorGray, Top: 5}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// money formatea con separador de miles local. Ej: 1234567.5 → "$1.234.567,50"
func (g *MarotoPDFGenerator) money(d decimal.Decimal) string {
	return g.printer.Sprintf("$%.2f", d.InexactFloat64())
}

func thresholdsOrDefault(t entity.StockThresholds) entity.StockThresholds {
	if t == (entity.StockThresholds{}) {
		return entity.DefaultStockThresholds()
	}
	return t
}

func statusLabel(s entity.StockStatus) string {
	switch s {
	case entity.StockOutOfStock:
		return "Sin stock"
	case entity.StockLow:
		return "Bajo"
	case entity.StockOverstock:
		return "Sobrestock"
	default:
		return "Normal"
	}
}
