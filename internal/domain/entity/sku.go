package entity

import "github.com/shopspring/decimal"

// SKU unidad de inventario con sus cantidades por estado.
// TotalValue debería ser UnitPrice * OnHandInventory pero el backend no siempre lo envía.
type SKU struct {
	SKU                 string          `json:"sku"`
	ProductName         string          `json:"product_name"`
	Platform            string          `json:"platform,omitempty"`
	OnHandInventory     int             `json:"on_hand_inventory"`
	IncomingInventory   int             `json:"incoming_inventory"`
	OutgoingInventory   int             `json:"outgoing_inventory"`
	CurrentAvailability int             `json:"current_availability"`
	UnitPrice           decimal.Decimal `json:"unit_price"`
	TotalValue          decimal.Decimal `json:"total_value"`
}

// Value devuelve TotalValue o, si viene en cero, UnitPrice * OnHandInventory.
func (s SKU) Value() decimal.Decimal {
	if !s.TotalValue.IsZero() {
		return s.TotalValue
	}
	return s.UnitPrice.Mul(decimal.NewFromInt(int64(s.OnHandInventory)))
}

// StockStatus clasificación de un SKU por disponibilidad.
type StockStatus string

const (
	StockOutOfStock StockStatus = "out_of_stock"
	StockLow        StockStatus = "low_stock"
	StockNormal     StockStatus = "in_stock"
	StockOverstock  StockStatus = "overstock"
)

// StockThresholds umbrales de clasificación por disponibilidad actual.
type StockThresholds struct {
	LowStock  int // disponibilidad < LowStock (y > 0) => stock bajo
	Overstock int // disponibilidad > Overstock => sobrestock
}

// DefaultStockThresholds umbrales por defecto del dashboard.
func DefaultStockThresholds() StockThresholds {
	return StockThresholds{LowStock: 10, Overstock: 100}
}

// Classify clasifica una disponibilidad según los umbrales.
func (t StockThresholds) Classify(availability int) StockStatus {
	switch {
	case availability <= 0:
		return StockOutOfStock
	case availability < t.LowStock:
		return StockLow
	case availability > t.Overstock:
		return StockOverstock
	default:
		return StockNormal
	}
}

// SummaryStats resumen del listado de SKUs.
type SummaryStats struct {
	TotalSKUs           int             `json:"total_skus"`
	TotalInventoryValue decimal.Decimal `json:"total_inventory_value"`
	LowStockCount       int             `json:"low_stock_count"`
	OutOfStockCount     int             `json:"out_of_stock_count"`
	OverstockCount      int             `json:"overstock_count"`
}

// Pagination metadatos de página del listado de SKUs.
type Pagination struct {
	CurrentPage int  `json:"current_page"`
	TotalPages  int  `json:"total_pages"`
	TotalCount  int  `json:"total_count"`
	PageSize    int  `json:"page_size"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// InRange indica si page está dentro de [1, TotalPages].
func (p Pagination) InRange(page int) bool {
	return page >= 1 && page <= p.TotalPages
}

// SKUPage una página de SKUs ya normalizada.
type SKUPage struct {
	SKUs           []SKU
	Pagination     Pagination
	Summary        SummaryStats
	SummaryDerived bool // true si el backend no envió summary_stats
	Cached         bool // el backend sirvió la respuesta desde su caché
}
