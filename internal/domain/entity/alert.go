package entity

import "strings"

// Severity nivel de una alerta de inventario o ventas.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Valid indica si la severidad es una de las cuatro conocidas.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// Normalize pasa la severidad a minúsculas sin espacios.
func (s Severity) Normalize() Severity {
	return Severity(strings.ToLower(strings.TrimSpace(string(s))))
}

// Alert proyección de solo lectura del estado de un SKU o de las ventas.
// Nunca se modifica localmente; solo se vuelve a consultar.
type Alert struct {
	SKU      string   `json:"sku"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Type     string   `json:"type"` // low_stock | out_of_stock | overstock | sales_drop ...
}

// CountBySeverity agrupa alertas por severidad; las severidades inválidas se ignoran.
func CountBySeverity(alerts []Alert) map[Severity]int {
	out := make(map[Severity]int, 4)
	for _, a := range alerts {
		if a.Severity.Valid() {
			out[a.Severity]++
		}
	}
	return out
}
