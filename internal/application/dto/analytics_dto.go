package dto

import (
	"encoding/json"

	"github.com/jhoicas/Inventario-dashboard/internal/domain/entity"
)

// AnalyticsQuery parámetros para GET <analytics-endpoint>.
type AnalyticsQuery struct {
	FastMode     bool
	ForceRefresh bool
	Platform     entity.Platform
}

// AnalyticsResponse respuesta cruda de analítica.
// Body conserva el JSON completo: la forma (multi-plataforma o legacy) se decide al normalizar.
type AnalyticsResponse struct {
	Envelope
	Body json.RawMessage `json:"-"`
}
