package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Envelope campos comunes de toda respuesta del backend de analítica.
// Success es puntero para distinguir "false" de "ausente": ambos son fallo.
type Envelope struct {
	Success *bool  `json:"success"`
	Cached  bool   `json:"cached"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OK indica success=true explícito.
func (e Envelope) OK() bool {
	return e.Success != nil && *e.Success
}
