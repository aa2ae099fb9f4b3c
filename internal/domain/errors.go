package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrInvalidInput = errors.New("entrada inválida")

	// ErrCancelled la petición fue cancelada (refresco forzado, desmontaje o apagado).
	// Nunca se muestra al usuario; solo se registra.
	ErrCancelled = errors.New("petición cancelada")

	// ErrNoSession no hay token de sesión válido: no hay nada que consultar.
	ErrNoSession = errors.New("sin sesión activa")

	// ErrUnsuccessfulResponse el backend respondió con success=false o sin el campo.
	ErrUnsuccessfulResponse = errors.New("respuesta del backend sin éxito")

	// ErrBackendUnavailable error de transporte o HTTP no exitoso.
	ErrBackendUnavailable = errors.New("backend no disponible")

	ErrPageOutOfRange = errors.New("página fuera de rango")
)
