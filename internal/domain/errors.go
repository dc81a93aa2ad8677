package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrInvalidInput    = errors.New("entrada inválida")
	ErrMissingConfig   = errors.New("configuración incompleta")
	ErrAPIAuth         = errors.New("credenciales de la API rechazadas")
	ErrAPIUnavailable  = errors.New("la API no respondió tras los reintentos")
	ErrInvalidDocument = errors.New("documento sin identificadores requeridos")
	ErrStreamFailed    = errors.New("la sincronización del stream falló")
	ErrUnauthorized    = errors.New("no autorizado")
	ErrSyncRunning     = errors.New("ya hay una sincronización en curso")
)
