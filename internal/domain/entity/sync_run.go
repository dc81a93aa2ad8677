package entity

import "time"

// Estados de un registro de auditoría de sincronización.
const (
	RunStatusOK      = "ok"
	RunStatusPartial = "partial" // el lote terminó pero el stream sigue incompleto
	RunStatusError   = "error"
)

// SyncRun registro de auditoría de una invocación de sincronización.
// Cada corrida agrega exactamente un registro, incluyendo las fallidas.
type SyncRun struct {
	ID        string // uuid
	Stream    Stream
	StartedAt time.Time
	Duration  time.Duration
	Synced    int // filas reconciliadas en este lote
	Total     int // filas totales almacenadas tras el lote
	Status    string
	Error     string // texto del error si Status == error
}
