package dto

import "time"

// BatchReport resultado de una invocación acotada sobre un stream.
type BatchReport struct {
	Stream          string `json:"stream"`
	Complete        bool   `json:"complete"`
	SyncedThisBatch int    `json:"synced_this_batch"`
	TotalSynced     int    `json:"total_synced"`
	PagesVisited    int    `json:"pages_visited"`
}

// FullSyncReport reportes por stream de una sincronización completa.
type FullSyncReport struct {
	Streams  []BatchReport `json:"streams"`
	Duration string        `json:"duration"`
}

// StreamStatus estado observable de un stream.
type StreamStatus struct {
	Stream     string `json:"stream"`
	State      string `json:"state"` // not_started, in_progress, complete
	StoredRows int    `json:"stored_rows"`
	NextPage   *int   `json:"next_page,omitempty"`
}

// RecomputeReport resultado de la ruta de reparación de márgenes.
type RecomputeReport struct {
	SaleRows  int `json:"sale_rows"`
	Matched   int `json:"matched"`
	Unmatched int `json:"unmatched"`
	Updated   int `json:"updated"`
}

// SchedulerStatus estado del auto-sync recurrente.
type SchedulerStatus struct {
	Active        bool       `json:"active"`
	CurrentStream string     `json:"current_stream"`
	TicksRun      int        `json:"ticks_run"`
	LastTickAt    *time.Time `json:"last_tick_at,omitempty"`
}

// RunRecord registro de auditoría expuesto por el control surface.
type RunRecord struct {
	ID        string    `json:"id"`
	Stream    string    `json:"stream"`
	StartedAt time.Time `json:"started_at"`
	Duration  string    `json:"duration"`
	Synced    int       `json:"synced"`
	Total     int       `json:"total"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
}
