package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/tu-usuario/margin-sync/internal/domain/entity"
	"github.com/tu-usuario/margin-sync/internal/domain/repository"
)

var _ repository.SyncRunRepository = (*SyncRunRepo)(nil)

// SyncRunRepo log de auditoría de corridas (tabla sync_runs, solo append).
type SyncRunRepo struct {
	q Querier
}

// NewSyncRunRepository construye el adaptador.
func NewSyncRunRepository(q Querier) *SyncRunRepo {
	return &SyncRunRepo{q: q}
}

// Create agrega el registro de una corrida.
func (r *SyncRunRepo) Create(ctx context.Context, run *entity.SyncRun) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO sync_runs (id, stream, started_at, duration_ms, synced, total, status, error)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		run.ID, string(run.Stream), run.StartedAt, run.Duration.Milliseconds(),
		run.Synced, run.Total, run.Status, run.Error,
	)
	if err != nil {
		return fmt.Errorf("insert sync run: %w", err)
	}
	return nil
}

// ListRecent últimas corridas, más reciente primero.
func (r *SyncRunRepo) ListRecent(ctx context.Context, limit int) ([]*entity.SyncRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.q.Query(ctx,
		`SELECT id, stream, started_at, duration_ms, synced, total, status, error
		 FROM sync_runs ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list sync runs: %w", err)
	}
	defer rows.Close()

	var list []*entity.SyncRun
	for rows.Next() {
		var run entity.SyncRun
		var stream string
		var durationMs int64
		if err := rows.Scan(&run.ID, &stream, &run.StartedAt, &durationMs,
			&run.Synced, &run.Total, &run.Status, &run.Error); err != nil {
			return nil, fmt.Errorf("scan sync run: %w", err)
		}
		run.Stream = entity.Stream(stream)
		run.Duration = time.Duration(durationMs) * time.Millisecond
		list = append(list, &run)
	}
	return list, rows.Err()
}
