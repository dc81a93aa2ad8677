package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/margin-sync/internal/domain/entity"
	"github.com/tu-usuario/margin-sync/internal/domain/repository"
)

var _ repository.SchedulerStateRepository = (*SchedulerStateRepo)(nil)

// SchedulerStateRepo estado persistido del auto-sync (una sola fila).
type SchedulerStateRepo struct {
	q Querier
}

// NewSchedulerStateRepository construye el adaptador.
func NewSchedulerStateRepository(q Querier) *SchedulerStateRepo {
	return &SchedulerStateRepo{q: q}
}

// Get devuelve el estado; si nunca se guardó, el estado cero (inactivo,
// stream warehouse).
func (r *SchedulerStateRepo) Get(ctx context.Context) (*entity.SchedulerState, error) {
	var st entity.SchedulerState
	var stream string
	var lastTick *time.Time
	err := r.q.QueryRow(ctx,
		`SELECT active, current_stream, ticks_run, last_tick_at, updated_at FROM scheduler_state WHERE id = 1`,
	).Scan(&st.Active, &stream, &st.TicksRun, &lastTick, &st.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.SchedulerState{CurrentStream: entity.StreamWarehouse}, nil
		}
		return nil, fmt.Errorf("get scheduler state: %w", err)
	}
	st.CurrentStream = entity.Stream(stream)
	if lastTick != nil {
		st.LastTickAt = *lastTick
	}
	return &st, nil
}

// Save persiste el estado (upsert de la fila única).
func (r *SchedulerStateRepo) Save(ctx context.Context, st *entity.SchedulerState) error {
	var lastTick *time.Time
	if !st.LastTickAt.IsZero() {
		lastTick = &st.LastTickAt
	}
	_, err := r.q.Exec(ctx,
		`INSERT INTO scheduler_state (id, active, current_stream, ticks_run, last_tick_at, updated_at)
		 VALUES (1, $1, $2, $3, $4, now())
		 ON CONFLICT (id) DO UPDATE SET
			active = EXCLUDED.active, current_stream = EXCLUDED.current_stream,
			ticks_run = EXCLUDED.ticks_run, last_tick_at = EXCLUDED.last_tick_at, updated_at = now()`,
		st.Active, string(st.CurrentStream), st.TicksRun, lastTick,
	)
	if err != nil {
		return fmt.Errorf("save scheduler state: %w", err)
	}
	return nil
}
