package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/margin-sync/internal/domain/entity"
	"github.com/tu-usuario/margin-sync/internal/domain/repository"
)

var _ repository.CursorRepository = (*CursorRepo)(nil)

// CursorRepo cursor de reanudación persistido por stream (tabla sync_cursors).
type CursorRepo struct {
	q Querier
}

// NewCursorRepository construye el adaptador.
func NewCursorRepository(q Querier) *CursorRepo {
	return &CursorRepo{q: q}
}

// Get devuelve el cursor del stream, o nil si no hay (ausente).
func (r *CursorRepo) Get(ctx context.Context, stream entity.Stream) (*entity.SyncCursor, error) {
	var c entity.SyncCursor
	c.Stream = stream
	err := r.q.QueryRow(ctx,
		`SELECT next_page, updated_at FROM sync_cursors WHERE stream = $1`,
		string(stream),
	).Scan(&c.NextPage, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cursor: %w", err)
	}
	return &c, nil
}

// Set crea o avanza el cursor a la siguiente página por procesar.
func (r *CursorRepo) Set(ctx context.Context, stream entity.Stream, nextPage int) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO sync_cursors (stream, next_page, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (stream) DO UPDATE SET next_page = EXCLUDED.next_page, updated_at = now()`,
		string(stream), nextPage,
	)
	if err != nil {
		return fmt.Errorf("set cursor: %w", err)
	}
	return nil
}

// Clear borra el cursor (fin de colección observado).
func (r *CursorRepo) Clear(ctx context.Context, stream entity.Stream) error {
	_, err := r.q.Exec(ctx, `DELETE FROM sync_cursors WHERE stream = $1`, string(stream))
	if err != nil {
		return fmt.Errorf("clear cursor: %w", err)
	}
	return nil
}
