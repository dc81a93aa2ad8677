package repository

import (
	"context"

	"github.com/tu-usuario/margin-sync/internal/domain/entity"
)

// SchedulerStateRepository puerto del estado persistido del auto-sync.
// Hay una sola fila de estado; Get de un estado nunca guardado devuelve el
// estado cero (inactivo, stream warehouse).
type SchedulerStateRepository interface {
	Get(ctx context.Context) (*entity.SchedulerState, error)
	Save(ctx context.Context, state *entity.SchedulerState) error
}
