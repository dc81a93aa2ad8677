package repository

import (
	"context"

	"github.com/tu-usuario/margin-sync/internal/domain/entity"
)

// SyncRunRepository puerto del log de auditoría de corridas.
type SyncRunRepository interface {
	Create(ctx context.Context, run *entity.SyncRun) error
	// ListRecent devuelve las últimas corridas, más reciente primero.
	ListRecent(ctx context.Context, limit int) ([]*entity.SyncRun, error)
}
