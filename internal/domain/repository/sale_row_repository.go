package repository

import (
	"context"

	"github.com/tu-usuario/margin-sync/internal/domain/entity"
)

// SaleRowRepository puerto de persistencia para las filas de ventas (DIP).
type SaleRowRepository interface {
	ListAll(ctx context.Context) ([]*entity.SaleRow, error)
	ExistingKeys(ctx context.Context) (map[entity.RowKey]struct{}, error)
	Count(ctx context.Context) (int, error)
	Reconcile(ctx context.Context, rows []*entity.SaleRow) (ReconcileResult, error)
	// UpdateMargins reescribe solo las celdas de costo y margen de filas ya
	// almacenadas (ruta de reparación, sin llamadas nuevas al API).
	UpdateMargins(ctx context.Context, rows []*entity.SaleRow) (int, error)
}
