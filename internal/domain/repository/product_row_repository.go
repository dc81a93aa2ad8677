package repository

import (
	"context"

	"github.com/tu-usuario/margin-sync/internal/domain/entity"
)

// ProductRowRepository puerto de persistencia para el catálogo de productos.
type ProductRowRepository interface {
	ExistingKeys(ctx context.Context) (map[entity.RowKey]struct{}, error)
	Count(ctx context.Context) (int, error)
	Reconcile(ctx context.Context, rows []*entity.ProductRow) (ReconcileResult, error)
}
