package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/margin-sync/internal/domain/entity"
	"github.com/tu-usuario/margin-sync/internal/domain/repository"
)

var _ repository.ProductRowRepository = (*ProductRowRepo)(nil)

// ProductRowRepo adaptador de persistencia para el catálogo de productos.
type ProductRowRepo struct {
	q Querier
}

// NewProductRowRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRowRepository(q Querier) *ProductRowRepo {
	return &ProductRowRepo{q: q}
}

// ExistingKeys claves ya almacenadas (la parte de línea va en cero).
func (r *ProductRowRepo) ExistingKeys(ctx context.Context) (map[entity.RowKey]struct{}, error) {
	return scanKeys(ctx, r.q, `SELECT product_id, 0 FROM product_rows`)
}

// Count filas almacenadas.
func (r *ProductRowRepo) Count(ctx context.Context) (int, error) {
	return scanCount(ctx, r.q, `SELECT count(*) FROM product_rows`)
}

// Reconcile upsert del lote por ID de producto con escrituras por lotes.
func (r *ProductRowRepo) Reconcile(ctx context.Context, incoming []*entity.ProductRow) (repository.ReconcileResult, error) {
	var res repository.ReconcileResult
	if len(incoming) == 0 {
		return res, nil
	}
	existing, err := r.ExistingKeys(ctx)
	if err != nil {
		return res, err
	}

	batch := &pgx.Batch{}
	for _, row := range incoming {
		args := []any{
			row.ProductID, row.Code, row.Name, row.Brand, row.Model, row.Color, row.Size,
			row.PriceNet, row.PriceGross, row.Currency, row.UpdatedAt,
		}
		if _, ok := existing[row.Key()]; ok {
			batch.Queue(`UPDATE product_rows SET
				code = $2, name = $3, brand = $4, model = $5, color = $6, size = $7,
				price_net = $8, price_gross = $9, currency = $10, updated_at = $11
				WHERE product_id = $1`, args...)
			res.Updated++
		} else {
			batch.Queue(`INSERT INTO product_rows (product_id, code, name, brand, model, color, size, price_net, price_gross, currency, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`, args...)
			res.New++
			existing[row.Key()] = struct{}{}
		}
	}

	if err := flushBatch(ctx, r.q, batch); err != nil {
		return repository.ReconcileResult{}, fmt.Errorf("reconcile product rows: %w", err)
	}
	return res, nil
}
