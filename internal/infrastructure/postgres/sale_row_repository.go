package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/margin-sync/internal/domain/entity"
	"github.com/tu-usuario/margin-sync/internal/domain/repository"
)

var _ repository.SaleRowRepository = (*SaleRowRepo)(nil)

// SaleRowRepo adaptador de persistencia para filas de venta (pool o tx).
type SaleRowRepo struct {
	q Querier
}

// NewSaleRowRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRowRepository(q Querier) *SaleRowRepo {
	return &SaleRowRepo{q: q}
}

const saleRowColumns = `document_id, position_id, number, kind, type, channel, date,
	product_id, product_name, brand, model, color, size,
	quantity, total_net, total_gross, cost_known, cost_net, margin_amount, margin_percent`

// ListAll devuelve todas las filas de venta (ruta de recalculo de márgenes).
func (r *SaleRowRepo) ListAll(ctx context.Context) ([]*entity.SaleRow, error) {
	rows, err := r.q.Query(ctx, `SELECT `+saleRowColumns+` FROM sale_rows`)
	if err != nil {
		return nil, fmt.Errorf("list sale rows: %w", err)
	}
	defer rows.Close()

	var list []*entity.SaleRow
	for rows.Next() {
		var sr entity.SaleRow
		if err := rows.Scan(
			&sr.DocumentID, &sr.PositionID, &sr.Number, &sr.Kind, &sr.Type, &sr.Channel, &sr.Date,
			&sr.ProductID, &sr.ProductName, &sr.Brand, &sr.Model, &sr.Color, &sr.Size,
			&sr.Quantity, &sr.TotalNet, &sr.TotalGross, &sr.CostKnown, &sr.CostNet, &sr.MarginAmount, &sr.MarginPercent,
		); err != nil {
			return nil, fmt.Errorf("scan sale row: %w", err)
		}
		list = append(list, &sr)
	}
	return list, rows.Err()
}

// ExistingKeys conjunto de claves compuestas ya almacenadas.
func (r *SaleRowRepo) ExistingKeys(ctx context.Context) (map[entity.RowKey]struct{}, error) {
	return scanKeys(ctx, r.q, `SELECT document_id, position_id FROM sale_rows`)
}

// Count filas almacenadas.
func (r *SaleRowRepo) Count(ctx context.Context) (int, error) {
	return scanCount(ctx, r.q, `SELECT count(*) FROM sale_rows`)
}

// Reconcile upsert del lote por clave compuesta con escrituras por lotes.
func (r *SaleRowRepo) Reconcile(ctx context.Context, incoming []*entity.SaleRow) (repository.ReconcileResult, error) {
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
			row.DocumentID, row.PositionID, row.Number, row.Kind, row.Type, row.Channel, row.Date,
			row.ProductID, row.ProductName, row.Brand, row.Model, row.Color, row.Size,
			row.Quantity, row.TotalNet, row.TotalGross, row.CostKnown, row.CostNet, row.MarginAmount, row.MarginPercent,
		}
		if _, ok := existing[row.Key()]; ok {
			batch.Queue(`UPDATE sale_rows SET
				number = $3, kind = $4, type = $5, channel = $6, date = $7,
				product_id = $8, product_name = $9, brand = $10, model = $11, color = $12, size = $13,
				quantity = $14, total_net = $15, total_gross = $16,
				cost_known = $17, cost_net = $18, margin_amount = $19, margin_percent = $20
				WHERE document_id = $1 AND position_id = $2`, args...)
			res.Updated++
		} else {
			batch.Queue(`INSERT INTO sale_rows (`+saleRowColumns+`)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`, args...)
			res.New++
			existing[row.Key()] = struct{}{}
		}
	}

	if err := flushBatch(ctx, r.q, batch); err != nil {
		return repository.ReconcileResult{}, fmt.Errorf("reconcile sale rows: %w", err)
	}
	return res, nil
}

// UpdateMargins reescribe solo las celdas de costo y margen de filas ya
// almacenadas; no inserta ni borra nada.
func (r *SaleRowRepo) UpdateMargins(ctx context.Context, rows []*entity.SaleRow) (int, error) {
	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(`UPDATE sale_rows SET cost_known = $3, cost_net = $4, margin_amount = $5, margin_percent = $6
			WHERE document_id = $1 AND position_id = $2`,
			row.DocumentID, row.PositionID, row.CostKnown, row.CostNet, row.MarginAmount, row.MarginPercent,
		)
	}
	if err := flushBatch(ctx, r.q, batch); err != nil {
		return 0, fmt.Errorf("update margins: %w", err)
	}
	return batch.Len(), nil
}
