package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/margin-sync/internal/domain/entity"
	"github.com/tu-usuario/margin-sync/internal/domain/repository"
)

var _ repository.StockRowRepository = (*StockRowRepo)(nil)

// StockRowRepo adaptador de persistencia para filas de almacén (pool o tx).
type StockRowRepo struct {
	q Querier
}

// NewStockRowRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockRowRepository(q Querier) *StockRowRepo {
	return &StockRowRepo{q: q}
}

const stockRowColumns = `document_id, action_id, document_number, document_kind, date,
	warehouse_id, warehouse_name, product_id, product_name, quantity,
	unit_cost_net, total_net, total_gross, currency, exchange_rate`

// ListAll devuelve todas las filas almacenadas (alimenta el índice de costos).
func (r *StockRowRepo) ListAll(ctx context.Context) ([]*entity.StockRow, error) {
	rows, err := r.q.Query(ctx, `SELECT `+stockRowColumns+` FROM stock_rows`)
	if err != nil {
		return nil, fmt.Errorf("list stock rows: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockRow
	for rows.Next() {
		var sr entity.StockRow
		if err := rows.Scan(
			&sr.DocumentID, &sr.ActionID, &sr.DocumentNumber, &sr.DocumentKind, &sr.Date,
			&sr.WarehouseID, &sr.WarehouseName, &sr.ProductID, &sr.ProductName, &sr.Quantity,
			&sr.UnitCostNet, &sr.TotalNet, &sr.TotalGross, &sr.Currency, &sr.ExchangeRate,
		); err != nil {
			return nil, fmt.Errorf("scan stock row: %w", err)
		}
		list = append(list, &sr)
	}
	return list, rows.Err()
}

// ExistingKeys conjunto de claves compuestas ya almacenadas.
func (r *StockRowRepo) ExistingKeys(ctx context.Context) (map[entity.RowKey]struct{}, error) {
	return scanKeys(ctx, r.q, `SELECT document_id, action_id FROM stock_rows`)
}

// Count filas almacenadas.
func (r *StockRowRepo) Count(ctx context.Context) (int, error) {
	return scanCount(ctx, r.q, `SELECT count(*) FROM stock_rows`)
}

// Reconcile upsert del lote por clave compuesta. Las filas cuya clave ya
// existe se sobreescriben completas; el resto se inserta. Todo va en una
// transacción con escrituras por lotes (pgx.Batch), nunca fila a fila.
func (r *StockRowRepo) Reconcile(ctx context.Context, incoming []*entity.StockRow) (repository.ReconcileResult, error) {
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
			row.DocumentID, row.ActionID, row.DocumentNumber, row.DocumentKind, row.Date,
			row.WarehouseID, row.WarehouseName, row.ProductID, row.ProductName, row.Quantity,
			row.UnitCostNet, row.TotalNet, row.TotalGross, row.Currency, row.ExchangeRate,
		}
		if _, ok := existing[row.Key()]; ok {
			batch.Queue(`UPDATE stock_rows SET
				document_number = $3, document_kind = $4, date = $5,
				warehouse_id = $6, warehouse_name = $7, product_id = $8, product_name = $9, quantity = $10,
				unit_cost_net = $11, total_net = $12, total_gross = $13, currency = $14, exchange_rate = $15
				WHERE document_id = $1 AND action_id = $2`, args...)
			res.Updated++
		} else {
			batch.Queue(`INSERT INTO stock_rows (`+stockRowColumns+`)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`, args...)
			res.New++
			existing[row.Key()] = struct{}{}
		}
	}

	if err := flushBatch(ctx, r.q, batch); err != nil {
		return repository.ReconcileResult{}, fmt.Errorf("reconcile stock rows: %w", err)
	}
	return res, nil
}
