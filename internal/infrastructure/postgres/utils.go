package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/margin-sync/internal/domain/entity"
)

// scanKeys lee un conjunto de claves compuestas (document_id, line_id).
func scanKeys(ctx context.Context, q Querier, sql string) (map[entity.RowKey]struct{}, error) {
	rows, err := q.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("existing keys: %w", err)
	}
	defer rows.Close()

	keys := make(map[entity.RowKey]struct{})
	for rows.Next() {
		var k entity.RowKey
		if err := rows.Scan(&k.DocumentID, &k.LineID); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys[k] = struct{}{}
	}
	return keys, rows.Err()
}

// scanCount lee un count(*).
func scanCount(ctx context.Context, q Querier, sql string) (int, error) {
	var n int
	if err := q.QueryRow(ctx, sql).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

// flushBatch manda el batch dentro de una transacción y consume cada
// resultado; un fallo en cualquier sentencia revierte todo el lote.
func flushBatch(ctx context.Context, q Querier, batch *pgx.Batch) error {
	if batch.Len() == 0 {
		return nil
	}
	tx, err := q.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("batch stmt %d: %w", i, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
