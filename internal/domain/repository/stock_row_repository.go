package repository

import (
	"context"

	"github.com/tu-usuario/margin-sync/internal/domain/entity"
)

// ReconcileResult conteo de una reconciliación upsert: cuántas filas se
// agregaron y cuántas se sobreescribieron. Nunca se borran filas (las
// eliminaciones en el origen no se propagan).
type ReconcileResult struct {
	New     int
	Updated int
}

// StockRowRepository puerto de persistencia para las filas de almacén (DIP).
type StockRowRepository interface {
	// ListAll devuelve todas las filas almacenadas; alimenta el índice de costos.
	ListAll(ctx context.Context) ([]*entity.StockRow, error)
	// ExistingKeys devuelve el conjunto de claves compuestas ya almacenadas.
	ExistingKeys(ctx context.Context) (map[entity.RowKey]struct{}, error)
	// Count cuenta las filas almacenadas; desambigua un cursor ausente.
	Count(ctx context.Context) (int, error)
	// Reconcile hace upsert del lote por clave compuesta en escrituras por lotes.
	Reconcile(ctx context.Context, rows []*entity.StockRow) (ReconcileResult, error)
}
