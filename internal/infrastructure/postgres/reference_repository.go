package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/margin-sync/internal/domain/catalog"
	"github.com/tu-usuario/margin-sync/internal/domain/repository"
)

var _ repository.ReferenceRepository = (*ReferenceRepo)(nil)

// ReferenceRepo tablas estáticas de referencia (brands, warehouses).
// Solo lectura; el sembrado es externo a este sistema.
type ReferenceRepo struct {
	q Querier
}

// NewReferenceRepository construye el adaptador.
func NewReferenceRepository(q Querier) *ReferenceRepo {
	return &ReferenceRepo{q: q}
}

// LoadBrands tabla marca → nombre para mostrar.
func (r *ReferenceRepo) LoadBrands(ctx context.Context) (catalog.BrandTable, error) {
	rows, err := r.q.Query(ctx, `SELECT name, display_name FROM brands`)
	if err != nil {
		return nil, fmt.Errorf("load brands: %w", err)
	}
	defer rows.Close()

	table := make(catalog.BrandTable)
	for rows.Next() {
		var name, display string
		if err := rows.Scan(&name, &display); err != nil {
			return nil, fmt.Errorf("scan brand: %w", err)
		}
		table[name] = display
	}
	return table, rows.Err()
}

// LoadWarehouseNames tabla almacén → nombre para mostrar.
func (r *ReferenceRepo) LoadWarehouseNames(ctx context.Context) (map[int64]string, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name FROM warehouses`)
	if err != nil {
		return nil, fmt.Errorf("load warehouses: %w", err)
	}
	defer rows.Close()

	names := make(map[int64]string)
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		names[id] = name
	}
	return names, rows.Err()
}
