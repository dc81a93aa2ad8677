package repository

import (
	"context"

	"github.com/tu-usuario/margin-sync/internal/domain/catalog"
)

// ReferenceRepository puerto de las tablas estáticas de referencia
// (marca → nombre, almacén → nombre). Se cargan una vez por corrida y se
// tratan como solo lectura; el sembrado es externo a este sistema.
type ReferenceRepository interface {
	LoadBrands(ctx context.Context) (catalog.BrandTable, error)
	LoadWarehouseNames(ctx context.Context) (map[int64]string, error)
}
