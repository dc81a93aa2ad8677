package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductRow fila del catálogo de productos sincronizado. A diferencia de las
// filas de almacén y ventas, su clave es el ID del producto (sin línea).
type ProductRow struct {
	ProductID  int64
	Code       string
	Name       string
	Brand      string
	Model      string
	Color      string
	Size       string
	PriceNet   decimal.Decimal
	PriceGross decimal.Decimal
	Currency   string
	UpdatedAt  time.Time
}

// Key clave de la fila; la parte de línea queda en cero.
func (r *ProductRow) Key() RowKey {
	return RowKey{DocumentID: r.ProductID}
}
