package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockRow fila plana derivada de un par (documento de almacén, acción).
// Solo se muta sobreescribiéndola completa en un re-sync; nunca se parchea
// campo a campo.
type StockRow struct {
	DocumentID     int64
	ActionID       int64
	DocumentNumber string
	DocumentKind   string // WZ, PZ, MM
	Date           time.Time
	WarehouseID    int64
	WarehouseName  string // lookup sobre la tabla de referencia; "" si no hay match
	ProductID      int64
	ProductName    string
	Quantity       decimal.Decimal
	UnitCostNet    decimal.Decimal // por unidad, ya en moneda base
	TotalNet       decimal.Decimal // en moneda base
	TotalGross     decimal.Decimal
	Currency       string // moneda original de compra
	ExchangeRate   decimal.Decimal
}

// Key clave compuesta de la fila dentro de su colección.
func (r *StockRow) Key() RowKey {
	return RowKey{DocumentID: r.DocumentID, LineID: r.ActionID}
}

// Outbound indica si la fila proviene de un documento de salida (WZ),
// el único tipo cuyo costo refleja una compra realizada.
func (r *StockRow) Outbound() bool {
	return r.DocumentKind == WarehouseKindOutbound
}
