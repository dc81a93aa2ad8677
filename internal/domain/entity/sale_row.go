package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de venta resultantes del mapeo por kind. Dos son offline (punto de
// venta físico) y dos online; la derivación de canal es fija, no configurable.
const (
	SaleTypeReceipt = "receipt" // recibo de caja
	SaleTypeReturn  = "return"  // devolución o corrección
	SaleTypeInvoice = "invoice" // factura
	SaleTypeOrder   = "order"   // pedido
)

// Canales de venta.
const (
	ChannelOffline = "offline"
	ChannelOnline  = "online"
)

// ChannelForType deriva el canal a partir del tipo de venta.
func ChannelForType(saleType string) string {
	switch saleType {
	case SaleTypeReceipt, SaleTypeReturn:
		return ChannelOffline
	case SaleTypeInvoice, SaleTypeOrder:
		return ChannelOnline
	}
	return ""
}

// SaleRow fila plana derivada de un par (documento de venta, línea).
// Los campos de margen usan decimal.NullDecimal: cuando no hay costo
// conocido quedan ausentes (NULL), no en cero, y la fila se excluye de la
// agregación de márgenes aguas abajo.
type SaleRow struct {
	DocumentID  int64
	PositionID  int64
	Number      string
	Kind        string
	Type        string // receipt, return, invoice, order
	Channel     string // offline, online
	Date        time.Time
	ProductID   int64
	ProductName string
	Brand       string
	Model       string
	Color       string
	Size        string
	Quantity    decimal.Decimal
	TotalNet    decimal.Decimal
	TotalGross  decimal.Decimal

	CostKnown     bool
	CostNet       decimal.NullDecimal // costo unitario realizado
	MarginAmount  decimal.NullDecimal
	MarginPercent decimal.NullDecimal
}

// Key clave compuesta de la fila dentro de su colección.
func (r *SaleRow) Key() RowKey {
	return RowKey{DocumentID: r.DocumentID, LineID: r.PositionID}
}

// IsReturn indica si la fila representa una reversión (devolución o
// corrección); estas filas nunca entran al cálculo de margen.
func (r *SaleRow) IsReturn() bool {
	return r.Type == SaleTypeReturn
}
