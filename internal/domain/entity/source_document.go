package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/margin-sync/internal/domain"
)

// Tipos de documento de almacén según el API de facturación.
// Solo los WZ (salida externa) reflejan un costo de compra realizado y
// alimentan el índice de costos.
const (
	WarehouseKindOutbound = "WZ" // salida externa
	WarehouseKindInbound  = "PZ" // entrada externa
	WarehouseKindTransfer = "MM" // traslado entre almacenes
)

// StockAction una línea anidada de un documento de almacén: movimiento de
// un producto con su costo de compra en la moneda original.
type StockAction struct {
	ID                 int64
	ProductID          int64
	ProductName        string
	Quantity           decimal.Decimal
	PurchaseCurrency   string          // "PLN", "EUR", ...
	ExchangeRate       decimal.Decimal // tasa a moneda base almacenada en el documento
	TotalPurchaseNet   decimal.Decimal // en PurchaseCurrency
	TotalPurchaseGross decimal.Decimal
}

// StockDocument un documento de almacén completo (con sus acciones anidadas).
// El listado del API devuelve resúmenes sin acciones; el detalle se obtiene
// con una segunda llamada por ID.
type StockDocument struct {
	ID          int64
	Kind        string // WZ, PZ, MM
	Number      string
	Date        time.Time
	WarehouseID int64
	Actions     []StockAction
}

// Validate falla en la construcción si faltan identificadores requeridos,
// en lugar de fallar después en el acceso a campos.
func (d *StockDocument) Validate() error {
	if d.ID == 0 || d.Kind == "" {
		return domain.ErrInvalidDocument
	}
	return nil
}

// SalePosition una línea de venta dentro de un documento de ventas.
type SalePosition struct {
	ID              int64
	ProductID       int64
	ProductName     string
	Quantity        decimal.Decimal
	TotalPriceNet   decimal.Decimal
	TotalPriceGross decimal.Decimal
}

// SaleDocument un documento de ventas (recibo, factura, corrección o pedido)
// con sus líneas anidadas.
type SaleDocument struct {
	ID        int64
	Kind      string // receipt, correction, vat, order
	Number    string // legible, ej. "123/2024" o "ZW 4/2024"
	Date      time.Time
	Positions []SalePosition
}

// Validate falla si faltan identificadores requeridos.
func (d *SaleDocument) Validate() error {
	if d.ID == 0 || d.Kind == "" {
		return domain.ErrInvalidDocument
	}
	return nil
}

// CatalogProduct un producto del catálogo del API (stream de productos).
type CatalogProduct struct {
	ID         int64
	Code       string
	Name       string
	PriceNet   decimal.Decimal
	PriceGross decimal.Decimal
	Currency   string
	UpdatedAt  time.Time
}

// Validate falla si falta el ID.
func (p *CatalogProduct) Validate() error {
	if p.ID == 0 {
		return domain.ErrInvalidDocument
	}
	return nil
}
