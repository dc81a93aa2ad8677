package sync

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/margin-sync/internal/domain/catalog"
	"github.com/tu-usuario/margin-sync/internal/domain/entity"
	"github.com/tu-usuario/margin-sync/internal/domain/margin"
)

// Prefijos de número de documento con significado especial en el origen.
const (
	// DefaultReturnPrefix un recibo cuyo número legible empieza así es en
	// realidad una devolución, por encima del mapeo genérico kind → tipo.
	DefaultReturnPrefix = "ZW"
	// DefaultInternalPrefix documentos internos de costos; no generan filas.
	DefaultInternalPrefix = "KW"
)

// typeByKind mapeo genérico kind del API → tipo de venta.
var typeByKind = map[string]string{
	"receipt":    entity.SaleTypeReceipt,
	"correction": entity.SaleTypeReturn,
	"vat":        entity.SaleTypeInvoice,
	"order":      entity.SaleTypeOrder,
}

// Projector expande un documento del origen en cero o más filas planas,
// aplicando parsing de nombres y los lookups de referencia cargados una vez
// por corrida.
type Projector struct {
	Brands         catalog.BrandTable
	WarehouseNames map[int64]string
	BaseCurrency   string
	ReturnPrefix   string
	InternalPrefix string
}

// NewProjector construye el proyector con los prefijos por defecto.
func NewProjector(brands catalog.BrandTable, warehouseNames map[int64]string, baseCurrency string) *Projector {
	return &Projector{
		Brands:         brands,
		WarehouseNames: warehouseNames,
		BaseCurrency:   baseCurrency,
		ReturnPrefix:   DefaultReturnPrefix,
		InternalPrefix: DefaultInternalPrefix,
	}
}

// ProjectStockDocument emite una fila por acción anidada, normalizando el
// costo a moneda base: si la compra no fue en moneda base, los totales se
// multiplican por la tasa de cambio guardada en la acción.
//
//	unit_cost = abs(total_net_en_base / cantidad)
//
// Con cantidad cero el costo unitario queda en cero, no se divide.
func (p *Projector) ProjectStockDocument(doc *entity.StockDocument) []*entity.StockRow {
	rows := make([]*entity.StockRow, 0, len(doc.Actions))
	for i := range doc.Actions {
		a := &doc.Actions[i]
		totalNet := a.TotalPurchaseNet
		totalGross := a.TotalPurchaseGross
		if a.PurchaseCurrency != "" && a.PurchaseCurrency != p.BaseCurrency {
			totalNet = totalNet.Mul(a.ExchangeRate)
			totalGross = totalGross.Mul(a.ExchangeRate)
		}
		unitCost := decimal.Zero
		if !a.Quantity.IsZero() {
			unitCost = totalNet.Div(a.Quantity).Abs()
		}
		rows = append(rows, &entity.StockRow{
			DocumentID:     doc.ID,
			ActionID:       a.ID,
			DocumentNumber: doc.Number,
			DocumentKind:   doc.Kind,
			Date:           doc.Date,
			WarehouseID:    doc.WarehouseID,
			WarehouseName:  p.WarehouseNames[doc.WarehouseID], // "" si no hay match
			ProductID:      a.ProductID,
			ProductName:    a.ProductName,
			Quantity:       a.Quantity,
			UnitCostNet:    unitCost,
			TotalNet:       totalNet,
			TotalGross:     totalGross,
			Currency:       a.PurchaseCurrency,
			ExchangeRate:   a.ExchangeRate,
		})
	}
	return rows
}

// SaleType resuelve el tipo de venta de un documento: mapeo por kind con la
// excepción del prefijo de devolución sobre recibos.
func (p *Projector) SaleType(doc *entity.SaleDocument) string {
	saleType := typeByKind[doc.Kind]
	if saleType == entity.SaleTypeReceipt && strings.HasPrefix(doc.Number, p.ReturnPrefix) {
		saleType = entity.SaleTypeReturn
	}
	return saleType
}

// IsInternal indica si el documento es un documento interno de costos.
// Se comprueba antes de iterar líneas para no hacer trabajo inútil.
func (p *Projector) IsInternal(doc *entity.SaleDocument) bool {
	return strings.HasPrefix(doc.Number, p.InternalPrefix)
}

// ProjectSaleDocument emite una fila por línea de venta. Devuelve nil para
// documentos internos. El índice de costos puede ser nil (por ejemplo en un
// re-proyectado sin márgenes); en ese caso todas las filas quedan sin costo.
//
// Las devoluciones no pasan por el cálculo de margen aunque exista un costo:
// representan una reversión, no un margen realizado.
func (p *Projector) ProjectSaleDocument(doc *entity.SaleDocument, costIdx margin.Index) []*entity.SaleRow {
	if p.IsInternal(doc) {
		return nil
	}
	saleType := p.SaleType(doc)
	channel := entity.ChannelForType(saleType)

	rows := make([]*entity.SaleRow, 0, len(doc.Positions))
	for i := range doc.Positions {
		pos := &doc.Positions[i]
		parsed := catalog.ParseProductName(pos.ProductName, p.Brands)

		row := &entity.SaleRow{
			DocumentID:  doc.ID,
			PositionID:  pos.ID,
			Number:      doc.Number,
			Kind:        doc.Kind,
			Type:        saleType,
			Channel:     channel,
			Date:        doc.Date,
			ProductID:   pos.ProductID,
			ProductName: pos.ProductName,
			Brand:       parsed.Brand,
			Model:       parsed.Model,
			Color:       parsed.Color,
			Size:        parsed.Size,
			Quantity:    pos.Quantity,
			TotalNet:    pos.TotalPriceNet,
			TotalGross:  pos.TotalPriceGross,
		}
		applyMargin(row, costIdx)
		rows = append(rows, row)
	}
	return rows
}

// ProjectCatalogProduct proyecta un producto del catálogo a su fila,
// aplicando el mismo parser de nombres que las ventas.
func (p *Projector) ProjectCatalogProduct(prod *entity.CatalogProduct) *entity.ProductRow {
	parsed := catalog.ParseProductName(prod.Name, p.Brands)
	return &entity.ProductRow{
		ProductID:  prod.ID,
		Code:       prod.Code,
		Name:       prod.Name,
		Brand:      parsed.Brand,
		Model:      parsed.Model,
		Color:      parsed.Color,
		Size:       parsed.Size,
		PriceNet:   prod.PriceNet,
		PriceGross: prod.PriceGross,
		Currency:   prod.Currency,
		UpdatedAt:  prod.UpdatedAt,
	}
}

// applyMargin cruza la fila con el índice de costos y escribe el resultado.
// Sin entrada de costo la fila se almacena igual, solo que con CostKnown en
// false y los campos numéricos ausentes (NULL, no cero).
func applyMargin(row *entity.SaleRow, costIdx margin.Index) {
	if row.IsReturn() || costIdx == nil {
		return
	}
	entry, ok := costIdx.Lookup(row.DocumentID, row.ProductID)
	if !ok {
		return
	}
	res := margin.Compute(row.Quantity, row.TotalNet, &entry)
	row.CostKnown = true
	row.CostNet = decimal.NewNullDecimal(res.CostNet)
	row.MarginAmount = decimal.NewNullDecimal(res.Amount)
	row.MarginPercent = decimal.NewNullDecimal(res.Percent)
}
