package sync_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	syncapp "github.com/tu-usuario/margin-sync/internal/application/sync"
	"github.com/tu-usuario/margin-sync/internal/domain/catalog"
	"github.com/tu-usuario/margin-sync/internal/domain/entity"
	"github.com/tu-usuario/margin-sync/internal/domain/margin"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func testProjector() *syncapp.Projector {
	return syncapp.NewProjector(
		catalog.BrandTable{"Nike": "Nike"},
		map[int64]string{5: "Bodega Central"},
		"PLN",
	)
}

// ──────────────────────────────────────────────────────────────────────────────
// Documentos de almacén
// ──────────────────────────────────────────────────────────────────────────────

func TestProjectStockDocument_MonedaBase(t *testing.T) {
	doc := &entity.StockDocument{
		ID:          10,
		Kind:        entity.WarehouseKindOutbound,
		Number:      "WZ 1/2024",
		Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		WarehouseID: 5,
		Actions: []entity.StockAction{{
			ID:               100,
			ProductID:        7,
			ProductName:      "Nike Air - 42 - negro",
			Quantity:         d("2"),
			PurchaseCurrency: "PLN",
			ExchangeRate:     d("1"),
			TotalPurchaseNet: d("120"),
		}},
	}

	rows := testProjector().ProjectStockDocument(doc)

	require.Len(t, rows, 1)
	r := rows[0]
	assert.Equal(t, int64(10), r.DocumentID)
	assert.Equal(t, int64(100), r.ActionID)
	assert.Equal(t, "Bodega Central", r.WarehouseName)
	assert.True(t, r.TotalNet.Equal(d("120")))
	assert.True(t, r.UnitCostNet.Equal(d("60")), "costo unitario fue %s", r.UnitCostNet)
}

// Compra en EUR con tasa 4.30: los totales se llevan a moneda base antes de
// derivar el costo unitario. 10 EUR * 4.30 / 2 unidades = 21.5.
func TestProjectStockDocument_ConversionDeMoneda(t *testing.T) {
	doc := &entity.StockDocument{
		ID:   11,
		Kind: entity.WarehouseKindInbound,
		Actions: []entity.StockAction{{
			ID:                 101,
			ProductID:          7,
			Quantity:           d("2"),
			PurchaseCurrency:   "EUR",
			ExchangeRate:       d("4.30"),
			TotalPurchaseNet:   d("10"),
			TotalPurchaseGross: d("12.30"),
		}},
	}

	rows := testProjector().ProjectStockDocument(doc)

	require.Len(t, rows, 1)
	r := rows[0]
	assert.True(t, r.TotalNet.Equal(d("43")), "total neto en base fue %s", r.TotalNet)
	assert.True(t, r.TotalGross.Equal(d("52.89")))
	assert.True(t, r.UnitCostNet.Equal(d("21.5")), "costo unitario fue %s", r.UnitCostNet)
}

// El costo de una salida viene negativo en el origen; la fila lo almacena
// en valor absoluto.
func TestProjectStockDocument_CostoNegativoQuedaAbsoluto(t *testing.T) {
	doc := &entity.StockDocument{
		ID:   12,
		Kind: entity.WarehouseKindOutbound,
		Actions: []entity.StockAction{{
			ID:               102,
			ProductID:        7,
			Quantity:         d("2"),
			TotalPurchaseNet: d("-120"),
		}},
	}

	rows := testProjector().ProjectStockDocument(doc)

	require.Len(t, rows, 1)
	assert.True(t, rows[0].UnitCostNet.Equal(d("60")), "el valor absoluto, fue %s", rows[0].UnitCostNet)
}

func TestProjectStockDocument_CantidadCero_NoDivide(t *testing.T) {
	doc := &entity.StockDocument{
		ID:   13,
		Kind: entity.WarehouseKindOutbound,
		Actions: []entity.StockAction{{
			ID:               103,
			ProductID:        7,
			Quantity:         d("0"),
			TotalPurchaseNet: d("120"),
		}},
	}

	rows := testProjector().ProjectStockDocument(doc)

	require.Len(t, rows, 1)
	assert.True(t, rows[0].UnitCostNet.IsZero())
}

func TestProjectStockDocument_BodegaDesconocida_NombreVacio(t *testing.T) {
	doc := &entity.StockDocument{
		ID:          14,
		Kind:        entity.WarehouseKindTransfer,
		WarehouseID: 99,
		Actions:     []entity.StockAction{{ID: 104, ProductID: 7, Quantity: d("1")}},
	}

	rows := testProjector().ProjectStockDocument(doc)

	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].WarehouseName)
}

// ──────────────────────────────────────────────────────────────────────────────
// Documentos de venta: tipo, canal y prefijos especiales
// ──────────────────────────────────────────────────────────────────────────────

func TestSaleType_MapeoPorKind(t *testing.T) {
	p := testProjector()

	cases := map[string]string{
		"receipt":    entity.SaleTypeReceipt,
		"correction": entity.SaleTypeReturn,
		"vat":        entity.SaleTypeInvoice,
		"order":      entity.SaleTypeOrder,
	}
	for kind, want := range cases {
		doc := &entity.SaleDocument{ID: 1, Kind: kind, Number: "123/2024"}
		assert.Equal(t, want, p.SaleType(doc), "kind %s", kind)
	}
}

// Un recibo con número "ZW ..." es una devolución, por encima del mapeo
// genérico por kind.
func TestSaleType_PrefijoZWSobreRecibo(t *testing.T) {
	p := testProjector()
	doc := &entity.SaleDocument{ID: 1, Kind: "receipt", Number: "ZW 4/2024"}

	assert.Equal(t, entity.SaleTypeReturn, p.SaleType(doc))
}

// El prefijo solo aplica a recibos: una factura "ZW..." sigue siendo factura.
func TestSaleType_PrefijoZWNoAfectaFacturas(t *testing.T) {
	p := testProjector()
	doc := &entity.SaleDocument{ID: 1, Kind: "vat", Number: "ZW 4/2024"}

	assert.Equal(t, entity.SaleTypeInvoice, p.SaleType(doc))
}

func TestProjectSaleDocument_DocumentoInternoKW_SinFilas(t *testing.T) {
	doc := &entity.SaleDocument{
		ID:        1,
		Kind:      "receipt",
		Number:    "KW 9/2024",
		Positions: []entity.SalePosition{{ID: 1, ProductID: 7, Quantity: d("1"), TotalPriceNet: d("100")}},
	}

	rows := testProjector().ProjectSaleDocument(doc, nil)

	assert.Nil(t, rows, "los documentos internos de costos no generan filas")
}

func TestProjectSaleDocument_CanalPorTipo(t *testing.T) {
	p := testProjector()

	receipt := &entity.SaleDocument{ID: 1, Kind: "receipt", Number: "1/2024",
		Positions: []entity.SalePosition{{ID: 1, ProductID: 7}}}
	order := &entity.SaleDocument{ID: 2, Kind: "order", Number: "2/2024",
		Positions: []entity.SalePosition{{ID: 1, ProductID: 7}}}

	assert.Equal(t, entity.ChannelOffline, p.ProjectSaleDocument(receipt, nil)[0].Channel)
	assert.Equal(t, entity.ChannelOnline, p.ProjectSaleDocument(order, nil)[0].Channel)
}

func TestProjectSaleDocument_ParseaNombreDeProducto(t *testing.T) {
	doc := &entity.SaleDocument{
		ID:     1,
		Kind:   "vat",
		Number: "10/2024",
		Positions: []entity.SalePosition{{
			ID:          1,
			ProductID:   7,
			ProductName: "Nike Air Max - blanco, 42",
			Quantity:    d("1"),
		}},
	}

	rows := testProjector().ProjectSaleDocument(doc, nil)

	require.Len(t, rows, 1)
	assert.Equal(t, "Nike", rows[0].Brand)
	assert.Equal(t, "Air Max", rows[0].Model)
	assert.Equal(t, "blanco", rows[0].Color)
	assert.Equal(t, "42", rows[0].Size)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cruce con el índice de costos
// ──────────────────────────────────────────────────────────────────────────────

func TestProjectSaleDocument_ConCosto_CalculaMargen(t *testing.T) {
	idx := margin.Index{
		{DocumentID: 1, ProductID: 7}: {CostNet: d("60"), SourceDocumentID: 1},
	}
	doc := &entity.SaleDocument{
		ID:     1,
		Kind:   "receipt",
		Number: "1/2024",
		Positions: []entity.SalePosition{{
			ID: 1, ProductID: 7, Quantity: d("1"), TotalPriceNet: d("100"),
		}},
	}

	rows := testProjector().ProjectSaleDocument(doc, idx)

	require.Len(t, rows, 1)
	r := rows[0]
	require.True(t, r.CostKnown)
	assert.True(t, r.CostNet.Decimal.Equal(d("60")))
	assert.True(t, r.MarginAmount.Decimal.Equal(d("40")))
	assert.True(t, r.MarginPercent.Decimal.Equal(d("40")))
}

// Sin entrada en el índice la fila se almacena igual, con los campos de
// margen ausentes.
func TestProjectSaleDocument_SinCosto_FilaSinMargen(t *testing.T) {
	doc := &entity.SaleDocument{
		ID:     1,
		Kind:   "receipt",
		Number: "1/2024",
		Positions: []entity.SalePosition{{
			ID: 1, ProductID: 7, Quantity: d("1"), TotalPriceNet: d("100"),
		}},
	}

	rows := testProjector().ProjectSaleDocument(doc, margin.Index{})

	require.Len(t, rows, 1)
	r := rows[0]
	assert.False(t, r.CostKnown)
	assert.False(t, r.CostNet.Valid, "el costo debe quedar ausente, no en cero")
	assert.False(t, r.MarginAmount.Valid)
}

// Las devoluciones no pasan por el cálculo de margen aunque el costo exista.
func TestProjectSaleDocument_DevolucionSinMargen(t *testing.T) {
	idx := margin.Index{
		{DocumentID: 1, ProductID: 7}: {CostNet: d("60"), SourceDocumentID: 1},
	}
	doc := &entity.SaleDocument{
		ID:     1,
		Kind:   "correction",
		Number: "5/2024",
		Positions: []entity.SalePosition{{
			ID: 1, ProductID: 7, Quantity: d("1"), TotalPriceNet: d("100"),
		}},
	}

	rows := testProjector().ProjectSaleDocument(doc, idx)

	require.Len(t, rows, 1)
	assert.False(t, rows[0].CostKnown)
	assert.False(t, rows[0].MarginAmount.Valid)
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo de productos
// ──────────────────────────────────────────────────────────────────────────────

func TestProjectCatalogProduct(t *testing.T) {
	prod := &entity.CatalogProduct{
		ID:       7,
		Code:     "NK-042",
		Name:     "Nike Pegasus - 40 - azul",
		PriceNet: d("250"),
		Currency: "PLN",
	}

	row := testProjector().ProjectCatalogProduct(prod)

	assert.Equal(t, int64(7), row.ProductID)
	assert.Equal(t, "Nike", row.Brand)
	assert.Equal(t, "Pegasus", row.Model)
	assert.Equal(t, "40", row.Size)
	assert.Equal(t, "azul", row.Color)
}
