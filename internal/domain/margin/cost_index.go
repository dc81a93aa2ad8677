package margin

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/margin-sync/internal/domain/entity"
)

// Key clave del índice de costos: (documento origen, producto).
type Key struct {
	DocumentID int64
	ProductID  int64
}

// CostEntry costo unitario realizado de un producto en un documento de
// salida de almacén.
type CostEntry struct {
	CostNet          decimal.Decimal
	SourceDocumentID int64
}

// Index índice efímero de costos, reconstruido desde el almacenamiento al
// inicio de cada corrida de ventas. Nunca se mantiene incrementalmente ni se
// mezcla entre corridas: el stream de almacén avanza por su cuenta y un
// índice viejo daría costos obsoletos.
type Index map[Key]CostEntry

// BuildIndex una sola pasada por las filas de almacén almacenadas. Entran
// solo las filas de documentos de salida (WZ); las que no tienen documento o
// producto se descartan.
func BuildIndex(rows []*entity.StockRow) Index {
	idx := make(Index, len(rows))
	for _, r := range rows {
		if !r.Outbound() {
			continue
		}
		if r.DocumentID == 0 || r.ProductID == 0 {
			continue
		}
		idx[Key{DocumentID: r.DocumentID, ProductID: r.ProductID}] = CostEntry{
			CostNet:          r.UnitCostNet,
			SourceDocumentID: r.DocumentID,
		}
	}
	return idx
}

// Lookup busca la entrada de costo para (documento, producto).
func (i Index) Lookup(documentID, productID int64) (CostEntry, bool) {
	e, ok := i[Key{DocumentID: documentID, ProductID: productID}]
	return e, ok
}
