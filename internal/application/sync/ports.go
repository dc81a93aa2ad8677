package sync

import (
	"context"

	"github.com/tu-usuario/margin-sync/internal/domain/entity"
)

// DocumentFetcher puerto del API de facturación. La implementación aplica el
// límite global de llamadas por minuto y el reintento con backoff; los casos
// de uso solo ven páginas ya validadas.
//
// Fin de colección: una página con menos de PageSize registros (o vacía).
type DocumentFetcher interface {
	// FetchProductsPage devuelve una página del catálogo de productos.
	FetchProductsPage(ctx context.Context, page int) ([]*entity.CatalogProduct, error)

	// FetchStockDocumentsPage devuelve resúmenes de documentos de almacén
	// (sin acciones anidadas; el listado del API no las incluye).
	FetchStockDocumentsPage(ctx context.Context, page int) ([]*entity.StockDocument, error)

	// FetchStockDocument devuelve el documento completo con sus acciones.
	FetchStockDocument(ctx context.Context, id int64) (*entity.StockDocument, error)

	// FetchSalesPage devuelve una página de documentos de venta con líneas.
	FetchSalesPage(ctx context.Context, page int) ([]*entity.SaleDocument, error)

	// PageSize registros máximos por página del API.
	PageSize() int
}
