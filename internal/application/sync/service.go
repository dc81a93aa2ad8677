package sync

import (
	"context"
	"fmt"
	stdsync "sync"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/margin-sync/internal/application/dto"
	"github.com/tu-usuario/margin-sync/internal/domain"
	"github.com/tu-usuario/margin-sync/internal/domain/entity"
	"github.com/tu-usuario/margin-sync/internal/domain/margin"
	"github.com/tu-usuario/margin-sync/internal/domain/repository"
	"github.com/tu-usuario/margin-sync/pkg/logger"
)

// DefaultBatchSize documentos no sincronizados por invocación. Acotado de
// forma conservadora: cada invocación debe caber dentro del presupuesto de
// tiempo externo, incluyendo los sleeps del limitador de llamadas.
const DefaultBatchSize = 60

// Service orquesta lotes acotados de sincronización por stream.
//
// Máquina de estados por stream: NOT_STARTED → IN_PROGRESS → COMPLETE.
// En cada invocación: leer cursor, traer páginas hasta acumular el lote o
// ver el fin de la colección, proyectar, reconciliar por upsert y avanzar o
// borrar el cursor. El orden entre streams (warehouse antes que sales) lo
// decide el caller; ver SyncAll.
type Service struct {
	mu           stdsync.Mutex // una sola corrida a la vez; el cliente del API no es thread-safe
	fetcher      DocumentFetcher
	products     repository.ProductRowRepository
	stock        repository.StockRowRepository
	sales        repository.SaleRowRepository
	cursors      repository.CursorRepository
	runs         repository.SyncRunRepository
	refs         repository.ReferenceRepository
	log          *logger.Logger
	batchSize    int
	baseCurrency string
}

// NewService construye el orquestador.
func NewService(
	fetcher DocumentFetcher,
	products repository.ProductRowRepository,
	stock repository.StockRowRepository,
	sales repository.SaleRowRepository,
	cursors repository.CursorRepository,
	runs repository.SyncRunRepository,
	refs repository.ReferenceRepository,
	log *logger.Logger,
	batchSize int,
	baseCurrency string,
) *Service {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Service{
		fetcher:      fetcher,
		products:     products,
		stock:        stock,
		sales:        sales,
		cursors:      cursors,
		runs:         runs,
		refs:         refs,
		log:          log,
		batchSize:    batchSize,
		baseCurrency: baseCurrency,
	}
}

// SyncBatch ejecuta una unidad de trabajo acotada sobre un stream y deja un
// registro de auditoría, haya terminado bien o mal.
func (s *Service) SyncBatch(ctx context.Context, stream entity.Stream) (*dto.BatchReport, error) {
	if !stream.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if !s.mu.TryLock() {
		return nil, domain.ErrSyncRunning
	}
	defer s.mu.Unlock()
	started := time.Now()

	var report *dto.BatchReport
	var err error
	switch stream {
	case entity.StreamProducts:
		report, err = s.productsBatch(ctx)
	case entity.StreamWarehouse:
		report, err = s.warehouseBatch(ctx)
	case entity.StreamSales:
		report, err = s.salesBatch(ctx)
	}
	s.audit(ctx, stream, started, report, err)
	return report, err
}

// SyncStream corre lotes hasta completar el stream. Pensado para entornos
// sin presupuesto de tiempo por invocación (sync manual completo).
func (s *Service) SyncStream(ctx context.Context, stream entity.Stream) (*dto.BatchReport, error) {
	for {
		report, err := s.SyncBatch(ctx, stream)
		if err != nil {
			return nil, err
		}
		if report.Complete {
			return report, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
}

// SyncAll sincroniza los tres streams de forma secuencial y completa:
// productos, almacén y por último ventas. Ventas no corre si almacén falló:
// un índice de costos construido sobre un stream fallido produciría márgenes
// silenciosamente incorrectos.
func (s *Service) SyncAll(ctx context.Context) (*dto.FullSyncReport, error) {
	started := time.Now()
	full := &dto.FullSyncReport{}

	for _, stream := range []entity.Stream{entity.StreamProducts, entity.StreamWarehouse, entity.StreamSales} {
		report, err := s.SyncStream(ctx, stream)
		if err != nil {
			if stream == entity.StreamWarehouse {
				return nil, fmt.Errorf("stream %s: %w (ventas no se sincroniza)", stream, err)
			}
			return nil, fmt.Errorf("stream %s: %w", stream, err)
		}
		full.Streams = append(full.Streams, *report)
	}
	full.Duration = time.Since(started).String()
	return full, nil
}

// TestSync corre un solo lote por stream, en orden. Útil para validar
// credenciales y mapeos sin recorrer las colecciones completas.
func (s *Service) TestSync(ctx context.Context) (*dto.FullSyncReport, error) {
	started := time.Now()
	full := &dto.FullSyncReport{}
	for _, stream := range []entity.Stream{entity.StreamProducts, entity.StreamWarehouse, entity.StreamSales} {
		report, err := s.SyncBatch(ctx, stream)
		if err != nil {
			return nil, fmt.Errorf("stream %s: %w", stream, err)
		}
		full.Streams = append(full.Streams, *report)
	}
	full.Duration = time.Since(started).String()
	return full, nil
}

// Status estado observable de un stream. Un cursor ausente es ambiguo por sí
// solo; se desambigua con el conteo de filas almacenadas.
func (s *Service) Status(ctx context.Context, stream entity.Stream) (*dto.StreamStatus, error) {
	if !stream.Valid() {
		return nil, domain.ErrInvalidInput
	}
	count, err := s.storedCount(ctx, stream)
	if err != nil {
		return nil, err
	}
	cursor, err := s.cursors.Get(ctx, stream)
	if err != nil {
		return nil, err
	}
	st := &dto.StreamStatus{Stream: string(stream), StoredRows: count}
	switch {
	case cursor != nil:
		st.State = entity.SyncStateInProgress
		next := cursor.NextPage
		st.NextPage = &next
	case count > 0:
		st.State = entity.SyncStateComplete
	default:
		st.State = entity.SyncStateNotStarted
	}
	return st, nil
}

func (s *Service) storedCount(ctx context.Context, stream entity.Stream) (int, error) {
	switch stream {
	case entity.StreamProducts:
		return s.products.Count(ctx)
	case entity.StreamWarehouse:
		return s.stock.Count(ctx)
	case entity.StreamSales:
		return s.sales.Count(ctx)
	}
	return 0, domain.ErrInvalidInput
}

// ─────────────────────────────────────────────────────────────────────────────
// Lotes por stream
// ─────────────────────────────────────────────────────────────────────────────

func (s *Service) productsBatch(ctx context.Context) (*dto.BatchReport, error) {
	brands, err := s.refs.LoadBrands(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargar marcas: %w", err)
	}
	proj := NewProjector(brands, nil, s.baseCurrency)

	keys, err := s.products.ExistingKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("claves existentes: %w", err)
	}
	page, done, err := s.resolveStart(ctx, entity.StreamProducts, len(keys))
	if err != nil {
		return nil, err
	}
	if done {
		return s.completeReport(entity.StreamProducts, len(keys)), nil
	}

	var batch []*entity.ProductRow
	unsynced, pages := 0, 0
	end := false
	for unsynced < s.batchSize && !end {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		docs, err := s.fetcher.FetchProductsPage(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("página %d de productos: %w", page, err)
		}
		pages++
		for _, prod := range docs {
			// Dedup defensivo por si el cursor quedó corrido
			if _, ok := keys[entity.RowKey{DocumentID: prod.ID}]; ok {
				continue
			}
			batch = append(batch, proj.ProjectCatalogProduct(prod))
			unsynced++
		}
		if len(docs) < s.fetcher.PageSize() {
			end = true
		} else {
			page++
		}
	}

	res, err := s.products.Reconcile(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("reconciliar productos: %w", err)
	}
	if err := s.finishCursor(ctx, entity.StreamProducts, page, end); err != nil {
		return nil, err
	}
	return &dto.BatchReport{
		Stream:          string(entity.StreamProducts),
		Complete:        end,
		SyncedThisBatch: res.New + res.Updated,
		TotalSynced:     len(keys) + res.New,
		PagesVisited:    pages,
	}, nil
}

func (s *Service) warehouseBatch(ctx context.Context) (*dto.BatchReport, error) {
	warehouseNames, err := s.refs.LoadWarehouseNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargar nombres de almacén: %w", err)
	}
	proj := NewProjector(nil, warehouseNames, s.baseCurrency)

	keys, err := s.stock.ExistingKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("claves existentes: %w", err)
	}
	storedDocs := docIDSet(keys)

	page, done, err := s.resolveStart(ctx, entity.StreamWarehouse, len(keys))
	if err != nil {
		return nil, err
	}
	if done {
		return s.completeReport(entity.StreamWarehouse, len(keys)), nil
	}

	var batch []*entity.StockRow
	unsynced, pages := 0, 0
	end := false
	for unsynced < s.batchSize && !end {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		summaries, err := s.fetcher.FetchStockDocumentsPage(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("página %d de almacén: %w", page, err)
		}
		pages++
		for _, sum := range summaries {
			if _, ok := storedDocs[sum.ID]; ok {
				continue
			}
			// El listado no trae acciones anidadas; segunda llamada por ID
			doc, err := s.fetcher.FetchStockDocument(ctx, sum.ID)
			if err != nil {
				return nil, fmt.Errorf("documento de almacén %d: %w", sum.ID, err)
			}
			rows := proj.ProjectStockDocument(doc)
			if len(rows) == 0 {
				s.log.Warn().Int64("document_id", doc.ID).Str("number", doc.Number).
					Msg("documento de almacén sin acciones, omitido")
				continue
			}
			batch = append(batch, rows...)
			unsynced++
		}
		if len(summaries) < s.fetcher.PageSize() {
			end = true
		} else {
			page++
		}
	}

	res, err := s.stock.Reconcile(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("reconciliar almacén: %w", err)
	}
	if err := s.finishCursor(ctx, entity.StreamWarehouse, page, end); err != nil {
		return nil, err
	}
	return &dto.BatchReport{
		Stream:          string(entity.StreamWarehouse),
		Complete:        end,
		SyncedThisBatch: res.New + res.Updated,
		TotalSynced:     len(keys) + res.New,
		PagesVisited:    pages,
	}, nil
}

func (s *Service) salesBatch(ctx context.Context) (*dto.BatchReport, error) {
	brands, err := s.refs.LoadBrands(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargar marcas: %w", err)
	}
	proj := NewProjector(brands, nil, s.baseCurrency)

	// El índice de costos se reconstruye desde el almacenamiento actual en
	// cada lote de ventas; nunca se reutiliza entre invocaciones.
	costIdx, err := s.buildCostIndex(ctx)
	if err != nil {
		return nil, err
	}
	if cur, err := s.cursors.Get(ctx, entity.StreamWarehouse); err == nil && cur != nil {
		// Borde afilado conocido: con el almacén a medio sincronizar, las
		// ventas sin match quedan con costo desconocido, no fallan.
		s.log.Warn().Msg("el stream de almacén está incompleto; el índice de costos puede tener huecos")
	}

	keys, err := s.sales.ExistingKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("claves existentes: %w", err)
	}
	storedDocs := docIDSet(keys)

	page, done, err := s.resolveStart(ctx, entity.StreamSales, len(keys))
	if err != nil {
		return nil, err
	}
	if done {
		return s.completeReport(entity.StreamSales, len(keys)), nil
	}

	var batch []*entity.SaleRow
	unsynced, pages := 0, 0
	end := false
	for unsynced < s.batchSize && !end {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		docs, err := s.fetcher.FetchSalesPage(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("página %d de ventas: %w", page, err)
		}
		pages++
		for _, doc := range docs {
			if _, ok := storedDocs[doc.ID]; ok {
				continue
			}
			if proj.IsInternal(doc) {
				continue
			}
			rows := proj.ProjectSaleDocument(doc, costIdx)
			if len(rows) == 0 {
				s.log.Warn().Int64("document_id", doc.ID).Str("number", doc.Number).
					Msg("documento de venta sin líneas, omitido")
				continue
			}
			batch = append(batch, rows...)
			unsynced++
		}
		if len(docs) < s.fetcher.PageSize() {
			end = true
		} else {
			page++
		}
	}

	res, err := s.sales.Reconcile(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("reconciliar ventas: %w", err)
	}
	if err := s.finishCursor(ctx, entity.StreamSales, page, end); err != nil {
		return nil, err
	}
	return &dto.BatchReport{
		Stream:          string(entity.StreamSales),
		Complete:        end,
		SyncedThisBatch: res.New + res.Updated,
		TotalSynced:     len(keys) + res.New,
		PagesVisited:    pages,
	}, nil
}

func (s *Service) buildCostIndex(ctx context.Context) (margin.Index, error) {
	stockRows, err := s.stock.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("filas de almacén para el índice de costos: %w", err)
	}
	return margin.BuildIndex(stockRows), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Cursor y auditoría
// ─────────────────────────────────────────────────────────────────────────────

// resolveStart decide la página inicial del lote. Cursor ausente con filas ya
// almacenadas significa stream completo; ausente y sin filas, página 1.
func (s *Service) resolveStart(ctx context.Context, stream entity.Stream, storedRows int) (page int, complete bool, err error) {
	cursor, err := s.cursors.Get(ctx, stream)
	if err != nil {
		return 0, false, fmt.Errorf("leer cursor %s: %w", stream, err)
	}
	if cursor == nil {
		if storedRows > 0 {
			return 0, true, nil
		}
		return 1, false, nil
	}
	return cursor.NextPage, false, nil
}

// finishCursor avanza el cursor a la siguiente página por procesar, o lo
// borra si se observó el fin de la colección.
func (s *Service) finishCursor(ctx context.Context, stream entity.Stream, page int, end bool) error {
	if end {
		if err := s.cursors.Clear(ctx, stream); err != nil {
			return fmt.Errorf("borrar cursor %s: %w", stream, err)
		}
		return nil
	}
	if err := s.cursors.Set(ctx, stream, page); err != nil {
		return fmt.Errorf("avanzar cursor %s: %w", stream, err)
	}
	return nil
}

func (s *Service) completeReport(stream entity.Stream, total int) *dto.BatchReport {
	return &dto.BatchReport{Stream: string(stream), Complete: true, TotalSynced: total}
}

// audit agrega el registro de la corrida al log de auditoría y a zerolog.
// Un fallo al escribir la auditoría no tumba la corrida; solo se loguea.
func (s *Service) audit(ctx context.Context, stream entity.Stream, started time.Time, report *dto.BatchReport, runErr error) {
	run := &entity.SyncRun{
		ID:        uuid.New().String(),
		Stream:    stream,
		StartedAt: started,
		Duration:  time.Since(started),
	}
	switch {
	case runErr != nil:
		run.Status = entity.RunStatusError
		run.Error = runErr.Error()
	case report != nil && report.Complete:
		run.Status = entity.RunStatusOK
		run.Synced = report.SyncedThisBatch
		run.Total = report.TotalSynced
	default:
		run.Status = entity.RunStatusPartial
		if report != nil {
			run.Synced = report.SyncedThisBatch
			run.Total = report.TotalSynced
		}
	}

	if err := s.runs.Create(ctx, run); err != nil {
		s.log.Error().Err(err).Str("stream", string(stream)).Msg("no se pudo guardar la auditoría de la corrida")
	}

	evt := s.log.Info()
	if runErr != nil {
		evt = s.log.Error().Err(runErr)
	}
	evt.Str("stream", string(stream)).
		Str("status", run.Status).
		Int("synced", run.Synced).
		Int("total", run.Total).
		Dur("duration", run.Duration).
		Msg("corrida de sincronización")
}

// docIDSet proyecta el conjunto de claves compuestas a documentos ya
// almacenados, para el filtro defensivo de duplicados.
func docIDSet(keys map[entity.RowKey]struct{}) map[int64]struct{} {
	set := make(map[int64]struct{}, len(keys))
	for k := range keys {
		set[k.DocumentID] = struct{}{}
	}
	return set
}
