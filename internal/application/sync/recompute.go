package sync

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/margin-sync/internal/application/dto"
	"github.com/tu-usuario/margin-sync/internal/domain/margin"
)

// RecomputeMargins ruta de reparación: reconstruye el índice de costos desde
// las filas de almacén actuales y reescribe las celdas de costo y margen de
// todas las ventas almacenadas, sin llamadas nuevas al API.
//
// Existe porque el cruce costo/venta puede quedar desfasado si las ventas se
// sincronizaron antes de completar el almacén; correr esto después repara
// los huecos sin re-sincronizar nada.
func (s *Service) RecomputeMargins(ctx context.Context) (*dto.RecomputeReport, error) {
	costIdx, err := s.buildCostIndex(ctx)
	if err != nil {
		return nil, err
	}

	saleRows, err := s.sales.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("filas de venta: %w", err)
	}

	report := &dto.RecomputeReport{SaleRows: len(saleRows)}
	for _, row := range saleRows {
		if row.IsReturn() {
			continue
		}
		entry, ok := costIdx.Lookup(row.DocumentID, row.ProductID)
		if !ok {
			report.Unmatched++
			row.CostKnown = false
			row.CostNet = decimal.NullDecimal{}
			row.MarginAmount = decimal.NullDecimal{}
			row.MarginPercent = decimal.NullDecimal{}
			continue
		}
		report.Matched++
		res := margin.Compute(row.Quantity, row.TotalNet, &entry)
		row.CostKnown = true
		row.CostNet = decimal.NewNullDecimal(res.CostNet)
		row.MarginAmount = decimal.NewNullDecimal(res.Amount)
		row.MarginPercent = decimal.NewNullDecimal(res.Percent)
	}

	updated, err := s.sales.UpdateMargins(ctx, saleRows)
	if err != nil {
		return nil, fmt.Errorf("actualizar márgenes: %w", err)
	}
	report.Updated = updated

	s.log.Info().
		Int("sale_rows", report.SaleRows).
		Int("matched", report.Matched).
		Int("unmatched", report.Unmatched).
		Int("updated", report.Updated).
		Msg("recalculo de márgenes")
	return report, nil
}
