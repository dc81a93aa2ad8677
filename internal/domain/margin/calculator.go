package margin

import "github.com/shopspring/decimal"

// Result resultado del cálculo de margen para una línea de venta.
// Con CostKnown=false los campos numéricos no significan nada: la fila se
// almacena igual pero queda fuera de la analítica de márgenes.
type Result struct {
	CostKnown bool
	CostNet   decimal.Decimal // costo unitario
	TotalCost decimal.Decimal
	Amount    decimal.Decimal // margen absoluto
	Percent   decimal.Decimal // margen sobre el precio neto
}

// Compute calcula costo total, margen absoluto y porcentual de una línea.
//
//	margen = round2(precioNeto - costoUnitario*cantidad)
//	porcentaje = precioNeto > 0 ? round2(margen / precioNeto * 100) : 0
//
// El redondeo a dos decimales se aplica aquí mismo, no después: los valores
// almacenados deben ser estables y comparables entre recálculos.
//
// Las devoluciones y correcciones no llegan a esta función: el caller las
// excluye antes, porque representan una reversión y no un margen realizado.
func Compute(quantity, totalPriceNet decimal.Decimal, entry *CostEntry) Result {
	if entry == nil {
		return Result{CostKnown: false}
	}
	totalCost := entry.CostNet.Mul(quantity)
	amount := totalPriceNet.Sub(totalCost).Round(2)
	percent := decimal.Zero
	if totalPriceNet.GreaterThan(decimal.Zero) {
		percent = amount.Div(totalPriceNet).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return Result{
		CostKnown: true,
		CostNet:   entry.CostNet,
		TotalCost: totalCost,
		Amount:    amount,
		Percent:   percent,
	}
}
