package inventory

import "github.com/shopspring/decimal"

// WeightedAverageCost costo unitario promedio ponderado del producto tras la llegada de un lote.
// NuevoCosto = ((StockActual * CostoActual) + (CantLote * CostoUnitLote)) / (StockActual + CantLote)
func WeightedAverageCost(onHand, currentCost, lotQty, lotUnitCost decimal.Decimal) decimal.Decimal {
	if onHand.IsNegative() {
		onHand = decimal.Zero
	}
	sum := onHand.Add(lotQty)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := onHand.Mul(currentCost).Add(lotQty.Mul(lotUnitCost))
	return num.Div(sum)
}

// SplitLotCost parte el costo total de un lote de forma proporcional a la cantidad trasladada.
// Devuelve (costo que se queda, costo que se va).
func SplitLotCost(totalCost, lotQty, moved decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	if !lotQty.IsPositive() {
		return totalCost, decimal.Zero
	}
	if moved.GreaterThanOrEqual(lotQty) {
		return decimal.Zero, totalCost
	}
	out := totalCost.Mul(moved).Div(lotQty)
	return totalCost.Sub(out), out
}
