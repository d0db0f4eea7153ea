// Package profit calcula la ganancia de una venta (servicio de dominio puro).
//
// Orden de prioridad del costo por línea, nunca combinados:
//
//	reciclaje > fórmula volumétrica > costo estándar
//
// Las funciones no tienen estado ni realizan I/O; pueden invocarse en paralelo.
package profit

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrMissingCost indica que una línea no tiene CostContext resuelto.
// Es un error de búsqueda del caller; nunca se asume costo cero.
var ErrMissingCost = errors.New("profit: contexto de costo no resuelto para el lote")

// Basis identifica la fórmula de costo aplicada a una línea.
type Basis string

const (
	BasisRecycling Basis = "recycling"
	BasisVolume    Basis = "volume"
	BasisStandard  Basis = "standard"
)

// Line es una línea de venta: lote, cantidad y precio unitario negociado.
type Line struct {
	StockID   string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// Extension devuelve cantidad × precio unitario.
func (l Line) Extension() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// Recycling regla de ganancia fija para productos reprocesados.
// BaseProfit devuelve la ganancia base total para una cantidad.
type Recycling struct {
	BaseProfit        func(quantity decimal.Decimal) decimal.Decimal
	OriginalUnitPrice decimal.Decimal // precio del lote al momento de seleccionarlo
}

// CostContext datos de costo de un lote, resueltos por el caller.
type CostContext struct {
	Category               int
	HasVolumePricing       bool
	VolumeFactors          []decimal.NullDecimal // un factor no válido cuenta como 1
	ExchangeRate           decimal.Decimal
	PurchaseCostForeign    decimal.Decimal // costo unitario en moneda extranjera (solo volumétrico)
	TotalPurchaseCostLocal decimal.Decimal // costo total del lote en moneda local
	LotQuantity            decimal.Decimal // cantidad a la llegada (o actual si no hay)
	Recycling              *Recycling
}

// Payment pago recibido; Method es opaco para el cálculo.
type Payment struct {
	Method string
	Amount decimal.Decimal
}

// LineResult detalle del cálculo de una línea.
type LineResult struct {
	StockID   string
	Basis     Basis
	Extension decimal.Decimal
	Profit    decimal.Decimal
	Cost      decimal.Decimal
	PaidShare decimal.Decimal
}

// Result resultado completo de una venta.
type Result struct {
	Lines         []LineResult
	TotalPayments decimal.Decimal
	SaleProfit    decimal.Decimal
}

var one = decimal.NewFromInt(1)

// BasisFor devuelve la fórmula que aplica a un contexto de costo.
func BasisFor(cost CostContext) Basis {
	switch {
	case cost.Recycling != nil:
		return BasisRecycling
	case cost.HasVolumePricing:
		return BasisVolume
	default:
		return BasisStandard
	}
}

// LineProfit devuelve ganancia por unidad × cantidad para una línea.
func LineProfit(line Line, cost CostContext) decimal.Decimal {
	return profitPerUnit(line, cost).Mul(line.Quantity)
}

func profitPerUnit(line Line, cost CostContext) decimal.Decimal {
	switch BasisFor(cost) {
	case BasisRecycling:
		base := decimal.Zero
		if cost.Recycling.BaseProfit != nil {
			base = cost.Recycling.BaseProfit(one)
		}
		delta := line.UnitPrice.Sub(cost.Recycling.OriginalUnitPrice)
		return base.Add(delta)
	case BasisVolume:
		unitCost := VolumeBase(cost.VolumeFactors).
			Mul(cost.ExchangeRate).
			Mul(cost.PurchaseCostForeign)
		return line.UnitPrice.Sub(unitCost)
	default:
		return line.UnitPrice.Sub(StandardUnitCost(cost.TotalPurchaseCostLocal, cost.LotQuantity))
	}
}

// VolumeBase multiplica los factores de medida; los no válidos valen 1.
func VolumeBase(factors []decimal.NullDecimal) decimal.Decimal {
	base := one
	for _, f := range factors {
		if !f.Valid {
			continue
		}
		base = base.Mul(f.Decimal)
	}
	return base
}

// StandardUnitCost divide el costo total del lote por su cantidad.
// Con cantidad cero, negativa o ausente el total se toma como costo unitario.
func StandardUnitCost(total, lotQuantity decimal.Decimal) decimal.Decimal {
	if !lotQuantity.IsPositive() {
		return total
	}
	return total.Div(lotQuantity)
}

// SaleProfit devuelve la ganancia pura de la venta, repartiendo los pagos
// cobrados proporcionalmente entre las líneas. Puede ser negativa.
func SaleProfit(lines []Line, costs map[string]CostContext, payments []Payment, totalAmount decimal.Decimal) (decimal.Decimal, error) {
	res, err := Breakdown(lines, costs, payments, totalAmount)
	if err != nil {
		return decimal.Zero, err
	}
	return res.SaleProfit, nil
}

// Breakdown igual que SaleProfit pero devuelve el detalle por línea.
func Breakdown(lines []Line, costs map[string]CostContext, payments []Payment, totalAmount decimal.Decimal) (Result, error) {
	totalPayments := SumPayments(payments)
	res := Result{
		Lines:         make([]LineResult, 0, len(lines)),
		TotalPayments: totalPayments,
		SaleProfit:    decimal.Zero,
	}
	for _, line := range lines {
		cost, ok := costs[line.StockID]
		if !ok {
			return Result{}, ErrMissingCost
		}
		ext := line.Extension()
		lineProfit := LineProfit(line, cost)
		lineCost := ext.Sub(lineProfit)

		paidShare := ext
		if totalAmount.IsPositive() {
			paidShare = ext.Mul(totalPayments).Div(totalAmount)
		}

		res.SaleProfit = res.SaleProfit.Add(paidShare.Sub(lineCost))
		res.Lines = append(res.Lines, LineResult{
			StockID:   line.StockID,
			Basis:     BasisFor(cost),
			Extension: ext,
			Profit:    lineProfit,
			Cost:      lineCost,
			PaidShare: paidShare,
		})
	}
	return res, nil
}

// SumPayments suma los montos de los pagos.
func SumPayments(payments []Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total
}

// TotalAmount suma las extensiones de las líneas.
func TotalAmount(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Extension())
	}
	return total
}
