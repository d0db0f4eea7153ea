package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recycling registro de un producto reprocesado a partir de otro lote.
// La ganancia de sus ventas es una recuperación fija por unidad:
// SellingPrice - SpentAmount/ProducedQuantity.
type Recycling struct {
	ID               string
	StoreID          string
	FromStockID      string
	ToStockID        string
	ToProductID      string
	UsedQuantity     decimal.Decimal // cantidad consumida del lote origen
	ProducedQuantity decimal.Decimal
	SpentAmount      decimal.Decimal // costo del material consumido
	SellingPrice     decimal.Decimal
	CreatedBy        string
	CreatedAt        time.Time
}

// ProfitPerUnit ganancia base por unidad producida.
func (r *Recycling) ProfitPerUnit() decimal.Decimal {
	if !r.ProducedQuantity.IsPositive() {
		return r.SellingPrice.Sub(r.SpentAmount)
	}
	return r.SellingPrice.Sub(r.SpentAmount.Div(r.ProducedQuantity))
}

// BaseProfit ganancia base total para una cantidad.
func (r *Recycling) BaseProfit(quantity decimal.Decimal) decimal.Decimal {
	return r.ProfitPerUnit().Mul(quantity)
}
