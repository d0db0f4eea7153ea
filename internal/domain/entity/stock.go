package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Measurement medida física de un lote (ej. longitud, espesor). Value se guarda
// como texto tal como lo capturó el usuario; se interpreta al calcular costos.
type Measurement struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// StockLot lote de un producto en una tienda, con su propio costo y precio.
type StockLot struct {
	ID                     string
	ProductID              string
	StoreID                string
	Quantity               decimal.Decimal // existencia actual
	QuantityAtArrival      decimal.Decimal // cantidad por la que se pagó TotalPurchaseCostLocal
	TotalPurchaseCostLocal decimal.Decimal // costo total del lote en moneda local
	PurchaseCostForeign    decimal.Decimal // costo unitario en moneda extranjera
	ExchangeRate           decimal.Decimal
	SellingPrice           decimal.Decimal
	Measurements           []Measurement
	ArrivedAt              time.Time
	UpdatedAt              time.Time
}

// CostQuantity cantidad base para el costo unitario: la de llegada, o la actual si no existe.
func (s *StockLot) CostQuantity() decimal.Decimal {
	if s.QuantityAtArrival.IsPositive() {
		return s.QuantityAtArrival
	}
	return s.Quantity
}
