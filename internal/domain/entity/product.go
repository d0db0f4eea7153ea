package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo. El stock real vive en lotes (StockLot).
// AvgCost es el costo unitario promedio ponderado de las llegadas, solo informativo;
// la ganancia de una venta se calcula siempre con el costo del lote vendido.
type Product struct {
	ID         string
	CategoryID int
	Name       string
	Barcode    string
	Unit       string // pcs, m, m2, kg...
	HasKub     bool   // precio/costo derivado de medidas (solo en categorías volumétricas)
	AvgCost    decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
