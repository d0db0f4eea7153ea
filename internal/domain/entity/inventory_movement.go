package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de lote.
const (
	MovementTypeArrival     = "ARRIVAL"      // llegada de un lote
	MovementTypeSale        = "SALE"         // salida por venta
	MovementTypeSaleReturn  = "SALE_RETURN"  // devolución al editar o anular una venta
	MovementTypeTransferOut = "TRANSFER_OUT" // salida hacia otra tienda
	MovementTypeTransferIn  = "TRANSFER_IN"  // entrada desde otra tienda
	MovementTypeRecycleOut  = "RECYCLE_OUT"  // material consumido por un reciclaje
)

// StockMovement registro contable de un cambio de cantidad en un lote.
type StockMovement struct {
	ID            string
	TransactionID string // venta, traslado o reciclaje que originó el movimiento
	StockID       string
	ProductID     string
	StoreID       string
	Type          string
	Quantity      decimal.Decimal // positivo entrada, negativo salida
	CreatedAt     time.Time
	CreatedBy     string
}
