package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense gasto operativo de una tienda (se descuenta en el reporte de ingresos).
type Expense struct {
	ID        string
	StoreID   string
	UserID    string
	Category  string
	Amount    decimal.Decimal
	Comment   string
	Date      time.Time
	CreatedAt time.Time
}
