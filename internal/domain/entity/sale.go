package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago conocidos. El cálculo de ganancia no distingue entre ellos.
const (
	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentTransfer = "transfer"
	PaymentWallet   = "wallet"
)

// Sale cabecera de una venta.
// TotalAmount = Σ Quantity*UnitPrice de los ítems; Debt = TotalAmount - TotalPaid.
// TotalPureRevenue se calcula con profit.SaleProfit al crear o editar.
type Sale struct {
	ID               string
	StoreID          string
	ClientID         string // vacío en ventas de contado sin cliente
	UserID           string
	TotalAmount      decimal.Decimal
	TotalPaid        decimal.Decimal
	Debt             decimal.Decimal
	TotalPureRevenue decimal.Decimal
	Comment          string
	Date             time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// SaleItem línea de una venta.
type SaleItem struct {
	ID        string
	SaleID    string
	StockID   string
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
	Profit    decimal.Decimal // ganancia de la línea (sin prorrateo de pagos)
}

// SalePayment pago (total o parcial) de una venta.
type SalePayment struct {
	ID     string
	SaleID string
	Method string
	Amount decimal.Decimal
}

// IsPaymentMethod valida el método de pago.
func IsPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentTransfer, PaymentWallet:
		return true
	}
	return false
}
