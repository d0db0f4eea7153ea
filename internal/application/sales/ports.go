package sales

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-admin-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx repository.Tx) error) error
}

// Metrics registra el resultado de las operaciones de venta.
type Metrics interface {
	SaleSaved(op string, total, pureRevenue decimal.Decimal)
	SaleRejected(reason string)
}

type nopMetrics struct{}

func (nopMetrics) SaleSaved(string, decimal.Decimal, decimal.Decimal) {}
func (nopMetrics) SaleRejected(string)                                {}

// ReceiptLine línea del comprobante con el nombre del producto ya resuelto.
type ReceiptLine struct {
	ProductName string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// ReceiptPayment pago mostrado en el comprobante.
type ReceiptPayment struct {
	Method string
	Amount decimal.Decimal
}

// Receipt datos del comprobante de venta (sin ganancia: se entrega al cliente).
type Receipt struct {
	SaleID       string
	Date         time.Time
	StoreName    string
	StoreAddress string
	StorePhone   string
	ClientName   string
	ClientPhone  string
	Comment      string
	Lines        []ReceiptLine
	Payments     []ReceiptPayment
	TotalAmount  decimal.Decimal
	TotalPaid    decimal.Decimal
	Debt         decimal.Decimal
}

// ReceiptPDFGenerator genera el PDF del comprobante. Implementado en infrastructure/pdf.
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(ctx context.Context, r *Receipt) ([]byte, error)
}
