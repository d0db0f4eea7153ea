package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest línea de venta: lote, cantidad y precio negociado.
type SaleLineRequest struct {
	StockID   string          `json:"stock_id" validate:"required,uuid"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// SalePaymentRequest pago de una venta.
type SalePaymentRequest struct {
	Method string          `json:"method" validate:"required,oneof=cash card transfer wallet"`
	Amount decimal.Decimal `json:"amount"`
}

// SaleRequest entrada para crear o editar una venta.
type SaleRequest struct {
	ClientID string               `json:"client_id" validate:"omitempty,uuid"`
	Comment  string               `json:"comment"`
	Date     *time.Time           `json:"date"`
	Items    []SaleLineRequest    `json:"items" validate:"required,min=1,dive"`
	Payments []SalePaymentRequest `json:"payments" validate:"dive"`
}

// SaleItemResponse línea de una venta. Profit solo para roles con acceso.
type SaleItemResponse struct {
	ID        string           `json:"id"`
	StockID   string           `json:"stock_id"`
	ProductID string           `json:"product_id"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitPrice decimal.Decimal  `json:"unit_price"`
	Subtotal  decimal.Decimal  `json:"subtotal"`
	Profit    *decimal.Decimal `json:"profit,omitempty"`
}

// SalePaymentResponse pago registrado.
type SalePaymentResponse struct {
	Method string          `json:"method"`
	Amount decimal.Decimal `json:"amount"`
}

// SaleResponse salida de una venta. TotalPureRevenue solo para admin/superuser.
type SaleResponse struct {
	ID               string                `json:"id"`
	StoreID          string                `json:"store_id"`
	ClientID         string                `json:"client_id,omitempty"`
	UserID           string                `json:"user_id,omitempty"`
	TotalAmount      decimal.Decimal       `json:"total_amount"`
	TotalPaid        decimal.Decimal       `json:"total_paid"`
	Debt             decimal.Decimal       `json:"debt"`
	TotalPureRevenue *decimal.Decimal      `json:"total_pure_revenue,omitempty"`
	Comment          string                `json:"comment"`
	Date             time.Time             `json:"date"`
	Items            []SaleItemResponse    `json:"items,omitempty"`
	Payments         []SalePaymentResponse `json:"payments,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

// SaleListResponse lista paginada de ventas (sin ítems).
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// ProfitLineResponse detalle de ganancia de una línea.
type ProfitLineResponse struct {
	StockID   string          `json:"stock_id"`
	Basis     string          `json:"basis"`
	Extension decimal.Decimal `json:"extension"`
	Profit    decimal.Decimal `json:"profit"`
	Cost      decimal.Decimal `json:"cost"`
	PaidShare decimal.Decimal `json:"paid_share"`
}

// ProfitPreviewResponse cálculo en vivo de la ganancia, sin persistir.
type ProfitPreviewResponse struct {
	TotalAmount      decimal.Decimal      `json:"total_amount"`
	TotalPaid        decimal.Decimal      `json:"total_paid"`
	Debt             decimal.Decimal      `json:"debt"`
	TotalPureRevenue decimal.Decimal      `json:"total_pure_revenue"`
	Lines            []ProfitLineResponse `json:"lines"`
}
