package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MeasurementDTO medida de un lote tal como la captura el usuario.
type MeasurementDTO struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ReceiveLotRequest entrada para registrar la llegada de un lote.
type ReceiveLotRequest struct {
	ProductID              string           `json:"product_id" validate:"required,uuid"`
	StoreID                string           `json:"store_id" validate:"omitempty,uuid"`
	Quantity               decimal.Decimal  `json:"quantity"`
	TotalPurchaseCostLocal decimal.Decimal  `json:"total_purchase_cost_local"`
	PurchaseCostForeign    decimal.Decimal  `json:"purchase_cost_foreign"`
	ExchangeRate           decimal.Decimal  `json:"exchange_rate"`
	SellingPrice           decimal.Decimal  `json:"selling_price"`
	Measurements           []MeasurementDTO `json:"measurements"`
}

// StockLotResponse salida de un lote.
type StockLotResponse struct {
	ID                     string           `json:"id"`
	ProductID              string           `json:"product_id"`
	StoreID                string           `json:"store_id"`
	Quantity               decimal.Decimal  `json:"quantity"`
	QuantityAtArrival      decimal.Decimal  `json:"quantity_at_arrival"`
	TotalPurchaseCostLocal decimal.Decimal  `json:"total_purchase_cost_local"`
	PurchaseCostForeign    decimal.Decimal  `json:"purchase_cost_foreign"`
	ExchangeRate           decimal.Decimal  `json:"exchange_rate"`
	SellingPrice           decimal.Decimal  `json:"selling_price"`
	Measurements           []MeasurementDTO `json:"measurements"`
	ArrivedAt              time.Time        `json:"arrived_at"`
	UpdatedAt              time.Time        `json:"updated_at"`
}

// StockLotListResponse lista paginada de lotes.
type StockLotListResponse struct {
	Items []StockLotResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// TransferRequest traslado de cantidad de un lote hacia otra tienda.
type TransferRequest struct {
	StockID   string          `json:"stock_id" validate:"required,uuid"`
	ToStoreID string          `json:"to_store_id" validate:"required,uuid"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// TransferResponse lote origen actualizado y lote creado en destino.
type TransferResponse struct {
	TransactionID string           `json:"transaction_id"`
	From          StockLotResponse `json:"from"`
	To            StockLotResponse `json:"to"`
}

// CreateRecyclingRequest reprocesa material de un lote en un nuevo producto.
type CreateRecyclingRequest struct {
	FromStockID      string          `json:"from_stock_id" validate:"required,uuid"`
	ToProductID      string          `json:"to_product_id" validate:"required,uuid"`
	UsedQuantity     decimal.Decimal `json:"used_quantity"`
	ProducedQuantity decimal.Decimal `json:"produced_quantity"`
	SellingPrice     decimal.Decimal `json:"selling_price"`
}

// RecyclingResponse salida de un reciclaje.
type RecyclingResponse struct {
	ID               string          `json:"id"`
	StoreID          string          `json:"store_id"`
	FromStockID      string          `json:"from_stock_id"`
	ToStockID        string          `json:"to_stock_id"`
	ToProductID      string          `json:"to_product_id"`
	UsedQuantity     decimal.Decimal `json:"used_quantity"`
	ProducedQuantity decimal.Decimal `json:"produced_quantity"`
	SpentAmount      decimal.Decimal `json:"spent_amount"`
	SellingPrice     decimal.Decimal `json:"selling_price"`
	ProfitPerUnit    decimal.Decimal `json:"profit_per_unit"`
	CreatedAt        time.Time       `json:"created_at"`
}

// RecyclingListResponse lista paginada de reciclajes.
type RecyclingListResponse struct {
	Items []RecyclingResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}

// MovementResponse movimiento contable de un lote.
type MovementResponse struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transaction_id"`
	StockID       string          `json:"stock_id"`
	ProductID     string          `json:"product_id"`
	StoreID       string          `json:"store_id"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	CreatedAt     time.Time       `json:"created_at"`
	CreatedBy     string          `json:"created_by,omitempty"`
}
