package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateExpenseRequest entrada para registrar un gasto.
type CreateExpenseRequest struct {
	Category string          `json:"category" validate:"max=100"`
	Amount   decimal.Decimal `json:"amount"`
	Comment  string          `json:"comment"`
	Date     *time.Time      `json:"date"`
}

// ExpenseResponse salida de un gasto.
type ExpenseResponse struct {
	ID        string          `json:"id"`
	StoreID   string          `json:"store_id"`
	UserID    string          `json:"user_id,omitempty"`
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	Comment   string          `json:"comment"`
	Date      time.Time       `json:"date"`
	CreatedAt time.Time       `json:"created_at"`
}

// ExpenseListResponse lista paginada de gastos.
type ExpenseListResponse struct {
	Items []ExpenseResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
