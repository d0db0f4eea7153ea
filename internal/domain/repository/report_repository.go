package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SalesTotals totales agregados de ventas en un período.
type SalesTotals struct {
	SalesCount  int
	Revenue     decimal.Decimal // Σ total_amount
	Collected   decimal.Decimal // Σ total_paid
	Debt        decimal.Decimal // Σ debt
	PureRevenue decimal.Decimal // Σ total_pure_revenue
}

// DailyIncome fila diaria del reporte de ingresos.
type DailyIncome struct {
	Day         time.Time
	Revenue     decimal.Decimal
	PureRevenue decimal.Decimal
	Expenses    decimal.Decimal
}

// ReportRepository consultas de solo lectura para el reporte de ingresos.
type ReportRepository interface {
	SalesTotals(ctx context.Context, storeID string, from, to time.Time) (SalesTotals, error)
	ExpensesTotal(ctx context.Context, storeID string, from, to time.Time) (decimal.Decimal, error)
	DailyIncome(ctx context.Context, storeID string, from, to time.Time) ([]DailyIncome, error)
}
