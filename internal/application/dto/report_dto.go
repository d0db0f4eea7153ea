package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyIncomeDTO fila diaria del reporte de ingresos.
type DailyIncomeDTO struct {
	Day         time.Time       `json:"day"`
	Revenue     decimal.Decimal `json:"revenue"`
	PureRevenue decimal.Decimal `json:"pure_revenue"`
	Expenses    decimal.Decimal `json:"expenses"`
	NetIncome   decimal.Decimal `json:"net_income"`
}

// IncomeReportResponse reporte de ingresos de una tienda en un período [From, To).
type IncomeReportResponse struct {
	StoreID     string           `json:"store_id"`
	From        time.Time        `json:"from"`
	To          time.Time        `json:"to"`
	SalesCount  int              `json:"sales_count"`
	Revenue     decimal.Decimal  `json:"revenue"`
	Collected   decimal.Decimal  `json:"collected"`
	Debt        decimal.Decimal  `json:"debt"`
	PureRevenue decimal.Decimal  `json:"pure_revenue"`
	Expenses    decimal.Decimal  `json:"expenses"`
	NetIncome   decimal.Decimal  `json:"net_income"`
	Daily       []DailyIncomeDTO `json:"daily"`
}
