package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-admin-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas agregadas para el reporte de ingresos.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// SalesTotals totales de ventas de la tienda en [from, to).
func (r *ReportRepo) SalesTotals(ctx context.Context, storeID string, from, to time.Time) (repository.SalesTotals, error) {
	var t repository.SalesTotals
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(total_amount), 0),
		       COALESCE(SUM(total_paid), 0),
		       COALESCE(SUM(debt), 0),
		       COALESCE(SUM(total_pure_revenue), 0)
		FROM sales
		WHERE store_id = $1 AND date >= $2 AND date < $3`, storeID, from, to,
	).Scan(&t.SalesCount, &t.Revenue, &t.Collected, &t.Debt, &t.PureRevenue)
	if err != nil {
		return repository.SalesTotals{}, fmt.Errorf("sales totals: %w", err)
	}
	return t, nil
}

// ExpensesTotal suma de gastos de la tienda en [from, to).
func (r *ReportRepo) ExpensesTotal(ctx context.Context, storeID string, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM expenses
		WHERE store_id = $1 AND date >= $2 AND date < $3`, storeID, from, to,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("expenses total: %w", err)
	}
	return total, nil
}

// DailyIncome ingresos, ganancia pura y gastos por día.
func (r *ReportRepo) DailyIncome(ctx context.Context, storeID string, from, to time.Time) ([]repository.DailyIncome, error) {
	rows, err := r.q.Query(ctx, `
		WITH s AS (
			SELECT date_trunc('day', date) AS day,
			       SUM(total_amount) AS revenue,
			       SUM(total_pure_revenue) AS pure_revenue
			FROM sales WHERE store_id = $1 AND date >= $2 AND date < $3
			GROUP BY 1
		), e AS (
			SELECT date_trunc('day', date) AS day, SUM(amount) AS expenses
			FROM expenses WHERE store_id = $1 AND date >= $2 AND date < $3
			GROUP BY 1
		)
		SELECT COALESCE(s.day, e.day) AS day,
		       COALESCE(s.revenue, 0),
		       COALESCE(s.pure_revenue, 0),
		       COALESCE(e.expenses, 0)
		FROM s FULL OUTER JOIN e ON s.day = e.day
		ORDER BY day`, storeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("daily income: %w", err)
	}
	defer rows.Close()
	var list []repository.DailyIncome
	for rows.Next() {
		var d repository.DailyIncome
		if err := rows.Scan(&d.Day, &d.Revenue, &d.PureRevenue, &d.Expenses); err != nil {
			return nil, fmt.Errorf("scan daily income: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}
