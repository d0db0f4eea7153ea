// Package reports contiene los casos de uso de reportes de negocio (ingresos por tienda).
package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/retail-admin-api/internal/application/dto"
	"github.com/jhoicas/retail-admin-api/internal/domain"
	"github.com/jhoicas/retail-admin-api/internal/domain/repository"
)

// IncomeUseCase genera el reporte de ingresos de una tienda.
//
// Fuente de datos: ReportRepository (consultas read-only sobre ventas y gastos).
type IncomeUseCase struct {
	repo repository.ReportRepository
}

// NewIncomeUseCase construye el caso de uso.
func NewIncomeUseCase(repo repository.ReportRepository) *IncomeUseCase {
	return &IncomeUseCase{repo: repo}
}

// IncomeReport construye el reporte de [from, to).
//
// Tres consultas en paralelo:
//  1. SalesTotals    → ventas, cobrado, deuda, ganancia pura
//  2. ExpensesTotal  → gastos
//  3. DailyIncome    → filas por día
//
// Ingreso neto = ganancia pura - gastos.
func (uc *IncomeUseCase) IncomeReport(ctx context.Context, storeID string, from, to time.Time) (*dto.IncomeReportResponse, error) {
	if storeID == "" || !from.Before(to) {
		return nil, domain.ErrInvalidInput
	}

	var (
		totals   repository.SalesTotals
		expenses decimal.Decimal
		daily    []repository.DailyIncome
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totals, err = uc.repo.SalesTotals(gctx, storeID, from, to)
		if err != nil {
			return fmt.Errorf("reports: totales de ventas: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		expenses, err = uc.repo.ExpensesTotal(gctx, storeID, from, to)
		if err != nil {
			return fmt.Errorf("reports: total de gastos: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		daily, err = uc.repo.DailyIncome(gctx, storeID, from, to)
		if err != nil {
			return fmt.Errorf("reports: ingresos diarios: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rows := make([]dto.DailyIncomeDTO, 0, len(daily))
	for _, d := range daily {
		rows = append(rows, dto.DailyIncomeDTO{
			Day:         d.Day,
			Revenue:     d.Revenue,
			PureRevenue: d.PureRevenue,
			Expenses:    d.Expenses,
			NetIncome:   d.PureRevenue.Sub(d.Expenses),
		})
	}

	return &dto.IncomeReportResponse{
		StoreID:     storeID,
		From:        from,
		To:          to,
		SalesCount:  totals.SalesCount,
		Revenue:     totals.Revenue,
		Collected:   totals.Collected,
		Debt:        totals.Debt,
		PureRevenue: totals.PureRevenue,
		Expenses:    expenses,
		NetIncome:   totals.PureRevenue.Sub(expenses),
		Daily:       rows,
	}, nil
}
