package repository

import (
	"context"
	"time"

	"github.com/jhoicas/retail-admin-api/internal/domain/entity"
)

// ExpenseRepository define el puerto de persistencia para Expense.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *entity.Expense) error
	ListByStore(ctx context.Context, storeID string, from, to time.Time, limit, offset int) ([]*entity.Expense, error)
}
