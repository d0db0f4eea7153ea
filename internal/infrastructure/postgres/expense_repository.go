package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/retail-admin-api/internal/domain"
	"github.com/jhoicas/retail-admin-api/internal/domain/entity"
	"github.com/jhoicas/retail-admin-api/internal/domain/repository"
)

var _ repository.ExpenseRepository = (*ExpenseRepo)(nil)

// ExpenseRepo implementación de ExpenseRepository.
type ExpenseRepo struct {
	q Querier
}

// NewExpenseRepository construye el adaptador de gastos.
func NewExpenseRepository(q Querier) *ExpenseRepo {
	return &ExpenseRepo{q: q}
}

// Create persiste un gasto.
func (r *ExpenseRepo) Create(ctx context.Context, e *entity.Expense) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO expenses (id, store_id, user_id, category, amount, comment, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.StoreID, nullIfEmpty(e.UserID), e.Category, e.Amount, e.Comment, e.Date, e.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

// ListByStore gastos de la tienda en [from, to).
func (r *ExpenseRepo) ListByStore(ctx context.Context, storeID string, from, to time.Time, limit, offset int) ([]*entity.Expense, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, store_id, user_id, category, amount, comment, date, created_at
		FROM expenses WHERE store_id = $1 AND date >= $2 AND date < $3
		ORDER BY date DESC LIMIT $4 OFFSET $5`, storeID, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()
	var list []*entity.Expense
	for rows.Next() {
		var e entity.Expense
		var userID *string
		if err := rows.Scan(&e.ID, &e.StoreID, &userID, &e.Category, &e.Amount, &e.Comment, &e.Date, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.UserID = emptyIfNull(userID)
		list = append(list, &e)
	}
	return list, rows.Err()
}
