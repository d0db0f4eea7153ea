package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/retail-admin-api/internal/domain/entity"
	"github.com/jhoicas/retail-admin-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento de lote.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx,
		`INSERT INTO stock_movements (id, transaction_id, stock_id, product_id, store_id, type, quantity, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		m.ID, m.TransactionID, m.StockID, m.ProductID, m.StoreID, m.Type, m.Quantity, m.CreatedAt,
		nullIfEmpty(m.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// ListByStock historial de movimientos de un lote, más recientes primero.
func (r *StockMovementRepo) ListByStock(ctx context.Context, stockID string, limit, offset int) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, transaction_id, stock_id, product_id, store_id, type, quantity, created_at, created_by
		FROM stock_movements WHERE stock_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, stockID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var createdBy *string
		if err := rows.Scan(&m.ID, &m.TransactionID, &m.StockID, &m.ProductID, &m.StoreID, &m.Type,
			&m.Quantity, &m.CreatedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		m.CreatedBy = emptyIfNull(createdBy)
		list = append(list, &m)
	}
	return list, rows.Err()
}
