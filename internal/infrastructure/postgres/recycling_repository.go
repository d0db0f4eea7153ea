package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/retail-admin-api/internal/domain/entity"
	"github.com/jhoicas/retail-admin-api/internal/domain/repository"
)

var _ repository.RecyclingRepository = (*RecyclingRepo)(nil)

// RecyclingRepo implementación de RecyclingRepository.
type RecyclingRepo struct {
	q Querier
}

// NewRecyclingRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRecyclingRepository(q Querier) *RecyclingRepo {
	return &RecyclingRepo{q: q}
}

const recyclingColumns = `id, store_id, from_stock_id, to_stock_id, to_product_id, used_quantity,
	produced_quantity, spent_amount, selling_price, created_by, created_at`

func scanRecycling(row pgx.Row) (*entity.Recycling, error) {
	var rec entity.Recycling
	var createdBy *string
	if err := row.Scan(&rec.ID, &rec.StoreID, &rec.FromStockID, &rec.ToStockID, &rec.ToProductID,
		&rec.UsedQuantity, &rec.ProducedQuantity, &rec.SpentAmount, &rec.SellingPrice,
		&createdBy, &rec.CreatedAt); err != nil {
		return nil, err
	}
	rec.CreatedBy = emptyIfNull(createdBy)
	return &rec, nil
}

// Create persiste un registro de reciclaje.
func (r *RecyclingRepo) Create(ctx context.Context, rec *entity.Recycling) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO recyclings (`+recyclingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rec.ID, rec.StoreID, rec.FromStockID, rec.ToStockID, rec.ToProductID, rec.UsedQuantity,
		rec.ProducedQuantity, rec.SpentAmount, rec.SellingPrice, nullIfEmpty(rec.CreatedBy), rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert recycling: %w", err)
	}
	return nil
}

// LatestByProduct último reciclaje de la tienda que produjo el producto; nil si no hay.
func (r *RecyclingRepo) LatestByProduct(ctx context.Context, storeID, productID string) (*entity.Recycling, error) {
	rec, err := scanRecycling(r.q.QueryRow(ctx,
		`SELECT `+recyclingColumns+` FROM recyclings
		WHERE store_id = $1 AND to_product_id = $2 ORDER BY created_at DESC LIMIT 1`, storeID, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest recycling: %w", err)
	}
	return rec, nil
}

// ListByStore lista reciclajes de una tienda.
func (r *RecyclingRepo) ListByStore(ctx context.Context, storeID string, limit, offset int) ([]*entity.Recycling, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+recyclingColumns+` FROM recyclings WHERE ($1::uuid IS NULL OR store_id = $1)
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, nullIfEmpty(storeID), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list recyclings: %w", err)
	}
	defer rows.Close()
	var list []*entity.Recycling
	for rows.Next() {
		rec, err := scanRecycling(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recycling: %w", err)
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}
