package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-admin-api/internal/domain"
	"github.com/jhoicas/retail-admin-api/internal/domain/entity"
	"github.com/jhoicas/retail-admin-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `id, product_id, store_id, quantity, quantity_at_arrival, total_purchase_cost_local,
	purchase_cost_foreign, exchange_rate, selling_price, measurements, arrived_at, updated_at`

func scanStock(row pgx.Row) (*entity.StockLot, error) {
	var s entity.StockLot
	var measurements []byte
	if err := row.Scan(&s.ID, &s.ProductID, &s.StoreID, &s.Quantity, &s.QuantityAtArrival,
		&s.TotalPurchaseCostLocal, &s.PurchaseCostForeign, &s.ExchangeRate, &s.SellingPrice,
		&measurements, &s.ArrivedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	if len(measurements) > 0 {
		if err := json.Unmarshal(measurements, &s.Measurements); err != nil {
			return nil, fmt.Errorf("decode measurements: %w", err)
		}
	}
	return &s, nil
}

// Create persiste un nuevo lote.
func (r *StockRepo) Create(ctx context.Context, s *entity.StockLot) error {
	measurements := s.Measurements
	if measurements == nil {
		measurements = []entity.Measurement{}
	}
	raw, err := json.Marshal(measurements)
	if err != nil {
		return fmt.Errorf("encode measurements: %w", err)
	}
	_, err = r.q.Exec(ctx,
		`INSERT INTO stock_lots (`+stockColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		s.ID, s.ProductID, s.StoreID, s.Quantity, s.QuantityAtArrival, s.TotalPurchaseCostLocal,
		s.PurchaseCostForeign, s.ExchangeRate, s.SellingPrice, raw, s.ArrivedAt, s.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert stock lot: %w", err)
	}
	return nil
}

// GetByID obtiene un lote; nil si no existe.
func (r *StockRepo) GetByID(ctx context.Context, id string) (*entity.StockLot, error) {
	s, err := scanStock(r.q.QueryRow(ctx, `SELECT `+stockColumns+` FROM stock_lots WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock lot: %w", err)
	}
	return s, nil
}

// GetForUpdate obtiene el lote y bloquea la fila para update (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockLot, error) {
	s, err := scanStock(r.q.QueryRow(ctx, `SELECT `+stockColumns+` FROM stock_lots WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock lot for update: %w", err)
	}
	return s, nil
}

// UpdateQuantity fija la existencia actual del lote.
func (r *StockRepo) UpdateQuantity(ctx context.Context, id string, quantity decimal.Decimal) error {
	_, err := r.q.Exec(ctx,
		`UPDATE stock_lots SET quantity = $2, updated_at = now() WHERE id = $1`, id, quantity)
	if err != nil {
		return fmt.Errorf("update stock quantity: %w", err)
	}
	return nil
}

// UpdateCostBasis ajusta la base de costo tras un traslado parcial.
func (r *StockRepo) UpdateCostBasis(ctx context.Context, id string, quantityAtArrival, totalCost decimal.Decimal) error {
	_, err := r.q.Exec(ctx,
		`UPDATE stock_lots SET quantity_at_arrival = $2, total_purchase_cost_local = $3, updated_at = now()
		WHERE id = $1`, id, quantityAtArrival, totalCost)
	if err != nil {
		return fmt.Errorf("update stock cost basis: %w", err)
	}
	return nil
}

// ListByStore lista lotes de una tienda, los más recientes primero.
func (r *StockRepo) ListByStore(ctx context.Context, storeID string, onlyAvailable bool, limit, offset int) ([]*entity.StockLot, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+stockColumns+` FROM stock_lots
		WHERE ($1::uuid IS NULL OR store_id = $1) AND (NOT $2 OR quantity > 0)
		ORDER BY arrived_at DESC LIMIT $3 OFFSET $4`,
		nullIfEmpty(storeID), onlyAvailable, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock lots: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockLot
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock lot: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// OnHandByProduct existencia total de un producto en todas las tiendas.
func (r *StockRepo) OnHandByProduct(ctx context.Context, productID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM stock_lots WHERE product_id = $1`, productID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("on hand by product: %w", err)
	}
	return total, nil
}
