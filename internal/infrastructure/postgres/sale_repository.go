package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/retail-admin-api/internal/domain"
	"github.com/jhoicas/retail-admin-api/internal/domain/entity"
	"github.com/jhoicas/retail-admin-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de ventas. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, store_id, client_id, user_id, total_amount, total_paid, debt,
	total_pure_revenue, comment, date, created_at, updated_at`

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var clientID, userID *string
	if err := row.Scan(&s.ID, &s.StoreID, &clientID, &userID, &s.TotalAmount, &s.TotalPaid, &s.Debt,
		&s.TotalPureRevenue, &s.Comment, &s.Date, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.ClientID = emptyIfNull(clientID)
	s.UserID = emptyIfNull(userID)
	return &s, nil
}

// Create persiste la cabecera de la venta.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO sales (`+saleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		s.ID, s.StoreID, nullIfEmpty(s.ClientID), nullIfEmpty(s.UserID), s.TotalAmount, s.TotalPaid, s.Debt,
		s.TotalPureRevenue, s.Comment, s.Date, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// Update reescribe totales, cliente y comentario de la venta.
func (r *SaleRepo) Update(ctx context.Context, s *entity.Sale) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE sales SET client_id = $2, total_amount = $3, total_paid = $4, debt = $5,
			total_pure_revenue = $6, comment = $7, date = $8, updated_at = $9
		WHERE id = $1`,
		s.ID, nullIfEmpty(s.ClientID), s.TotalAmount, s.TotalPaid, s.Debt,
		s.TotalPureRevenue, s.Comment, s.Date, s.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update sale: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la venta; ítems y pagos caen por ON DELETE CASCADE.
func (r *SaleRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID obtiene la cabecera; nil si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

// List lista ventas con filtros opcionales (cliente, rango de fechas).
func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	where := []string{"store_id = $1"}
	args := []any{f.StoreID}
	if f.ClientID != "" {
		args = append(args, f.ClientID)
		where = append(where, fmt.Sprintf("client_id = $%d", len(args)))
	}
	if f.From != nil {
		args = append(args, *f.From)
		where = append(where, fmt.Sprintf("date >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		where = append(where, fmt.Sprintf("date < $%d", len(args)))
	}
	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM sales WHERE %s ORDER BY date DESC LIMIT $%d OFFSET $%d`,
		saleColumns, strings.Join(where, " AND "), len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// CreateItem persiste una línea de la venta.
func (r *SaleRepo) CreateItem(ctx context.Context, it *entity.SaleItem) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO sale_items (id, sale_id, stock_id, product_id, quantity, unit_price, subtotal, profit)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		it.ID, it.SaleID, it.StockID, it.ProductID, it.Quantity, it.UnitPrice, it.Subtotal, it.Profit,
	)
	if err != nil {
		return fmt.Errorf("insert sale item: %w", err)
	}
	return nil
}

// ListItems líneas de la venta en orden de inserción.
func (r *SaleRepo) ListItems(ctx context.Context, saleID string) ([]*entity.SaleItem, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, sale_id, stock_id, product_id, quantity, unit_price, subtotal, profit
		FROM sale_items WHERE sale_id = $1 ORDER BY ctid`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	var list []*entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.StockID, &it.ProductID, &it.Quantity,
			&it.UnitPrice, &it.Subtotal, &it.Profit); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// DeleteItems borra las líneas (edición de la venta).
func (r *SaleRepo) DeleteItems(ctx context.Context, saleID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM sale_items WHERE sale_id = $1`, saleID); err != nil {
		return fmt.Errorf("delete sale items: %w", err)
	}
	return nil
}

// CreatePayment persiste un pago.
func (r *SaleRepo) CreatePayment(ctx context.Context, p *entity.SalePayment) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO sale_payments (id, sale_id, method, amount) VALUES ($1, $2, $3, $4)`,
		p.ID, p.SaleID, p.Method, p.Amount,
	)
	if err != nil {
		return fmt.Errorf("insert sale payment: %w", err)
	}
	return nil
}

// ListPayments pagos de la venta.
func (r *SaleRepo) ListPayments(ctx context.Context, saleID string) ([]*entity.SalePayment, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, sale_id, method, amount FROM sale_payments WHERE sale_id = $1 ORDER BY ctid`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale payments: %w", err)
	}
	defer rows.Close()
	var list []*entity.SalePayment
	for rows.Next() {
		var p entity.SalePayment
		if err := rows.Scan(&p.ID, &p.SaleID, &p.Method, &p.Amount); err != nil {
			return nil, fmt.Errorf("scan sale payment: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// DeletePayments borra los pagos (edición de la venta).
func (r *SaleRepo) DeletePayments(ctx context.Context, saleID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM sale_payments WHERE sale_id = $1`, saleID); err != nil {
		return fmt.Errorf("delete sale payments: %w", err)
	}
	return nil
}
