package repository

import (
	"context"
	"time"

	"github.com/jhoicas/retail-admin-api/internal/domain/entity"
)

// SaleFilter filtros de listado de ventas.
type SaleFilter struct {
	StoreID  string
	ClientID string
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

// SaleRepository define el puerto de persistencia para Sale y sus líneas/pagos.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	Update(ctx context.Context, sale *entity.Sale) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	List(ctx context.Context, f SaleFilter) ([]*entity.Sale, error)

	CreateItem(ctx context.Context, item *entity.SaleItem) error
	ListItems(ctx context.Context, saleID string) ([]*entity.SaleItem, error)
	DeleteItems(ctx context.Context, saleID string) error

	CreatePayment(ctx context.Context, payment *entity.SalePayment) error
	ListPayments(ctx context.Context, saleID string) ([]*entity.SalePayment, error)
	DeletePayments(ctx context.Context, saleID string) error
}
