package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-admin-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	UpdateAvgCost(ctx context.Context, productID string, cost decimal.Decimal) error
	List(ctx context.Context, categoryID int, limit, offset int) ([]*entity.Product, error)
	Delete(ctx context.Context, id string) error
}
