package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-admin-api/internal/domain/entity"
)

// StockRepository define el puerto para lotes de stock.
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	Create(ctx context.Context, lot *entity.StockLot) error
	GetByID(ctx context.Context, id string) (*entity.StockLot, error)
	// GetForUpdate bloquea la fila del lote (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.StockLot, error)
	UpdateQuantity(ctx context.Context, id string, quantity decimal.Decimal) error
	// UpdateCostBasis ajusta cantidad de llegada y costo total (traslados parciales).
	UpdateCostBasis(ctx context.Context, id string, quantityAtArrival, totalCost decimal.Decimal) error
	// ListByStore storeID vacío lista todas las tiendas.
	ListByStore(ctx context.Context, storeID string, onlyAvailable bool, limit, offset int) ([]*entity.StockLot, error)
	// OnHandByProduct suma la existencia de un producto en todas las tiendas.
	OnHandByProduct(ctx context.Context, productID string) (decimal.Decimal, error)
}
