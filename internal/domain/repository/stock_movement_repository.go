package repository

import (
	"context"

	"github.com/jhoicas/retail-admin-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia para movimientos de lotes.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListByStock(ctx context.Context, stockID string, limit, offset int) ([]*entity.StockMovement, error)
}
