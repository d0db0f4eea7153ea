package repository

import (
	"context"

	"github.com/jhoicas/retail-admin-api/internal/domain/entity"
)

// RecyclingRepository define el puerto de persistencia para registros de reciclaje.
type RecyclingRepository interface {
	Create(ctx context.Context, rec *entity.Recycling) error
	// LatestByProduct devuelve el registro más reciente de la tienda para el producto resultante, o nil.
	LatestByProduct(ctx context.Context, storeID, productID string) (*entity.Recycling, error)
	// ListByStore storeID vacío lista todas las tiendas.
	ListByStore(ctx context.Context, storeID string, limit, offset int) ([]*entity.Recycling, error)
}
