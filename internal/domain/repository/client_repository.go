package repository

import (
	"context"

	"github.com/jhoicas/retail-admin-api/internal/domain/entity"
)

// ClientRepository define el puerto de persistencia para Client.
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	GetByStoreAndPhone(ctx context.Context, storeID, phone string) (*entity.Client, error)
	// ListByStore storeID vacío lista todas las tiendas.
	ListByStore(ctx context.Context, storeID string, limit, offset int) ([]*entity.Client, error)
	Update(ctx context.Context, client *entity.Client) error
}
