package repository

import (
	"context"

	"github.com/jhoicas/retail-admin-api/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category.
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id int) (*entity.Category, error)
	List(ctx context.Context) ([]*entity.Category, error)
}
