package repository

import (
	"context"
	"time"

	"github.com/jhoicas/retail-admin-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// ListByStore storeID vacío lista todos los usuarios.
	ListByStore(ctx context.Context, storeID string, limit, offset int) ([]*entity.User, error)
	UpdateStatus(ctx context.Context, id, status string, updatedAt time.Time) error
}
