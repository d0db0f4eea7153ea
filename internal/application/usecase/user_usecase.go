package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/retail-admin-api/internal/application/dto"
	"github.com/jhoicas/retail-admin-api/internal/domain"
	"github.com/jhoicas/retail-admin-api/internal/domain/entity"
	"github.com/jhoicas/retail-admin-api/internal/domain/repository"
)

// UserUseCase consulta y administración de usuarios ya registrados (el alta vive en auth).
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	return entityToUserResponse(user), nil
}

// List usuarios de una tienda; storeID vacío (superusuario) lista todos.
func (uc *UserUseCase) List(ctx context.Context, storeID string, limit, offset int) (*dto.UserListResponse, error) {
	if limit <= 0 {
		limit = dto.DefaultPageLimit
	}
	list, err := uc.repo.ListByStore(ctx, storeID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *entityToUserResponse(u))
	}
	return &dto.UserListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// SetStatus activa o desactiva un usuario. Un admin solo toca usuarios de su tienda
// y nadie puede desactivarse a sí mismo.
func (uc *UserUseCase) SetStatus(ctx context.Context, actorID, storeID, id string, in dto.UpdateUserStatusRequest) (*dto.UserResponse, error) {
	if in.Status != entity.UserStatusActive && in.Status != entity.UserStatusInactive {
		return nil, domain.ErrInvalidInput
	}
	if id == actorID && in.Status == entity.UserStatusInactive {
		return nil, domain.ErrInvalidInput
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	if storeID != "" && user.StoreID != storeID {
		return nil, domain.ErrForbidden
	}
	now := time.Now()
	if err := uc.repo.UpdateStatus(ctx, id, in.Status, now); err != nil {
		return nil, err
	}
	user.Status = in.Status
	user.UpdatedAt = now
	return entityToUserResponse(user), nil
}

func entityToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		StoreID:   u.StoreID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
