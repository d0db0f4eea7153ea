package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/retail-admin-api/internal/application/dto"
	"github.com/jhoicas/retail-admin-api/internal/domain"
	"github.com/jhoicas/retail-admin-api/internal/domain/entity"
	"github.com/jhoicas/retail-admin-api/internal/domain/repository"
)

// ClientUseCase casos de uso para clientes de una tienda.
type ClientUseCase struct {
	repo repository.ClientRepository
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{repo: repo}
}

// Create crea un nuevo cliente. El teléfono, si viene, es único por tienda.
func (uc *ClientUseCase) Create(ctx context.Context, storeID string, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	if storeID == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Phone != "" {
		existing, _ := uc.repo.GetByStoreAndPhone(ctx, storeID, in.Phone)
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	now := time.Now()
	client := &entity.Client{
		ID:        uuid.New().String(),
		StoreID:   storeID,
		Name:      in.Name,
		Phone:     in.Phone,
		Address:   in.Address,
		Comment:   in.Comment,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// GetByID obtiene un cliente. storeID vacío omite la verificación de tienda.
func (uc *ClientUseCase) GetByID(ctx context.Context, id, storeID string) (*dto.ClientResponse, error) {
	client, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, nil
	}
	if storeID != "" && client.StoreID != storeID {
		return nil, domain.ErrForbidden
	}
	return toClientResponse(client), nil
}

// Update actualiza los datos de contacto.
func (uc *ClientUseCase) Update(ctx context.Context, id, storeID string, in dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	client, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, nil
	}
	if storeID != "" && client.StoreID != storeID {
		return nil, domain.ErrForbidden
	}
	if in.Name != nil {
		client.Name = *in.Name
	}
	if in.Phone != nil {
		client.Phone = *in.Phone
	}
	if in.Address != nil {
		client.Address = *in.Address
	}
	if in.Comment != nil {
		client.Comment = *in.Comment
	}
	client.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// List lista clientes de la tienda.
func (uc *ClientUseCase) List(ctx context.Context, storeID string, limit, offset int) (*dto.ClientListResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.repo.ListByStore(ctx, storeID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ClientResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toClientResponse(c))
	}
	return &dto.ClientListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	if c == nil {
		return nil
	}
	return &dto.ClientResponse{
		ID:        c.ID,
		StoreID:   c.StoreID,
		Name:      c.Name,
		Phone:     c.Phone,
		Address:   c.Address,
		Comment:   c.Comment,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
