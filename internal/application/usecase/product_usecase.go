package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-admin-api/internal/application/dto"
	"github.com/jhoicas/retail-admin-api/internal/domain"
	"github.com/jhoicas/retail-admin-api/internal/domain/entity"
	"github.com/jhoicas/retail-admin-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos y categorías. AvgCost se maneja vía llegadas de lotes.
type ProductUseCase struct {
	repo       repository.ProductRepository
	categories repository.CategoryRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, categories repository.CategoryRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, categories: categories}
}

func (uc *ProductUseCase) requireCategory(ctx context.Context, id int) error {
	cat, err := uc.categories.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if cat == nil {
		return domain.ErrInvalidInput
	}
	return nil
}

// Create crea un nuevo producto. AvgCost inicia en 0.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.requireCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	if in.Unit == "" {
		in.Unit = "pcs"
	}
	now := time.Now()
	product := &entity.Product{
		ID:         uuid.New().String(),
		CategoryID: in.CategoryID,
		Name:       in.Name,
		Barcode:    in.Barcode,
		Unit:       in.Unit,
		HasKub:     in.HasKub,
		AvgCost:    decimal.Zero,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto. No permite modificar AvgCost.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.CategoryID != nil {
		if err := uc.requireCategory(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = *in.CategoryID
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Barcode != nil {
		product.Barcode = *in.Barcode
	}
	if in.Unit != nil {
		product.Unit = *in.Unit
	}
	if in.HasKub != nil {
		product.HasKub = *in.HasKub
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos; categoryID 0 devuelve todas las categorías.
func (uc *ProductUseCase) List(ctx context.Context, categoryID, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.List(ctx, categoryID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina un producto sin lotes.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

// CreateCategory registra una categoría con su id numérico.
func (uc *ProductUseCase) CreateCategory(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if in.ID <= 0 || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	cat := &entity.Category{ID: in.ID, Name: in.Name, CreatedAt: time.Now()}
	if err := uc.categories.Create(ctx, cat); err != nil {
		return nil, err
	}
	return &dto.CategoryResponse{ID: cat.ID, Name: cat.Name, CreatedAt: cat.CreatedAt}, nil
}

// ListCategories lista todas las categorías.
func (uc *ProductUseCase) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := uc.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.CategoryResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt})
	}
	return out, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:         p.ID,
		CategoryID: p.CategoryID,
		Name:       p.Name,
		Barcode:    p.Barcode,
		Unit:       p.Unit,
		HasKub:     p.HasKub,
		AvgCost:    p.AvgCost,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}
