package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCategoryRequest entrada para crear una categoría (id numérico fijo).
type CreateCategoryRequest struct {
	ID   int    `json:"id" validate:"required,min=1"`
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	CategoryID int    `json:"category_id" validate:"required,min=1"`
	Name       string `json:"name" validate:"required,min=1,max=200"`
	Barcode    string `json:"barcode"`
	Unit       string `json:"unit"`
	HasKub     bool   `json:"has_kub"`
}

// UpdateProductRequest entrada para actualizar un producto (sin AvgCost).
type UpdateProductRequest struct {
	CategoryID *int    `json:"category_id"`
	Name       *string `json:"name" validate:"omitempty,min=1,max=200"`
	Barcode    *string `json:"barcode"`
	Unit       *string `json:"unit"`
	HasKub     *bool   `json:"has_kub"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID         string          `json:"id"`
	CategoryID int             `json:"category_id"`
	Name       string          `json:"name"`
	Barcode    string          `json:"barcode,omitempty"`
	Unit       string          `json:"unit"`
	HasKub     bool            `json:"has_kub"`
	AvgCost    decimal.Decimal `json:"avg_cost"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
