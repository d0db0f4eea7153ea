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

// ExpenseUseCase registro y consulta de gastos operativos.
type ExpenseUseCase struct {
	repo repository.ExpenseRepository
}

// NewExpenseUseCase construye el caso de uso.
func NewExpenseUseCase(repo repository.ExpenseRepository) *ExpenseUseCase {
	return &ExpenseUseCase{repo: repo}
}

// Create registra un gasto; sin fecha se usa la actual.
func (uc *ExpenseUseCase) Create(ctx context.Context, storeID, userID string, in dto.CreateExpenseRequest) (*dto.ExpenseResponse, error) {
	if storeID == "" || in.Amount.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	expense := &entity.Expense{
		ID:        uuid.New().String(),
		StoreID:   storeID,
		UserID:    userID,
		Category:  in.Category,
		Amount:    in.Amount,
		Comment:   in.Comment,
		Date:      now,
		CreatedAt: now,
	}
	if in.Date != nil {
		expense.Date = *in.Date
	}
	if err := uc.repo.Create(ctx, expense); err != nil {
		return nil, err
	}
	return toExpenseResponse(expense), nil
}

// List gastos de la tienda en [from, to).
func (uc *ExpenseUseCase) List(ctx context.Context, storeID string, from, to time.Time, limit, offset int) (*dto.ExpenseListResponse, error) {
	if !from.Before(to) {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.repo.ListByStore(ctx, storeID, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ExpenseResponse, 0, len(list))
	for _, e := range list {
		items = append(items, *toExpenseResponse(e))
	}
	return &dto.ExpenseListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toExpenseResponse(e *entity.Expense) *dto.ExpenseResponse {
	return &dto.ExpenseResponse{
		ID:        e.ID,
		StoreID:   e.StoreID,
		UserID:    e.UserID,
		Category:  e.Category,
		Amount:    e.Amount,
		Comment:   e.Comment,
		Date:      e.Date,
		CreatedAt: e.CreatedAt,
	}
}
