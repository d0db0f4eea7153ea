package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-admin-api/internal/application/dto"
	"github.com/jhoicas/retail-admin-api/internal/application/usecase"
	"github.com/jhoicas/retail-admin-api/internal/domain"
	"github.com/jhoicas/retail-admin-api/internal/domain/entity"
	"github.com/jhoicas/retail-admin-api/internal/testutil/memdb"
)

func strPtr(s string) *string { return &s }

func TestStoreUseCase_CRUD(t *testing.T) {
	ctx := context.Background()
	db := memdb.New()
	uc := usecase.NewStoreUseCase(db.Stores())

	_, err := uc.Create(ctx, dto.CreateStoreRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	created, err := uc.Create(ctx, dto.CreateStoreRequest{Name: "Centro", Phone: "555"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	updated, err := uc.Update(ctx, created.ID, dto.UpdateStoreRequest{Name: strPtr("Centro 2")})
	require.NoError(t, err)
	assert.Equal(t, "Centro 2", updated.Name)
	assert.Equal(t, "555", updated.Phone)

	missing, err := uc.Update(ctx, uuid.New().String(), dto.UpdateStoreRequest{})
	require.NoError(t, err)
	assert.Nil(t, missing)

	list, err := uc.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 10, list.Page.Limit)

	require.NoError(t, uc.Delete(ctx, created.ID))
	got, err := uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStoreUseCase_DeleteConLotes(t *testing.T) {
	ctx := context.Background()
	db := memdb.New()
	uc := usecase.NewStoreUseCase(db.Stores())

	store, err := uc.Create(ctx, dto.CreateStoreRequest{Name: "Norte"})
	require.NoError(t, err)
	require.NoError(t, db.Categories().Create(ctx, &entity.Category{ID: 1, Name: "general"}))
	productID := uuid.New().String()
	require.NoError(t, db.Products().Create(ctx, &entity.Product{ID: productID, CategoryID: 1, Name: "Tubo"}))
	require.NoError(t, db.Stock().Create(ctx, &entity.StockLot{ID: uuid.New().String(), StoreID: store.ID, ProductID: productID, Quantity: decimal.NewFromInt(1)}))

	assert.ErrorIs(t, uc.Delete(ctx, store.ID), domain.ErrConflict)
}

func TestProductUseCase(t *testing.T) {
	ctx := context.Background()
	db := memdb.New()
	uc := usecase.NewProductUseCase(db.Products(), db.Categories())

	_, err := uc.CreateCategory(ctx, dto.CreateCategoryRequest{ID: 0, Name: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	cat, err := uc.CreateCategory(ctx, dto.CreateCategoryRequest{ID: 2, Name: "Vigas"})
	require.NoError(t, err)
	assert.Equal(t, 2, cat.ID)

	_, err = uc.CreateCategory(ctx, dto.CreateCategoryRequest{ID: 2, Name: "Otra"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, dto.CreateProductRequest{CategoryID: 99, Name: "Viga"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	p, err := uc.Create(ctx, dto.CreateProductRequest{CategoryID: 2, Name: "Viga", HasKub: true})
	require.NoError(t, err)
	assert.Equal(t, "pcs", p.Unit)
	assert.True(t, p.AvgCost.IsZero())
	assert.True(t, p.HasKub)

	off := false
	updated, err := uc.Update(ctx, p.ID, dto.UpdateProductRequest{HasKub: &off, Barcode: strPtr("779")})
	require.NoError(t, err)
	assert.False(t, updated.HasKub)
	assert.Equal(t, "779", updated.Barcode)

	bad := 7
	_, err = uc.Update(ctx, p.ID, dto.UpdateProductRequest{CategoryID: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := uc.List(ctx, 2, 10, 0)
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)

	cats, err := uc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 1)
}

func TestClientUseCase(t *testing.T) {
	ctx := context.Background()
	db := memdb.New()
	uc := usecase.NewClientUseCase(db.Clients())
	storeA, storeB := uuid.New().String(), uuid.New().String()

	c, err := uc.Create(ctx, storeA, dto.CreateClientRequest{Name: "Iván", Phone: "+7 900"})
	require.NoError(t, err)

	_, err = uc.Create(ctx, storeA, dto.CreateClientRequest{Name: "Otro", Phone: "+7 900"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// el mismo teléfono en otra tienda es válido
	_, err = uc.Create(ctx, storeB, dto.CreateClientRequest{Name: "Otro", Phone: "+7 900"})
	require.NoError(t, err)

	_, err = uc.GetByID(ctx, c.ID, storeB)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err := uc.GetByID(ctx, c.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "Iván", got.Name)

	updated, err := uc.Update(ctx, c.ID, storeA, dto.UpdateClientRequest{Comment: strPtr("mayorista")})
	require.NoError(t, err)
	assert.Equal(t, "mayorista", updated.Comment)

	list, err := uc.List(ctx, storeA, 0, 0)
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 20, list.Page.Limit)
}

func TestExpenseUseCase(t *testing.T) {
	ctx := context.Background()
	db := memdb.New()
	storeID := uuid.New().String()
	require.NoError(t, db.Stores().Create(ctx, &entity.Store{ID: storeID, Name: "A"}))
	uc := usecase.NewExpenseUseCase(db.Expenses())

	_, err := uc.Create(ctx, storeID, "", dto.CreateExpenseRequest{Amount: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	day := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	_, err = uc.Create(ctx, storeID, "", dto.CreateExpenseRequest{Category: "renta", Amount: decimal.NewFromInt(500), Date: &day})
	require.NoError(t, err)

	_, err = uc.Create(ctx, uuid.New().String(), "", dto.CreateExpenseRequest{Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	list, err := uc.List(ctx, storeID, from, from.AddDate(0, 1, 0), 10, 0)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "renta", list.Items[0].Category)

	_, err = uc.List(ctx, storeID, from, from, 10, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUserUseCase_ListYEstado(t *testing.T) {
	ctx := context.Background()
	db := memdb.New()
	uc := usecase.NewUserUseCase(db.Users())
	storeA, storeB := uuid.New().String(), uuid.New().String()

	admin := &entity.User{ID: uuid.New().String(), StoreID: storeA, Email: "a@x.com", Role: entity.RoleAdmin, Status: entity.UserStatusActive}
	seller := &entity.User{ID: uuid.New().String(), StoreID: storeA, Email: "b@x.com", Role: entity.RoleSeller, Status: entity.UserStatusActive}
	other := &entity.User{ID: uuid.New().String(), StoreID: storeB, Email: "c@x.com", Role: entity.RoleSeller, Status: entity.UserStatusActive}
	for _, u := range []*entity.User{admin, seller, other} {
		require.NoError(t, db.Users().Create(ctx, u))
	}

	list, err := uc.List(ctx, storeA, 0, 0)
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "a@x.com", list.Items[0].Email)

	all, err := uc.List(ctx, "", 10, 0)
	require.NoError(t, err)
	assert.Len(t, all.Items, 3)

	out, err := uc.SetStatus(ctx, admin.ID, storeA, seller.ID, dto.UpdateUserStatusRequest{Status: entity.UserStatusInactive})
	require.NoError(t, err)
	assert.Equal(t, entity.UserStatusInactive, out.Status)
	stored, err := db.Users().GetByID(ctx, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.UserStatusInactive, stored.Status)

	_, err = uc.SetStatus(ctx, admin.ID, storeA, other.ID, dto.UpdateUserStatusRequest{Status: entity.UserStatusInactive})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.SetStatus(ctx, admin.ID, storeA, admin.ID, dto.UpdateUserStatusRequest{Status: entity.UserStatusInactive})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.SetStatus(ctx, admin.ID, storeA, seller.ID, dto.UpdateUserStatusRequest{Status: "borrado"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.SetStatus(ctx, admin.ID, "", uuid.New().String(), dto.UpdateUserStatusRequest{Status: entity.UserStatusActive})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
