package inventory_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-admin-api/internal/application/dto"
	"github.com/jhoicas/retail-admin-api/internal/application/inventory"
	"github.com/jhoicas/retail-admin-api/internal/domain"
	"github.com/jhoicas/retail-admin-api/internal/domain/entity"
	"github.com/jhoicas/retail-admin-api/internal/testutil/memdb"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "esperado %s, obtenido %s", want, got.String())
}

type env struct {
	ctx       context.Context
	db        *memdb.DB
	uc        *inventory.StockUseCase
	storeA    string
	storeB    string
	productID string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	db := memdb.New()
	e := &env{
		ctx:       ctx,
		db:        db,
		storeA:    uuid.New().String(),
		storeB:    uuid.New().String(),
		productID: uuid.New().String(),
	}
	require.NoError(t, db.Stores().Create(ctx, &entity.Store{ID: e.storeA, Name: "A"}))
	require.NoError(t, db.Stores().Create(ctx, &entity.Store{ID: e.storeB, Name: "B"}))
	require.NoError(t, db.Categories().Create(ctx, &entity.Category{ID: 1, Name: "general"}))
	require.NoError(t, db.Products().Create(ctx, &entity.Product{ID: e.productID, CategoryID: 1, Name: "Tubo"}))
	e.uc = inventory.NewStockUseCase(db, db.Stock(), db.Products(), db.Stores(), db.Movements(), db.Recyclings())
	return e
}

func (e *env) receive(t *testing.T, qty, total string) *dto.StockLotResponse {
	t.Helper()
	lot, err := e.uc.ReceiveLot(e.ctx, e.storeA, "", dto.ReceiveLotRequest{
		ProductID:              e.productID,
		Quantity:               d(qty),
		TotalPurchaseCostLocal: d(total),
		SellingPrice:           d("150"),
		Measurements:           []dto.MeasurementDTO{{Name: "длина", Value: "2"}},
	})
	require.NoError(t, err)
	return lot
}

func TestReceiveLot_CostoPromedioPonderado(t *testing.T) {
	e := newEnv(t)

	first := e.receive(t, "10", "1000") // 100 c/u
	assertDecimal(t, "10", first.QuantityAtArrival)
	assertDecimal(t, "1", first.ExchangeRate)

	e.receive(t, "10", "2000") // 200 c/u

	p, err := e.db.Products().GetByID(e.ctx, e.productID)
	require.NoError(t, err)
	assertDecimal(t, "150", p.AvgCost)

	movs, err := e.uc.Movements(e.ctx, first.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeArrival, movs[0].Type)
}

func TestReceiveLot_Validaciones(t *testing.T) {
	e := newEnv(t)

	_, err := e.uc.ReceiveLot(e.ctx, e.storeA, "", dto.ReceiveLotRequest{ProductID: e.productID, Quantity: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.uc.ReceiveLot(e.ctx, e.storeA, "", dto.ReceiveLotRequest{ProductID: uuid.New().String(), Quantity: d("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = e.uc.ReceiveLot(e.ctx, uuid.New().String(), "", dto.ReceiveLotRequest{ProductID: e.productID, Quantity: d("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransfer_RepartoProporcionalDelCosto(t *testing.T) {
	e := newEnv(t)
	lot := e.receive(t, "10", "1000")

	res, err := e.uc.Transfer(e.ctx, e.storeA, "", dto.TransferRequest{
		StockID: lot.ID, ToStoreID: e.storeB, Quantity: d("4"),
	})
	require.NoError(t, err)

	assertDecimal(t, "6", res.From.Quantity)
	assertDecimal(t, "6", res.From.QuantityAtArrival)
	assertDecimal(t, "600", res.From.TotalPurchaseCostLocal)

	assert.Equal(t, e.storeB, res.To.StoreID)
	assertDecimal(t, "4", res.To.Quantity)
	assertDecimal(t, "400", res.To.TotalPurchaseCostLocal)
	assertDecimal(t, "150", res.To.SellingPrice)
	require.Len(t, res.To.Measurements, 1)

	stored, err := e.db.Stock().GetByID(e.ctx, lot.ID)
	require.NoError(t, err)
	assertDecimal(t, "6", stored.Quantity)
	assertDecimal(t, "600", stored.TotalPurchaseCostLocal)

	listB, err := e.uc.ListLots(e.ctx, e.storeB, true, 10, 0)
	require.NoError(t, err)
	require.Len(t, listB.Items, 1)
}

func TestTransfer_Errores(t *testing.T) {
	e := newEnv(t)
	lot := e.receive(t, "2", "200")

	_, err := e.uc.Transfer(e.ctx, e.storeA, "", dto.TransferRequest{StockID: lot.ID, ToStoreID: e.storeB, Quantity: d("3")})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = e.uc.Transfer(e.ctx, e.storeA, "", dto.TransferRequest{StockID: lot.ID, ToStoreID: e.storeA, Quantity: d("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.uc.Transfer(e.ctx, e.storeB, "", dto.TransferRequest{StockID: lot.ID, ToStoreID: e.storeA, Quantity: d("1")})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	stored, err := e.db.Stock().GetByID(e.ctx, lot.ID)
	require.NoError(t, err)
	assertDecimal(t, "2", stored.Quantity)
}

func TestCreateRecycling(t *testing.T) {
	e := newEnv(t)
	lot := e.receive(t, "10", "1000")
	outProduct := uuid.New().String()
	require.NoError(t, e.db.Products().Create(e.ctx, &entity.Product{ID: outProduct, CategoryID: 1, Name: "Recorte"}))

	rec, err := e.uc.CreateRecycling(e.ctx, e.storeA, "", dto.CreateRecyclingRequest{
		FromStockID:      lot.ID,
		ToProductID:      outProduct,
		UsedQuantity:     d("3"),
		ProducedQuantity: d("6"),
		SellingPrice:     d("80"),
	})
	require.NoError(t, err)
	assertDecimal(t, "300", rec.SpentAmount)
	assertDecimal(t, "30", rec.ProfitPerUnit) // 80 - 300/6

	from, err := e.db.Stock().GetByID(e.ctx, lot.ID)
	require.NoError(t, err)
	assertDecimal(t, "7", from.Quantity)

	produced, err := e.db.Stock().GetByID(e.ctx, rec.ToStockID)
	require.NoError(t, err)
	require.NotNil(t, produced)
	assertDecimal(t, "6", produced.Quantity)
	assert.Equal(t, outProduct, produced.ProductID)

	latest, err := e.db.Recyclings().LatestByProduct(e.ctx, e.storeA, outProduct)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, rec.ID, latest.ID)

	other, err := e.db.Recyclings().LatestByProduct(e.ctx, e.storeB, outProduct)
	require.NoError(t, err)
	assert.Nil(t, other)

	list, err := e.uc.ListRecyclings(e.ctx, e.storeA, 10, 0)
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
}
