package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-admin-api/internal/application/dto"
	"github.com/jhoicas/retail-admin-api/internal/application/sales"
	"github.com/jhoicas/retail-admin-api/internal/domain"
	"github.com/jhoicas/retail-admin-api/internal/domain/entity"
	"github.com/jhoicas/retail-admin-api/internal/domain/repository"
	"github.com/jhoicas/retail-admin-api/internal/testutil/memdb"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msg ...interface{}) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "esperado %s, obtenido %s %v", want, got.String(), msg)
}

type fakeMetrics struct {
	saved    map[string]int
	rejected map[string]int
}

func (m *fakeMetrics) SaleSaved(op string, _, _ decimal.Decimal) { m.saved[op]++ }
func (m *fakeMetrics) SaleRejected(reason string)                { m.rejected[reason]++ }

type fixture struct {
	ctx     context.Context
	db      *memdb.DB
	uc      *sales.SaleUseCase
	metrics *fakeMetrics
	storeID string
	userID  string
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db := memdb.New()
	f := &fixture{
		ctx:     ctx,
		db:      db,
		metrics: &fakeMetrics{saved: map[string]int{}, rejected: map[string]int{}},
		storeID: uuid.New().String(),
		userID:  uuid.New().String(),
	}
	require.NoError(t, db.Stores().Create(ctx, &entity.Store{ID: f.storeID, Name: "Centro"}))
	for _, c := range []int{1, 2} {
		require.NoError(t, db.Categories().Create(ctx, &entity.Category{ID: c, Name: "cat"}))
	}
	resolver := sales.NewCostResolver([]string{"длина", "Толщина", "Метр"})
	f.uc = sales.NewSaleUseCase(db, db.Sales(), db.Stock(), db.Products(), db.Recyclings(), db.Clients(),
		resolver, f.metrics, nil)
	return f
}

func (f *fixture) product(t *testing.T, category int, hasKub bool) string {
	t.Helper()
	id := uuid.New().String()
	require.NoError(t, f.db.Products().Create(f.ctx, &entity.Product{
		ID: id, CategoryID: category, Name: "p-" + id[:4], Unit: "pcs", HasKub: hasKub,
	}))
	return id
}

func (f *fixture) lot(t *testing.T, productID string, mod func(*entity.StockLot)) string {
	t.Helper()
	l := &entity.StockLot{
		ID:           uuid.New().String(),
		ProductID:    productID,
		StoreID:      f.storeID,
		ExchangeRate: d("1"),
		ArrivedAt:    time.Now(),
	}
	mod(l)
	require.NoError(t, f.db.Stock().Create(f.ctx, l))
	return l.ID
}

func (f *fixture) standardLot(t *testing.T, qty, totalCost string) string {
	return f.lot(t, f.product(t, 1, false), func(l *entity.StockLot) {
		l.Quantity = d(qty)
		l.QuantityAtArrival = d(qty)
		l.TotalPurchaseCostLocal = d(totalCost)
	})
}

func (f *fixture) quantity(t *testing.T, stockID string) decimal.Decimal {
	t.Helper()
	lot, err := f.db.Stock().GetByID(f.ctx, stockID)
	require.NoError(t, err)
	require.NotNil(t, lot)
	return lot.Quantity
}

func line(stockID, qty, price string) dto.SaleLineRequest {
	return dto.SaleLineRequest{StockID: stockID, Quantity: d(qty), UnitPrice: d(price)}
}

func cash(amount string) dto.SalePaymentRequest {
	return dto.SalePaymentRequest{Method: entity.PaymentCash, Amount: d(amount)}
}

func TestCreate_CostoEstandarPagoCompleto(t *testing.T) {
	f := setup(t)
	stock := f.standardLot(t, "10", "1000")

	res, err := f.uc.Create(f.ctx, f.storeID, f.userID, entity.RoleAdmin, dto.SaleRequest{
		Items:    []dto.SaleLineRequest{line(stock, "2", "150")},
		Payments: []dto.SalePaymentRequest{cash("300")},
	})
	require.NoError(t, err)

	assertDecimal(t, "300", res.TotalAmount)
	assertDecimal(t, "0", res.Debt)
	require.NotNil(t, res.TotalPureRevenue)
	assertDecimal(t, "100", *res.TotalPureRevenue)
	require.Len(t, res.Items, 1)
	require.NotNil(t, res.Items[0].Profit)
	assertDecimal(t, "100", *res.Items[0].Profit)

	assertDecimal(t, "8", f.quantity(t, stock))
	movs, err := f.db.Movements().ListByStock(f.ctx, stock, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeSale, movs[0].Type)
	assertDecimal(t, "-2", movs[0].Quantity)
	assert.Equal(t, 1, f.metrics.saved["create"])
}

func TestCreate_VendedorNoVeGanancia(t *testing.T) {
	f := setup(t)
	stock := f.standardLot(t, "10", "1000")

	res, err := f.uc.Create(f.ctx, f.storeID, f.userID, entity.RoleSeller, dto.SaleRequest{
		Items:    []dto.SaleLineRequest{line(stock, "1", "150")},
		Payments: []dto.SalePaymentRequest{cash("150")},
	})
	require.NoError(t, err)
	assert.Nil(t, res.TotalPureRevenue)
	assert.Nil(t, res.Items[0].Profit)

	// la ganancia se persiste igual
	admin, err := f.uc.Get(f.ctx, res.ID, f.storeID, entity.RoleSuperuser)
	require.NoError(t, err)
	require.NotNil(t, admin.TotalPureRevenue)
	assertDecimal(t, "50", *admin.TotalPureRevenue)
}

func TestCreate_CreditoSinClienteRechazado(t *testing.T) {
	f := setup(t)
	stock := f.standardLot(t, "10", "1000")

	_, err := f.uc.Create(f.ctx, f.storeID, f.userID, entity.RoleAdmin, dto.SaleRequest{
		Items:    []dto.SaleLineRequest{line(stock, "2", "150")},
		Payments: []dto.SalePaymentRequest{cash("100")},
	})
	assert.ErrorIs(t, err, domain.ErrClientRequired)
	assertDecimal(t, "10", f.quantity(t, stock))
	assert.Equal(t, 1, f.metrics.rejected["client_required"])
}

func TestCreate_PagoParcialConClienteReportaPerdida(t *testing.T) {
	f := setup(t)
	a := f.standardLot(t, "1", "400")
	b := f.standardLot(t, "1", "250")
	clientID := uuid.New().String()
	require.NoError(t, f.db.Clients().Create(f.ctx, &entity.Client{ID: clientID, StoreID: f.storeID, Name: "Ana"}))

	res, err := f.uc.Create(f.ctx, f.storeID, f.userID, entity.RoleAdmin, dto.SaleRequest{
		ClientID: clientID,
		Items:    []dto.SaleLineRequest{line(a, "1", "600"), line(b, "1", "400")},
		Payments: []dto.SalePaymentRequest{
			cash("300"),
			{Method: entity.PaymentCard, Amount: d("200")},
		},
	})
	require.NoError(t, err)
	assertDecimal(t, "1000", res.TotalAmount)
	assertDecimal(t, "500", res.TotalPaid)
	assertDecimal(t, "500", res.Debt)
	assertDecimal(t, "-150", *res.TotalPureRevenue)
	assert.Len(t, res.Payments, 2)
}

func TestCreate_Volumetrico(t *testing.T) {
	f := setup(t)
	stock := f.lot(t, f.product(t, 2, true), func(l *entity.StockLot) {
		l.Quantity = d("5")
		l.QuantityAtArrival = d("5")
		l.TotalPurchaseCostLocal = d("999999") // no aplica bajo la fórmula volumétrica
		l.ExchangeRate = d("12000")
		l.PurchaseCostForeign = d("0.01")
		l.Measurements = []entity.Measurement{
			{Name: "ДЛИНА", Value: "2"},
			{Name: "толщина", Value: "3"},
		}
	})

	res, err := f.uc.Create(f.ctx, f.storeID, f.userID, entity.RoleAdmin, dto.SaleRequest{
		Items:    []dto.SaleLineRequest{line(stock, "1", "1000")},
		Payments: []dto.SalePaymentRequest{cash("1000")},
	})
	require.NoError(t, err)
	assertDecimal(t, "280", *res.TotalPureRevenue)
}

func TestCreate_ReciclajeConPrecioEditado(t *testing.T) {
	f := setup(t)
	productID := f.product(t, 1, false)
	stock := f.lot(t, productID, func(l *entity.StockLot) {
		l.Quantity = d("10")
		l.TotalPurchaseCostLocal = d("5000")
		l.SellingPrice = d("200")
	})
	require.NoError(t, f.db.Recyclings().Create(f.ctx, &entity.Recycling{
		ID:               uuid.New().String(),
		StoreID:          f.storeID,
		ToStockID:        stock,
		ToProductID:      productID,
		ProducedQuantity: d("2"),
		SpentAmount:      d("300"),
		SellingPrice:     d("200"),
		CreatedAt:        time.Now(),
	}))

	res, err := f.uc.Create(f.ctx, f.storeID, f.userID, entity.RoleAdmin, dto.SaleRequest{
		Items:    []dto.SaleLineRequest{line(stock, "3", "220")},
		Payments: []dto.SalePaymentRequest{cash("660")},
	})
	require.NoError(t, err)
	// (200 - 300/2) + (220 - 200) = 70 por unidad
	assertDecimal(t, "210", *res.TotalPureRevenue)
}

func TestCreate_ReciclajeDeOtraTiendaNoAplica(t *testing.T) {
	f := setup(t)
	productID := f.product(t, 1, false)
	stock := f.lot(t, productID, func(l *entity.StockLot) {
		l.Quantity = d("10")
		l.QuantityAtArrival = d("10")
		l.TotalPurchaseCostLocal = d("1000")
		l.SellingPrice = d("150")
	})
	otherStore := uuid.New().String()
	require.NoError(t, f.db.Stores().Create(f.ctx, &entity.Store{ID: otherStore, Name: "Norte"}))
	require.NoError(t, f.db.Recyclings().Create(f.ctx, &entity.Recycling{
		ID:               uuid.New().String(),
		StoreID:          otherStore,
		ToProductID:      productID,
		ProducedQuantity: d("2"),
		SpentAmount:      d("300"),
		SellingPrice:     d("200"),
		CreatedAt:        time.Now(),
	}))

	res, err := f.uc.Create(f.ctx, f.storeID, f.userID, entity.RoleAdmin, dto.SaleRequest{
		Items:    []dto.SaleLineRequest{line(stock, "2", "150")},
		Payments: []dto.SalePaymentRequest{cash("300")},
	})
	require.NoError(t, err)
	// costo estándar 100 c/u: (150 - 100) * 2
	assertDecimal(t, "100", *res.TotalPureRevenue)
}

func TestCreate_StockInsuficienteNoPersisteNada(t *testing.T) {
	f := setup(t)
	ok := f.standardLot(t, "10", "100")
	short := f.standardLot(t, "1", "100")

	_, err := f.uc.Create(f.ctx, f.storeID, f.userID, entity.RoleAdmin, dto.SaleRequest{
		Items:    []dto.SaleLineRequest{line(ok, "2", "20"), line(short, "2", "150")},
		Payments: []dto.SalePaymentRequest{cash("340")},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assertDecimal(t, "10", f.quantity(t, ok))
	assertDecimal(t, "1", f.quantity(t, short))

	list, err := f.uc.List(f.ctx, salesFilter(f.storeID), entity.RoleAdmin)
	require.NoError(t, err)
	assert.Empty(t, list.Items)
	assert.Equal(t, 1, f.metrics.rejected["insufficient_stock"])
}

func TestCreate_MismoLoteEnDosLineasSumaCantidades(t *testing.T) {
	f := setup(t)
	stock := f.standardLot(t, "3", "300")

	_, err := f.uc.Create(f.ctx, f.storeID, f.userID, entity.RoleAdmin, dto.SaleRequest{
		Items:    []dto.SaleLineRequest{line(stock, "2", "150"), line(stock, "2", "150")},
		Payments: []dto.SalePaymentRequest{cash("600")},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assertDecimal(t, "3", f.quantity(t, stock))
}

func TestCreate_LoteDesconocidoEsErrorDeBusqueda(t *testing.T) {
	f := setup(t)

	_, err := f.uc.Create(f.ctx, f.storeID, f.userID, entity.RoleAdmin, dto.SaleRequest{
		Items:    []dto.SaleLineRequest{line(uuid.New().String(), "1", "10")},
		Payments: []dto.SalePaymentRequest{cash("10")},
	})
	assert.ErrorIs(t, err, domain.ErrLookup)
	assert.Equal(t, 1, f.metrics.rejected["lookup"])
}

func TestCreate_LoteDeOtraTienda(t *testing.T) {
	f := setup(t)
	stock := f.standardLot(t, "10", "1000")

	_, err := f.uc.Create(f.ctx, uuid.New().String(), f.userID, entity.RoleAdmin, dto.SaleRequest{
		Items:    []dto.SaleLineRequest{line(stock, "1", "150")},
		Payments: []dto.SalePaymentRequest{cash("150")},
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreate_Validaciones(t *testing.T) {
	f := setup(t)
	stock := f.standardLot(t, "10", "1000")

	cases := map[string]dto.SaleRequest{
		"sin items":         {},
		"cantidad cero":     {Items: []dto.SaleLineRequest{line(stock, "0", "10")}},
		"precio negativo":   {Items: []dto.SaleLineRequest{line(stock, "1", "-1")}},
		"método inválido":   {Items: []dto.SaleLineRequest{line(stock, "1", "10")}, Payments: []dto.SalePaymentRequest{{Method: "barter", Amount: d("10")}}},
		"pago negativo":     {Items: []dto.SaleLineRequest{line(stock, "1", "10")}, Payments: []dto.SalePaymentRequest{cash("-5")}},
		"stock_id faltante": {Items: []dto.SaleLineRequest{line("", "1", "10")}},
	}
	for name, req := range cases {
		_, err := f.uc.Create(f.ctx, f.storeID, f.userID, entity.RoleAdmin, req)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, name)
	}
	assertDecimal(t, "10", f.quantity(t, stock))
}

func TestUpdate_RecalculaConElMismoMotor(t *testing.T) {
	f := setup(t)
	stock := f.standardLot(t, "10", "1000")

	created, err := f.uc.Create(f.ctx, f.storeID, f.userID, entity.RoleAdmin, dto.SaleRequest{
		Items:    []dto.SaleLineRequest{line(stock, "2", "150")},
		Payments: []dto.SalePaymentRequest{cash("300")},
	})
	require.NoError(t, err)
	assertDecimal(t, "8", f.quantity(t, stock))

	updated, err := f.uc.Update(f.ctx, created.ID, f.storeID, f.userID, entity.RoleAdmin, dto.SaleRequest{
		Comment:  "editada",
		Items:    []dto.SaleLineRequest{line(stock, "5", "150")},
		Payments: []dto.SalePaymentRequest{cash("750")},
	})
	require.NoError(t, err)
	assertDecimal(t, "750", updated.TotalAmount)
	assertDecimal(t, "250", *updated.TotalPureRevenue)
	assert.Equal(t, "editada", updated.Comment)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assertDecimal(t, "5", f.quantity(t, stock))

	got, err := f.uc.Get(f.ctx, created.ID, f.storeID, entity.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	require.Len(t, got.Payments, 1)
	assertDecimal(t, "5", got.Items[0].Quantity)
	assert.Equal(t, 1, f.metrics.saved["update"])
}

func TestUpdate_FallidaConservaLaVentaOriginal(t *testing.T) {
	f := setup(t)
	stock := f.standardLot(t, "4", "400")

	created, err := f.uc.Create(f.ctx, f.storeID, f.userID, entity.RoleAdmin, dto.SaleRequest{
		Items:    []dto.SaleLineRequest{line(stock, "2", "150")},
		Payments: []dto.SalePaymentRequest{cash("300")},
	})
	require.NoError(t, err)

	_, err = f.uc.Update(f.ctx, created.ID, f.storeID, f.userID, entity.RoleAdmin, dto.SaleRequest{
		Items:    []dto.SaleLineRequest{line(stock, "5", "150")},
		Payments: []dto.SalePaymentRequest{cash("750")},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assertDecimal(t, "2", f.quantity(t, stock))
	got, err := f.uc.Get(f.ctx, created.ID, f.storeID, entity.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assertDecimal(t, "2", got.Items[0].Quantity)
}

func TestUpdate_VentaInexistente(t *testing.T) {
	f := setup(t)
	stock := f.standardLot(t, "4", "400")

	_, err := f.uc.Update(f.ctx, uuid.New().String(), f.storeID, f.userID, entity.RoleAdmin, dto.SaleRequest{
		Items: []dto.SaleLineRequest{line(stock, "1", "150")},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_DevuelveCantidades(t *testing.T) {
	f := setup(t)
	stock := f.standardLot(t, "10", "1000")

	created, err := f.uc.Create(f.ctx, f.storeID, f.userID, entity.RoleAdmin, dto.SaleRequest{
		Items:    []dto.SaleLineRequest{line(stock, "3", "150")},
		Payments: []dto.SalePaymentRequest{cash("450")},
	})
	require.NoError(t, err)

	require.NoError(t, f.uc.Delete(f.ctx, created.ID, f.storeID, f.userID))
	assertDecimal(t, "10", f.quantity(t, stock))

	got, err := f.uc.Get(f.ctx, created.ID, f.storeID, entity.RoleAdmin)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.ErrorIs(t, f.uc.Delete(f.ctx, created.ID, f.storeID, f.userID), domain.ErrNotFound)
}

func TestDelete_OtraTienda(t *testing.T) {
	f := setup(t)
	stock := f.standardLot(t, "10", "1000")
	created, err := f.uc.Create(f.ctx, f.storeID, f.userID, entity.RoleAdmin, dto.SaleRequest{
		Items:    []dto.SaleLineRequest{line(stock, "1", "150")},
		Payments: []dto.SalePaymentRequest{cash("150")},
	})
	require.NoError(t, err)

	err = f.uc.Delete(f.ctx, created.ID, uuid.New().String(), f.userID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assertDecimal(t, "9", f.quantity(t, stock))
}

func TestPreviewProfit(t *testing.T) {
	f := setup(t)
	stock := f.standardLot(t, "10", "1000")
	req := dto.SaleRequest{
		Items:    []dto.SaleLineRequest{line(stock, "2", "150")},
		Payments: []dto.SalePaymentRequest{cash("150")},
	}

	_, err := f.uc.PreviewProfit(f.ctx, f.storeID, entity.RoleSeller, req)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	res, err := f.uc.PreviewProfit(f.ctx, f.storeID, entity.RoleAdmin, req)
	require.NoError(t, err)
	assertDecimal(t, "-50", res.TotalPureRevenue)
	assertDecimal(t, "150", res.Debt)
	require.Len(t, res.Lines, 1)
	assert.Equal(t, "standard", res.Lines[0].Basis)
	assertDecimal(t, "150", res.Lines[0].PaidShare)

	// solo cálculo: el lote no cambia
	assertDecimal(t, "10", f.quantity(t, stock))
}

func salesFilter(storeID string) repository.SaleFilter {
	return repository.SaleFilter{StoreID: storeID, Limit: 50}
}
