package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-admin-api/internal/application/auth"
	"github.com/jhoicas/retail-admin-api/internal/application/inventory"
	"github.com/jhoicas/retail-admin-api/internal/application/reports"
	"github.com/jhoicas/retail-admin-api/internal/application/sales"
	"github.com/jhoicas/retail-admin-api/internal/application/usecase"
	"github.com/jhoicas/retail-admin-api/internal/domain/entity"
	apphttp "github.com/jhoicas/retail-admin-api/internal/interfaces/http"
	"github.com/jhoicas/retail-admin-api/internal/testutil/memdb"
	pkgjwt "github.com/jhoicas/retail-admin-api/pkg/jwt"
)

type apiEnv struct {
	app     *fiber.App
	storeID string
	stockID string
}

func newAPI(t *testing.T) *apiEnv {
	t.Helper()
	ctx := context.Background()
	db := memdb.New()
	e := &apiEnv{storeID: testStoreID, stockID: uuid.New().String()}

	productID := uuid.New().String()
	require.NoError(t, db.Stores().Create(ctx, &entity.Store{ID: e.storeID, Name: "Centro"}))
	require.NoError(t, db.Categories().Create(ctx, &entity.Category{ID: 1, Name: "general"}))
	require.NoError(t, db.Products().Create(ctx, &entity.Product{ID: productID, CategoryID: 1, Name: "Tubo"}))
	require.NoError(t, db.Stock().Create(ctx, &entity.StockLot{
		ID: e.stockID, StoreID: e.storeID, ProductID: productID,
		Quantity: decimal.NewFromInt(10), QuantityAtArrival: decimal.NewFromInt(10),
		TotalPurchaseCostLocal: decimal.NewFromInt(1000), ExchangeRate: decimal.NewFromInt(1),
		SellingPrice: decimal.NewFromInt(150), ArrivedAt: time.Now(),
	}))

	saleUC := sales.NewSaleUseCase(db, db.Sales(), db.Stock(), db.Products(), db.Recyclings(), db.Clients(),
		sales.NewCostResolver(nil), nil, nil)

	e.app = fiber.New()
	apphttp.Router(e.app, apphttp.RouterDeps{
		AuthUC:    auth.NewAuthUseCase(db.Users(), db.Stores(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 60}),
		UserUC:    usecase.NewUserUseCase(db.Users()),
		StoreUC:   usecase.NewStoreUseCase(db.Stores()),
		ProductUC: usecase.NewProductUseCase(db.Products(), db.Categories()),
		ClientUC:  usecase.NewClientUseCase(db.Clients()),
		ExpenseUC: usecase.NewExpenseUseCase(db.Expenses()),
		StockUC:   inventory.NewStockUseCase(db, db.Stock(), db.Products(), db.Stores(), db.Movements(), db.Recyclings()),
		SaleUC:    saleUC,
		IncomeUC:  reports.NewIncomeUseCase(db.Reports()),
		JWTSecret: testJWTSecret,
	})
	return e
}

func (e *apiEnv) do(t *testing.T, method, path, role string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, e.storeID, role, testIssuer, testExpMin)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+tok)

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	out := map[string]interface{}{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	_ = resp.Body.Close()
	return resp, out
}

func assertAmount(t *testing.T, want string, got interface{}) {
	t.Helper()
	s, _ := got.(string)
	d, err := decimal.NewFromString(s)
	require.NoError(t, err, "importe %v", got)
	assert.True(t, decimal.RequireFromString(want).Equal(d), "esperado %s, obtenido %s", want, s)
}

func saleBody(stockID, qty, price, paid string) map[string]interface{} {
	return map[string]interface{}{
		"items":    []map[string]string{{"stock_id": stockID, "quantity": qty, "unit_price": price}},
		"payments": []map[string]string{{"method": "cash", "amount": paid}},
	}
}

func TestAPI_VentaSellerOcultaGanancia(t *testing.T) {
	e := newAPI(t)

	resp, body := e.do(t, http.MethodPost, "/api/sales", "seller", saleBody(e.stockID, "2", "150", "300"))
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	assertAmount(t, "300", body["total_amount"])
	_, hasProfit := body["total_pure_revenue"]
	assert.False(t, hasProfit, "seller no debe ver la ganancia")

	saleID, _ := body["id"].(string)
	resp, body = e.do(t, http.MethodGet, "/api/sales/"+saleID, "admin", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assertAmount(t, "100", body["total_pure_revenue"])
}

func TestAPI_ErroresDeDominio(t *testing.T) {
	e := newAPI(t)

	resp, body := e.do(t, http.MethodPost, "/api/sales", "seller", saleBody(e.stockID, "2", "150", "0"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "CLIENT_REQUIRED", body["code"])

	resp, body = e.do(t, http.MethodPost, "/api/sales", "seller", saleBody(uuid.New().String(), "1", "150", "150"))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "LOOKUP_FAILED", body["code"])

	resp, body = e.do(t, http.MethodPost, "/api/sales", "seller", saleBody(e.stockID, "11", "150", "1650"))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])

	resp, _ = e.do(t, http.MethodGet, "/api/sales/"+uuid.New().String(), "seller", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_RutasDeGestion(t *testing.T) {
	e := newAPI(t)

	resp, _ := e.do(t, http.MethodPost, "/api/sales/preview", "seller", saleBody(e.stockID, "1", "150", "150"))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := e.do(t, http.MethodPost, "/api/sales/preview", "admin", saleBody(e.stockID, "1", "150", "150"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assertAmount(t, "50", body["total_pure_revenue"])

	resp, _ = e.do(t, http.MethodGet, "/api/reports/income", "seller", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = e.do(t, http.MethodGet, "/api/reports/income", "admin", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, e.storeID, body["store_id"])

	resp, _ = e.do(t, http.MethodPost, "/api/stores", "admin", map[string]string{"name": "Norte"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAPI_AdministracionDeUsuarios(t *testing.T) {
	e := newAPI(t)

	resp, body := e.do(t, http.MethodPost, "/api/auth/register", "admin", map[string]string{
		"email": "root@tienda.com", "password": "secreto123", "role": "superuser",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, body)

	// la tienda del body se ignora: el admin registra en la suya
	resp, body = e.do(t, http.MethodPost, "/api/auth/register", "admin", map[string]string{
		"email": "Vendedor@Tienda.com", "password": "secreto123", "store_id": uuid.New().String(),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	assert.Equal(t, testStoreID, body["store_id"])
	assert.Equal(t, "vendedor@tienda.com", body["email"])
	userID, _ := body["id"].(string)

	resp, body = e.do(t, http.MethodGet, "/api/users", "admin", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items, _ := body["items"].([]interface{})
	assert.Len(t, items, 1)

	resp, _ = e.do(t, http.MethodGet, "/api/users", "seller", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = e.do(t, http.MethodPatch, "/api/users/"+userID+"/status", "admin", map[string]string{"status": "inactive"})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "inactive", body["status"])

	resp, _ = e.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "vendedor@tienda.com", "password": "secreto123",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAPI_AlcanceDeTiendaEnListados(t *testing.T) {
	e := newAPI(t)
	other := uuid.New().String()

	count := func(role, query string) int {
		t.Helper()
		resp, body := e.do(t, http.MethodGet, "/api/stock"+query, role, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, body)
		items, _ := body["items"].([]interface{})
		return len(items)
	}

	// vendedores y admins quedan en la tienda del token aunque pidan otra
	assert.Equal(t, 1, count("seller", "?store_id="+other))
	assert.Equal(t, 1, count("admin", "?store_id="+other))

	// el superuser elige tienda o ve todas
	assert.Equal(t, 0, count("superuser", "?store_id="+other))
	assert.Equal(t, 1, count("superuser", "?store_id="+e.storeID))
	assert.Equal(t, 1, count("superuser", ""))
}
