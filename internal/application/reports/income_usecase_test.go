package reports_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/retail-admin-api/internal/application/reports"
	"github.com/jhoicas/retail-admin-api/internal/domain"
	"github.com/jhoicas/retail-admin-api/internal/domain/entity"
	"github.com/jhoicas/retail-admin-api/internal/testutil/memdb"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seed(t *testing.T, db *memdb.DB, storeID string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, db.Stores().Create(ctx, &entity.Store{ID: storeID, Name: "Centro"}))

	day1 := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 5, 2, 15, 0, 0, 0, time.UTC)
	sales := []entity.Sale{
		{ID: uuid.New().String(), StoreID: storeID, Date: day1, TotalAmount: d("1000"), TotalPaid: d("1000"), TotalPureRevenue: d("300")},
		{ID: uuid.New().String(), StoreID: storeID, Date: day2, TotalAmount: d("500"), TotalPaid: d("200"), Debt: d("300"), TotalPureRevenue: d("100")},
		// fuera del período
		{ID: uuid.New().String(), StoreID: storeID, Date: day1.AddDate(0, 1, 0), TotalAmount: d("999"), TotalPureRevenue: d("999")},
	}
	for i := range sales {
		require.NoError(t, db.Sales().Create(ctx, &sales[i]))
	}
	require.NoError(t, db.Expenses().Create(ctx, &entity.Expense{ID: uuid.New().String(), StoreID: storeID, Amount: d("150"), Date: day2}))
}

func TestIncomeReport(t *testing.T) {
	ctx := context.Background()
	db := memdb.New()
	storeID := uuid.New().String()
	seed(t, db, storeID)
	uc := reports.NewIncomeUseCase(db.Reports())

	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	rep, err := uc.IncomeReport(ctx, storeID, from, from.AddDate(0, 1, 0))
	require.NoError(t, err)

	assert.Equal(t, 2, rep.SalesCount)
	assert.True(t, d("1500").Equal(rep.Revenue))
	assert.True(t, d("1200").Equal(rep.Collected))
	assert.True(t, d("300").Equal(rep.Debt))
	assert.True(t, d("400").Equal(rep.PureRevenue))
	assert.True(t, d("150").Equal(rep.Expenses))
	assert.True(t, d("250").Equal(rep.NetIncome))

	require.Len(t, rep.Daily, 2)
	assert.True(t, d("300").Equal(rep.Daily[0].NetIncome))
	assert.True(t, d("-50").Equal(rep.Daily[1].NetIncome))

	_, err = uc.IncomeReport(ctx, storeID, from, from)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIncomeExcel(t *testing.T) {
	ctx := context.Background()
	db := memdb.New()
	storeID := uuid.New().String()
	seed(t, db, storeID)
	uc := reports.NewIncomeUseCase(db.Reports())

	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	rep, err := uc.IncomeReport(ctx, storeID, from, from.AddDate(0, 1, 0))
	require.NoError(t, err)

	data, err := reports.IncomeExcel(rep)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	net, err := f.GetCellValue("Resumen", "A10")
	require.NoError(t, err)
	assert.Equal(t, "Ingreso neto", net)

	rows, err := f.GetRows("Diario")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "2024-05-01", rows[1][0])
}
