package profit_test

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-admin-api/internal/domain/profit"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msg ...interface{}) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "esperado %s, obtenido %s %v", want, got.String(), msg)
}

func fixedRecovery(perUnit string) func(decimal.Decimal) decimal.Decimal {
	return func(q decimal.Decimal) decimal.Decimal { return d(perUnit).Mul(q) }
}

func TestLineProfit_CostoEstandar(t *testing.T) {
	line := profit.Line{StockID: "s1", Quantity: d("2"), UnitPrice: d("150")}
	cost := profit.CostContext{TotalPurchaseCostLocal: d("1000"), LotQuantity: d("10")}

	assertDecimal(t, "100", profit.LineProfit(line, cost))
}

func TestLineProfit_Volumetrico(t *testing.T) {
	line := profit.Line{StockID: "s1", Quantity: d("1"), UnitPrice: d("1000")}
	cost := profit.CostContext{
		Category:            2,
		HasVolumePricing:    true,
		VolumeFactors:       []decimal.NullDecimal{decimal.NewNullDecimal(d("2")), decimal.NewNullDecimal(d("3"))},
		ExchangeRate:        d("12000"),
		PurchaseCostForeign: d("0.01"),
		// ignorados bajo la fórmula volumétrica
		TotalPurchaseCostLocal: d("999999"),
		LotQuantity:            d("1"),
	}

	assertDecimal(t, "280", profit.LineProfit(line, cost))
}

func TestLineProfit_VolumetricoFactorInvalidoValeUno(t *testing.T) {
	line := profit.Line{StockID: "s1", Quantity: d("1"), UnitPrice: d("1000")}
	cost := profit.CostContext{
		HasVolumePricing: true,
		VolumeFactors: []decimal.NullDecimal{
			decimal.NewNullDecimal(d("6")),
			profit.ParseFactor("abc"),
			profit.ParseFactor(""),
		},
		ExchangeRate:        d("12000"),
		PurchaseCostForeign: d("0.01"),
	}

	assertDecimal(t, "280", profit.LineProfit(line, cost))
}

func TestLineProfit_ReciclajeConPrecioEditado(t *testing.T) {
	line := profit.Line{StockID: "s1", Quantity: d("3"), UnitPrice: d("220")}
	cost := profit.CostContext{
		HasVolumePricing: true, // el reciclaje tiene prioridad
		VolumeFactors:    []decimal.NullDecimal{decimal.NewNullDecimal(d("100"))},
		ExchangeRate:     d("1"),
		Recycling: &profit.Recycling{
			BaseProfit:        fixedRecovery("50"),
			OriginalUnitPrice: d("200"),
		},
	}

	assertDecimal(t, "210", profit.LineProfit(line, cost))
	assert.Equal(t, profit.BasisRecycling, profit.BasisFor(cost))
}

func TestLineProfit_CantidadDeLoteCeroNoDivide(t *testing.T) {
	line := profit.Line{StockID: "s1", Quantity: d("1"), UnitPrice: d("600")}
	cost := profit.CostContext{TotalPurchaseCostLocal: d("500"), LotQuantity: decimal.Zero}

	got := profit.LineProfit(line, cost)
	assertDecimal(t, "100", got)
}

func TestLineProfit_SinDatosDeCostoAsumeCero(t *testing.T) {
	line := profit.Line{StockID: "s1", Quantity: d("1.5"), UnitPrice: d("10")}

	assertDecimal(t, "15", profit.LineProfit(line, profit.CostContext{}))
}

func TestSaleProfit_PagoParcialReportaPerdida(t *testing.T) {
	lines := []profit.Line{
		{StockID: "a", Quantity: d("1"), UnitPrice: d("600")},
		{StockID: "b", Quantity: d("1"), UnitPrice: d("400")},
	}
	costs := map[string]profit.CostContext{
		"a": {TotalPurchaseCostLocal: d("400"), LotQuantity: d("1")},
		"b": {TotalPurchaseCostLocal: d("250"), LotQuantity: d("1")},
	}
	payments := []profit.Payment{
		{Method: "cash", Amount: d("300")},
		{Method: "card", Amount: d("200")},
	}

	res, err := profit.Breakdown(lines, costs, payments, d("1000"))
	require.NoError(t, err)
	require.Len(t, res.Lines, 2)
	assertDecimal(t, "300", res.Lines[0].PaidShare)
	assertDecimal(t, "200", res.Lines[1].PaidShare)
	assertDecimal(t, "-150", res.SaleProfit, "la pérdida no se recorta a cero")

	total, err := profit.SaleProfit(lines, costs, payments, d("1000"))
	require.NoError(t, err)
	assert.True(t, total.IsNegative())
}

func TestSaleProfit_PagoCompleto(t *testing.T) {
	lines := []profit.Line{{StockID: "a", Quantity: d("2"), UnitPrice: d("150")}}
	costs := map[string]profit.CostContext{
		"a": {TotalPurchaseCostLocal: d("1000"), LotQuantity: d("10")},
	}
	payments := []profit.Payment{{Method: "cash", Amount: d("300")}}

	got, err := profit.SaleProfit(lines, costs, payments, profit.TotalAmount(lines))
	require.NoError(t, err)
	assertDecimal(t, "100", got)
}

func TestSaleProfit_TotalCeroAsignaExtensionCompleta(t *testing.T) {
	lines := []profit.Line{{StockID: "a", Quantity: d("2"), UnitPrice: d("150")}}
	costs := map[string]profit.CostContext{
		"a": {TotalPurchaseCostLocal: d("1000"), LotQuantity: d("10")},
	}

	got, err := profit.SaleProfit(lines, costs, nil, decimal.Zero)
	require.NoError(t, err)
	assertDecimal(t, "100", got)
}

func TestSaleProfit_LoteSinCostoEsError(t *testing.T) {
	lines := []profit.Line{{StockID: "desconocido", Quantity: d("1"), UnitPrice: d("10")}}

	_, err := profit.SaleProfit(lines, map[string]profit.CostContext{}, nil, d("10"))
	assert.ErrorIs(t, err, profit.ErrMissingCost)
}

func TestSaleProfit_Idempotente(t *testing.T) {
	lines := []profit.Line{
		{StockID: "a", Quantity: d("3"), UnitPrice: d("220")},
		{StockID: "b", Quantity: d("0.75"), UnitPrice: d("1000")},
		{StockID: "c", Quantity: d("7"), UnitPrice: d("13.3")},
	}
	costs := map[string]profit.CostContext{
		"a": {Recycling: &profit.Recycling{BaseProfit: fixedRecovery("50"), OriginalUnitPrice: d("200")}},
		"b": {
			HasVolumePricing:    true,
			VolumeFactors:       []decimal.NullDecimal{decimal.NewNullDecimal(d("2")), decimal.NewNullDecimal(d("3"))},
			ExchangeRate:        d("12000"),
			PurchaseCostForeign: d("0.01"),
		},
		"c": {TotalPurchaseCostLocal: d("70"), LotQuantity: d("9")},
	}
	payments := []profit.Payment{{Method: "cash", Amount: d("500")}}
	total := profit.TotalAmount(lines)

	first, err := profit.SaleProfit(lines, costs, payments, total)
	require.NoError(t, err)
	second, err := profit.SaleProfit(lines, costs, payments, total)
	require.NoError(t, err)

	assert.Equal(t, first.String(), second.String())
}

func TestSaleProfit_Concurrente(t *testing.T) {
	lines := []profit.Line{{StockID: "a", Quantity: d("2"), UnitPrice: d("150")}}
	costs := map[string]profit.CostContext{
		"a": {TotalPurchaseCostLocal: d("1000"), LotQuantity: d("10")},
	}
	payments := []profit.Payment{{Method: "cash", Amount: d("150")}}

	var wg sync.WaitGroup
	results := make([]decimal.Decimal, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = profit.SaleProfit(lines, costs, payments, d("300"))
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		// paidShare 150 - costo 200 = -50
		assertDecimal(t, "-50", r)
	}
}

func TestUsesVolumePricing(t *testing.T) {
	assert.True(t, profit.UsesVolumePricing(2, true))
	assert.True(t, profit.UsesVolumePricing(8, true))
	assert.False(t, profit.UsesVolumePricing(8, false))
	assert.False(t, profit.UsesVolumePricing(3, true))
}
