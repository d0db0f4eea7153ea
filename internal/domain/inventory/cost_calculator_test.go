package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestWeightedAverageCost(t *testing.T) {
	got := WeightedAverageCost(dec("10"), dec("100"), dec("10"), dec("200"))
	assert.True(t, dec("150").Equal(got), got.String())
}

func TestWeightedAverageCost_SinExistencias(t *testing.T) {
	got := WeightedAverageCost(decimal.Zero, decimal.Zero, dec("4"), dec("25"))
	assert.True(t, dec("25").Equal(got))

	assert.True(t, WeightedAverageCost(decimal.Zero, decimal.Zero, decimal.Zero, dec("25")).IsZero())
}

func TestWeightedAverageCost_ExistenciaNegativaCuentaComoCero(t *testing.T) {
	got := WeightedAverageCost(dec("-3"), dec("999"), dec("2"), dec("40"))
	assert.True(t, dec("40").Equal(got))
}

func TestSplitLotCost(t *testing.T) {
	stay, out := SplitLotCost(dec("1000"), dec("10"), dec("4"))
	assert.True(t, dec("600").Equal(stay))
	assert.True(t, dec("400").Equal(out))

	stay, out = SplitLotCost(dec("1000"), dec("10"), dec("10"))
	assert.True(t, stay.IsZero())
	assert.True(t, dec("1000").Equal(out))

	stay, out = SplitLotCost(dec("500"), decimal.Zero, dec("1"))
	assert.True(t, dec("500").Equal(stay))
	assert.True(t, out.IsZero())
}
