package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCollector_SaleSaved(t *testing.T) {
	c := New()

	c.SaleSaved("create", decimal.NewFromInt(1000), decimal.NewFromInt(-150))
	c.SaleSaved("create", decimal.NewFromInt(300), decimal.NewFromInt(100))
	c.SaleSaved("delete", decimal.Zero, decimal.Zero)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.salesSaved.WithLabelValues("create")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.salesSaved.WithLabelValues("delete")))
}

func TestCollector_SaleRejected(t *testing.T) {
	c := New()

	c.SaleRejected("insufficient_stock")
	c.SaleRejected("insufficient_stock")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.salesFailed.WithLabelValues("insufficient_stock")))
}
