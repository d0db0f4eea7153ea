package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/retail-admin-api/internal/application/sales"
)

func TestGenerateReceiptPDF(t *testing.T) {
	g := NewMarotoReceiptGenerator(language.Spanish)
	r := &sales.Receipt{
		SaleID:      "3f2a9c1e-0000-4000-8000-000000000000",
		Date:        time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC),
		StoreName:   "Centro",
		ClientName:  "Olga",
		Lines:       []sales.ReceiptLine{{ProductName: "Tubo", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(150), Subtotal: decimal.NewFromInt(300)}},
		Payments:    []sales.ReceiptPayment{{Method: "cash", Amount: decimal.NewFromInt(100)}},
		TotalAmount: decimal.NewFromInt(300),
		TotalPaid:   decimal.NewFromInt(100),
		Debt:        decimal.NewFromInt(200),
	}

	data, err := g.GenerateReceiptPDF(context.Background(), r)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestHelpers(t *testing.T) {
	money := moneyFormatter(message.NewPrinter(language.English))
	assert.Equal(t, "$1,234,567.50", money(decimal.RequireFromString("1234567.499")))
	assert.Equal(t, "Efectivo", paymentLabel("cash"))
	assert.Equal(t, "otro", paymentLabel("otro"))
	assert.Equal(t, "N° 3F2A9C1E", shortID("3f2a9c1e-0000"))
	assert.Equal(t, "-", nonEmpty("", "-"))
}
