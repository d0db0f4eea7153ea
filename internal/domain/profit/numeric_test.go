package profit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/retail-admin-api/internal/domain/profit"
)

func TestParseAmount(t *testing.T) {
	cases := map[string]string{
		"":        "0",
		"   ":     "0",
		"abc":     "0",
		"12.5":    "12.5",
		"12,5":    "12.5",
		" 1 200 ": "1200",
		"-3":      "-3",
		"1,234":   "1.234",
		"1,234.5": "0",
		"1.234,5": "0",
		"1,2,3":   "0",
	}
	for in, want := range cases {
		assertDecimal(t, want, profit.ParseAmount(in), in)
	}
}

func TestParseFactor(t *testing.T) {
	assert.False(t, profit.ParseFactor("").Valid)
	assert.False(t, profit.ParseFactor("n/a").Valid)
	assert.False(t, profit.ParseFactor("1,234.5").Valid)

	f := profit.ParseFactor("2,5")
	assert.True(t, f.Valid)
	assertDecimal(t, "2.5", f.Decimal)
}
