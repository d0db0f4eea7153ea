package profit

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Categorías cuyo costo se deriva de la fórmula volumétrica (si el producto tiene has_kub).
var volumeCategories = map[int]struct{}{2: {}, 8: {}}

// UsesVolumePricing indica si una categoría + bandera has_kub usan la fórmula volumétrica.
func UsesVolumePricing(category int, hasKub bool) bool {
	if !hasKub {
		return false
	}
	_, ok := volumeCategories[category]
	return ok
}

// ParseAmount convierte texto a decimal; vacío o inválido devuelve 0.
// Ver parse para los formatos aceptados.
func ParseAmount(raw string) decimal.Decimal {
	d, ok := parse(raw)
	if !ok {
		return decimal.Zero
	}
	return d
}

// ParseFactor convierte texto a factor multiplicativo; vacío o inválido
// devuelve un NullDecimal no válido (que VolumeBase trata como 1).
func ParseFactor(raw string) decimal.NullDecimal {
	d, ok := parse(raw)
	if !ok {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// parse acepta un único separador decimal, punto o coma ("12.5", "12,5"), y
// espacios como separador de miles ("1 200"). No hay separador de miles con
// punto ni coma: "1,234" es 1.234, y un texto con ambos separadores o con más
// de uno es inválido.
func parse(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, false
	}
	s = strings.ReplaceAll(s, " ", "")
	if strings.Count(s, ".")+strings.Count(s, ",") > 1 {
		return decimal.Zero, false
	}
	s = strings.Replace(s, ",", ".", 1)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
