package sales

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/jhoicas/retail-admin-api/internal/domain"
	"github.com/jhoicas/retail-admin-api/internal/domain/entity"
	"github.com/jhoicas/retail-admin-api/internal/domain/profit"
	"github.com/jhoicas/retail-admin-api/internal/domain/repository"
)

// CostResolver arma el profit.CostContext de un lote a partir del producto,
// sus medidas y el último reciclaje del producto.
type CostResolver struct {
	factorNames []string // ya normalizados con foldName
}

// foldName normaliza mayúsculas/minúsculas (incluye cirílico). cases.Caser no
// se comparte entre goroutines, se crea uno por llamada.
func foldName(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// NewCostResolver recibe los nombres de medida que forman los factores volumétricos, en orden.
func NewCostResolver(factorNames []string) *CostResolver {
	names := make([]string, len(factorNames))
	for i, n := range factorNames {
		names[i] = foldName(n)
	}
	return &CostResolver{factorNames: names}
}

// VolumeFactors devuelve un factor por nombre configurado. Una medida ausente
// o no numérica queda como NullDecimal no válido (vale 1 en la fórmula).
func (r *CostResolver) VolumeFactors(measurements []entity.Measurement) []decimal.NullDecimal {
	byName := make(map[string]string, len(measurements))
	for _, m := range measurements {
		key := foldName(m.Name)
		if _, seen := byName[key]; !seen {
			byName[key] = m.Value
		}
	}
	factors := make([]decimal.NullDecimal, len(r.factorNames))
	for i, name := range r.factorNames {
		if v, ok := byName[name]; ok {
			factors[i] = profit.ParseFactor(v)
		}
	}
	return factors
}

// Resolve construye el contexto de costo del lote.
func (r *CostResolver) Resolve(
	ctx context.Context,
	products repository.ProductRepository,
	recyclings repository.RecyclingRepository,
	lot *entity.StockLot,
) (profit.CostContext, error) {
	product, err := products.GetByID(ctx, lot.ProductID)
	if err != nil {
		return profit.CostContext{}, err
	}
	if product == nil {
		return profit.CostContext{}, fmt.Errorf("%w: producto %s del lote %s", domain.ErrLookup, lot.ProductID, lot.ID)
	}

	cost := profit.CostContext{
		Category:               product.CategoryID,
		HasVolumePricing:       profit.UsesVolumePricing(product.CategoryID, product.HasKub),
		ExchangeRate:           lot.ExchangeRate,
		PurchaseCostForeign:    lot.PurchaseCostForeign,
		TotalPurchaseCostLocal: lot.TotalPurchaseCostLocal,
		LotQuantity:            lot.CostQuantity(),
	}
	if cost.HasVolumePricing {
		cost.VolumeFactors = r.VolumeFactors(lot.Measurements)
	}

	// el reciclaje solo aplica dentro de la tienda del lote
	rec, err := recyclings.LatestByProduct(ctx, lot.StoreID, lot.ProductID)
	if err != nil {
		return profit.CostContext{}, err
	}
	if rec != nil {
		cost.Recycling = &profit.Recycling{
			BaseProfit:        rec.BaseProfit,
			OriginalUnitPrice: lot.SellingPrice,
		}
	}
	return cost, nil
}
