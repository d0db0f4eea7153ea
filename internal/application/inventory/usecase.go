package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-admin-api/internal/application/dto"
	"github.com/jhoicas/retail-admin-api/internal/domain"
	"github.com/jhoicas/retail-admin-api/internal/domain/entity"
	"github.com/jhoicas/retail-admin-api/internal/domain/inventory"
	"github.com/jhoicas/retail-admin-api/internal/domain/profit"
	"github.com/jhoicas/retail-admin-api/internal/domain/repository"
)

// StockUseCase registra llegadas de lotes, traslados entre tiendas y reciclajes
// de forma transaccional, con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback.
type StockUseCase struct {
	txRunner   TxRunner
	stock      repository.StockRepository
	products   repository.ProductRepository
	stores     repository.StoreRepository
	movements  repository.StockMovementRepository
	recyclings repository.RecyclingRepository
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(
	txRunner TxRunner,
	stock repository.StockRepository,
	products repository.ProductRepository,
	stores repository.StoreRepository,
	movements repository.StockMovementRepository,
	recyclings repository.RecyclingRepository,
) *StockUseCase {
	return &StockUseCase{
		txRunner:   txRunner,
		stock:      stock,
		products:   products,
		stores:     stores,
		movements:  movements,
		recyclings: recyclings,
	}
}

func newMovement(txID, userID, kind string, lot *entity.StockLot, qty decimal.Decimal, now time.Time) *entity.StockMovement {
	return &entity.StockMovement{
		ID:            uuid.New().String(),
		TransactionID: txID,
		StockID:       lot.ID,
		ProductID:     lot.ProductID,
		StoreID:       lot.StoreID,
		Type:          kind,
		Quantity:      qty,
		CreatedAt:     now,
		CreatedBy:     userID,
	}
}

func (uc *StockUseCase) requireStore(ctx context.Context, id string) error {
	store, err := uc.stores.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if store == nil {
		return domain.ErrNotFound
	}
	return nil
}

// ReceiveLot registra la llegada de un lote y actualiza el costo promedio ponderado del producto.
// NuevoCosto = ((StockActual * CostoActual) + (CantLote * CostoUnitLote)) / (StockActual + CantLote)
func (uc *StockUseCase) ReceiveLot(ctx context.Context, storeID, userID string, in dto.ReceiveLotRequest) (*dto.StockLotResponse, error) {
	if storeID == "" || in.ProductID == "" || !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	if in.TotalPurchaseCostLocal.IsNegative() || in.PurchaseCostForeign.IsNegative() ||
		in.ExchangeRate.IsNegative() || in.SellingPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.requireStore(ctx, storeID); err != nil {
		return nil, err
	}

	exchangeRate := in.ExchangeRate
	if exchangeRate.IsZero() {
		exchangeRate = decimal.NewFromInt(1)
	}
	measurements := make([]entity.Measurement, 0, len(in.Measurements))
	for _, m := range in.Measurements {
		measurements = append(measurements, entity.Measurement{Name: m.Name, Value: m.Value})
	}

	now := time.Now()
	lot := &entity.StockLot{
		ID:                     uuid.New().String(),
		ProductID:              in.ProductID,
		StoreID:                storeID,
		Quantity:               in.Quantity,
		QuantityAtArrival:      in.Quantity,
		TotalPurchaseCostLocal: in.TotalPurchaseCostLocal,
		PurchaseCostForeign:    in.PurchaseCostForeign,
		ExchangeRate:           exchangeRate,
		SellingPrice:           in.SellingPrice,
		Measurements:           measurements,
		ArrivedAt:              now,
		UpdatedAt:              now,
	}

	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		product, err := tx.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		onHand, err := tx.Stock.OnHandByProduct(ctx, product.ID)
		if err != nil {
			return err
		}
		unitCost := profit.StandardUnitCost(lot.TotalPurchaseCostLocal, lot.Quantity)
		avg := inventory.WeightedAverageCost(onHand, product.AvgCost, lot.Quantity, unitCost)
		if err := tx.Products.UpdateAvgCost(ctx, product.ID, avg); err != nil {
			return err
		}
		if err := tx.Stock.Create(ctx, lot); err != nil {
			return err
		}
		return tx.Movements.Create(ctx, newMovement(lot.ID, userID, entity.MovementTypeArrival, lot, lot.Quantity, now))
	})
	if err != nil {
		return nil, err
	}
	return toStockLotResponse(lot), nil
}

// GetLot obtiene un lote; nil si no existe. storeID vacío omite la verificación de tienda.
func (uc *StockUseCase) GetLot(ctx context.Context, id, storeID string) (*dto.StockLotResponse, error) {
	lot, err := uc.stock.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, nil
	}
	if storeID != "" && lot.StoreID != storeID {
		return nil, domain.ErrForbidden
	}
	return toStockLotResponse(lot), nil
}

// ListLots lista lotes de una tienda; onlyAvailable omite los agotados.
func (uc *StockUseCase) ListLots(ctx context.Context, storeID string, onlyAvailable bool, limit, offset int) (*dto.StockLotListResponse, error) {
	list, err := uc.stock.ListByStore(ctx, storeID, onlyAvailable, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockLotResponse, 0, len(list))
	for _, l := range list {
		items = append(items, *toStockLotResponse(l))
	}
	return &dto.StockLotListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Movements historial de movimientos de un lote.
func (uc *StockUseCase) Movements(ctx context.Context, stockID string, limit, offset int) ([]dto.MovementResponse, error) {
	list, err := uc.movements.ListByStock(ctx, stockID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.MovementResponse{
			ID:            m.ID,
			TransactionID: m.TransactionID,
			StockID:       m.StockID,
			ProductID:     m.ProductID,
			StoreID:       m.StoreID,
			Type:          m.Type,
			Quantity:      m.Quantity,
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
		})
	}
	return out, nil
}

// Transfer mueve cantidad de un lote a otra tienda creando un lote nuevo con los mismos
// datos de costo. El costo local total se reparte en proporción a la cantidad trasladada.
func (uc *StockUseCase) Transfer(ctx context.Context, storeID, userID string, in dto.TransferRequest) (*dto.TransferResponse, error) {
	if in.StockID == "" || in.ToStoreID == "" || !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.requireStore(ctx, in.ToStoreID); err != nil {
		return nil, err
	}

	now := time.Now()
	txID := uuid.New().String()
	var origin, dest *entity.StockLot

	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		origin, err = tx.Stock.GetForUpdate(ctx, in.StockID)
		if err != nil {
			return err
		}
		if origin == nil {
			return domain.ErrNotFound
		}
		if storeID != "" && origin.StoreID != storeID {
			return domain.ErrForbidden
		}
		if origin.StoreID == in.ToStoreID {
			return fmt.Errorf("%w: tienda destino igual a la de origen", domain.ErrInvalidInput)
		}
		if origin.Quantity.LessThan(in.Quantity) {
			return domain.ErrInsufficientStock
		}

		base := origin.CostQuantity()
		stay, out := inventory.SplitLotCost(origin.TotalPurchaseCostLocal, base, in.Quantity)
		remainingBase := decimal.Max(base.Sub(in.Quantity), decimal.Zero)

		origin.Quantity = origin.Quantity.Sub(in.Quantity)
		origin.QuantityAtArrival = remainingBase
		origin.TotalPurchaseCostLocal = stay
		origin.UpdatedAt = now
		if err := tx.Stock.UpdateQuantity(ctx, origin.ID, origin.Quantity); err != nil {
			return err
		}
		if err := tx.Stock.UpdateCostBasis(ctx, origin.ID, remainingBase, stay); err != nil {
			return err
		}

		dest = &entity.StockLot{
			ID:                     uuid.New().String(),
			ProductID:              origin.ProductID,
			StoreID:                in.ToStoreID,
			Quantity:               in.Quantity,
			QuantityAtArrival:      in.Quantity,
			TotalPurchaseCostLocal: out,
			PurchaseCostForeign:    origin.PurchaseCostForeign,
			ExchangeRate:           origin.ExchangeRate,
			SellingPrice:           origin.SellingPrice,
			Measurements:           append([]entity.Measurement(nil), origin.Measurements...),
			ArrivedAt:              now,
			UpdatedAt:              now,
		}
		if err := tx.Stock.Create(ctx, dest); err != nil {
			return err
		}
		if err := tx.Movements.Create(ctx, newMovement(txID, userID, entity.MovementTypeTransferOut, origin, in.Quantity.Neg(), now)); err != nil {
			return err
		}
		return tx.Movements.Create(ctx, newMovement(txID, userID, entity.MovementTypeTransferIn, dest, in.Quantity, now))
	})
	if err != nil {
		return nil, err
	}
	return &dto.TransferResponse{
		TransactionID: txID,
		From:          *toStockLotResponse(origin),
		To:            *toStockLotResponse(dest),
	}, nil
}

// CreateRecycling consume material de un lote y produce un lote nuevo de otro producto.
// SpentAmount es el costo estándar del material consumido; la ganancia de las ventas
// posteriores del producto sale de este registro.
func (uc *StockUseCase) CreateRecycling(ctx context.Context, storeID, userID string, in dto.CreateRecyclingRequest) (*dto.RecyclingResponse, error) {
	if in.FromStockID == "" || in.ToProductID == "" ||
		!in.UsedQuantity.IsPositive() || !in.ProducedQuantity.IsPositive() || in.SellingPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.products.GetByID(ctx, in.ToProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	var rec *entity.Recycling
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		from, err := tx.Stock.GetForUpdate(ctx, in.FromStockID)
		if err != nil {
			return err
		}
		if from == nil {
			return domain.ErrNotFound
		}
		if storeID != "" && from.StoreID != storeID {
			return domain.ErrForbidden
		}
		if from.Quantity.LessThan(in.UsedQuantity) {
			return domain.ErrInsufficientStock
		}

		spent := profit.StandardUnitCost(from.TotalPurchaseCostLocal, from.CostQuantity()).Mul(in.UsedQuantity)
		from.Quantity = from.Quantity.Sub(in.UsedQuantity)
		if err := tx.Stock.UpdateQuantity(ctx, from.ID, from.Quantity); err != nil {
			return err
		}

		produced := &entity.StockLot{
			ID:                     uuid.New().String(),
			ProductID:              in.ToProductID,
			StoreID:                from.StoreID,
			Quantity:               in.ProducedQuantity,
			QuantityAtArrival:      in.ProducedQuantity,
			TotalPurchaseCostLocal: spent,
			ExchangeRate:           decimal.NewFromInt(1),
			SellingPrice:           in.SellingPrice,
			ArrivedAt:              now,
			UpdatedAt:              now,
		}
		if err := tx.Stock.Create(ctx, produced); err != nil {
			return err
		}

		rec = &entity.Recycling{
			ID:               uuid.New().String(),
			StoreID:          from.StoreID,
			FromStockID:      from.ID,
			ToStockID:        produced.ID,
			ToProductID:      in.ToProductID,
			UsedQuantity:     in.UsedQuantity,
			ProducedQuantity: in.ProducedQuantity,
			SpentAmount:      spent,
			SellingPrice:     in.SellingPrice,
			CreatedBy:        userID,
			CreatedAt:        now,
		}
		if err := tx.Recycling.Create(ctx, rec); err != nil {
			return err
		}
		if err := tx.Movements.Create(ctx, newMovement(rec.ID, userID, entity.MovementTypeRecycleOut, from, in.UsedQuantity.Neg(), now)); err != nil {
			return err
		}
		return tx.Movements.Create(ctx, newMovement(rec.ID, userID, entity.MovementTypeArrival, produced, produced.Quantity, now))
	})
	if err != nil {
		return nil, err
	}
	return toRecyclingResponse(rec), nil
}

// ListRecyclings lista reciclajes de una tienda.
func (uc *StockUseCase) ListRecyclings(ctx context.Context, storeID string, limit, offset int) (*dto.RecyclingListResponse, error) {
	list, err := uc.recyclings.ListByStore(ctx, storeID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.RecyclingResponse, 0, len(list))
	for _, r := range list {
		items = append(items, *toRecyclingResponse(r))
	}
	return &dto.RecyclingListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toStockLotResponse(l *entity.StockLot) *dto.StockLotResponse {
	if l == nil {
		return nil
	}
	measurements := make([]dto.MeasurementDTO, 0, len(l.Measurements))
	for _, m := range l.Measurements {
		measurements = append(measurements, dto.MeasurementDTO{Name: m.Name, Value: m.Value})
	}
	return &dto.StockLotResponse{
		ID:                     l.ID,
		ProductID:              l.ProductID,
		StoreID:                l.StoreID,
		Quantity:               l.Quantity,
		QuantityAtArrival:      l.QuantityAtArrival,
		TotalPurchaseCostLocal: l.TotalPurchaseCostLocal,
		PurchaseCostForeign:    l.PurchaseCostForeign,
		ExchangeRate:           l.ExchangeRate,
		SellingPrice:           l.SellingPrice,
		Measurements:           measurements,
		ArrivedAt:              l.ArrivedAt,
		UpdatedAt:              l.UpdatedAt,
	}
}

func toRecyclingResponse(r *entity.Recycling) *dto.RecyclingResponse {
	if r == nil {
		return nil
	}
	return &dto.RecyclingResponse{
		ID:               r.ID,
		StoreID:          r.StoreID,
		FromStockID:      r.FromStockID,
		ToStockID:        r.ToStockID,
		ToProductID:      r.ToProductID,
		UsedQuantity:     r.UsedQuantity,
		ProducedQuantity: r.ProducedQuantity,
		SpentAmount:      r.SpentAmount,
		SellingPrice:     r.SellingPrice,
		ProfitPerUnit:    r.ProfitPerUnit(),
		CreatedAt:        r.CreatedAt,
	}
}
