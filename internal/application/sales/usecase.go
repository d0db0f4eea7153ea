// Package sales implementa los casos de uso de ventas: alta, edición, anulación,
// consulta y vista previa de la ganancia. La ganancia se calcula siempre con
// profit.Breakdown, tanto al crear como al editar.
package sales

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-admin-api/internal/application/dto"
	"github.com/jhoicas/retail-admin-api/internal/domain"
	"github.com/jhoicas/retail-admin-api/internal/domain/entity"
	"github.com/jhoicas/retail-admin-api/internal/domain/profit"
	"github.com/jhoicas/retail-admin-api/internal/domain/repository"
	"github.com/jhoicas/retail-admin-api/pkg/logger"
)

// SaleUseCase orquesta ventas sobre lotes con bloqueo de fila y Commit/Rollback.
type SaleUseCase struct {
	txRunner   TxRunner
	sales      repository.SaleRepository
	stock      repository.StockRepository
	products   repository.ProductRepository
	recyclings repository.RecyclingRepository
	clients    repository.ClientRepository
	resolver   *CostResolver
	metrics    Metrics
	log        *logger.Logger
}

// NewSaleUseCase construye el caso de uso. metrics y log pueden ser nil.
func NewSaleUseCase(
	txRunner TxRunner,
	sales repository.SaleRepository,
	stock repository.StockRepository,
	products repository.ProductRepository,
	recyclings repository.RecyclingRepository,
	clients repository.ClientRepository,
	resolver *CostResolver,
	metrics Metrics,
	log *logger.Logger,
) *SaleUseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &SaleUseCase{
		txRunner:   txRunner,
		sales:      sales,
		stock:      stock,
		products:   products,
		recyclings: recyclings,
		clients:    clients,
		resolver:   resolver,
		metrics:    metrics,
		log:        log.Component("sales"),
	}
}

// draft totales de una venta derivados de la petición.
type draft struct {
	lines    []profit.Line
	payments []profit.Payment
	total    decimal.Decimal
	paid     decimal.Decimal
	debt     decimal.Decimal
}

func newDraft(in dto.SaleRequest) draft {
	d := draft{
		lines:    make([]profit.Line, 0, len(in.Items)),
		payments: make([]profit.Payment, 0, len(in.Payments)),
	}
	for _, it := range in.Items {
		d.lines = append(d.lines, profit.Line{StockID: it.StockID, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}
	for _, p := range in.Payments {
		d.payments = append(d.payments, profit.Payment{Method: p.Method, Amount: p.Amount})
	}
	d.total = profit.TotalAmount(d.lines)
	d.paid = profit.SumPayments(d.payments)
	d.debt = decimal.Max(d.total.Sub(d.paid), decimal.Zero)
	return d
}

func validateRequest(in dto.SaleRequest) error {
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: la venta no tiene ítems", domain.ErrInvalidInput)
	}
	for i, it := range in.Items {
		if it.StockID == "" {
			return fmt.Errorf("%w: ítem %d sin stock_id", domain.ErrInvalidInput, i)
		}
		if !it.Quantity.IsPositive() {
			return fmt.Errorf("%w: ítem %d con cantidad no positiva", domain.ErrInvalidInput, i)
		}
		if it.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: ítem %d con precio negativo", domain.ErrInvalidInput, i)
		}
	}
	for i, p := range in.Payments {
		if !entity.IsPaymentMethod(p.Method) {
			return fmt.Errorf("%w: pago %d con método %q", domain.ErrInvalidInput, i, p.Method)
		}
		if p.Amount.IsNegative() {
			return fmt.Errorf("%w: pago %d con monto negativo", domain.ErrInvalidInput, i)
		}
	}
	return nil
}

// checkClient exige cliente en ventas a crédito y valida que sea de la tienda.
func (uc *SaleUseCase) checkClient(ctx context.Context, storeID, clientID string, debt decimal.Decimal) error {
	if clientID == "" {
		if debt.IsPositive() {
			return domain.ErrClientRequired
		}
		return nil
	}
	client, err := uc.clients.GetByID(ctx, clientID)
	if err != nil {
		return err
	}
	if client == nil {
		return domain.ErrNotFound
	}
	if client.StoreID != storeID {
		return domain.ErrForbidden
	}
	return nil
}

// lotBook lotes bloqueados dentro de una transacción; las cantidades se
// ajustan en memoria y se escriben una sola vez al final.
type lotBook struct {
	tx      repository.Tx
	storeID string
	lots    map[string]*entity.StockLot
	dirty   map[string]struct{}
}

func newLotBook(tx repository.Tx, storeID string) *lotBook {
	return &lotBook{
		tx:      tx,
		storeID: storeID,
		lots:    make(map[string]*entity.StockLot),
		dirty:   make(map[string]struct{}),
	}
}

func (b *lotBook) get(ctx context.Context, id string) (*entity.StockLot, error) {
	if lot, ok := b.lots[id]; ok {
		return lot, nil
	}
	lot, err := b.tx.Stock.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrLookup, id)
	}
	if lot.StoreID != b.storeID {
		return nil, fmt.Errorf("%w: el lote %s es de otra tienda", domain.ErrForbidden, id)
	}
	b.lots[id] = lot
	return lot, nil
}

func (b *lotBook) add(lot *entity.StockLot, qty decimal.Decimal) {
	lot.Quantity = lot.Quantity.Add(qty)
	b.dirty[lot.ID] = struct{}{}
}

func (b *lotBook) flush(ctx context.Context) error {
	ids := make([]string, 0, len(b.dirty))
	for id := range b.dirty {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if err := b.tx.Stock.UpdateQuantity(ctx, id, b.lots[id].Quantity); err != nil {
			return err
		}
	}
	return nil
}

// movement registra el cambio de cantidad de un lote.
func movement(ctx context.Context, tx repository.Tx, txID, userID, kind string, lot *entity.StockLot, qty decimal.Decimal, now time.Time) error {
	return tx.Movements.Create(ctx, &entity.StockMovement{
		ID:            uuid.New().String(),
		TransactionID: txID,
		StockID:       lot.ID,
		ProductID:     lot.ProductID,
		StoreID:       lot.StoreID,
		Type:          kind,
		Quantity:      qty,
		CreatedAt:     now,
		CreatedBy:     userID,
	})
}

// returnItems devuelve a sus lotes las cantidades de una venta existente.
func returnItems(ctx context.Context, tx repository.Tx, book *lotBook, saleID, userID string, items []*entity.SaleItem, now time.Time) error {
	for _, it := range items {
		lot, err := book.get(ctx, it.StockID)
		if err != nil {
			return err
		}
		book.add(lot, it.Quantity)
		if err := movement(ctx, tx, saleID, userID, entity.MovementTypeSaleReturn, lot, it.Quantity, now); err != nil {
			return err
		}
	}
	return nil
}

// applyDraft bloquea los lotes, resuelve costos, calcula la ganancia, descuenta
// stock y persiste ítems y pagos. sale.ID debe estar asignado.
func (uc *SaleUseCase) applyDraft(ctx context.Context, tx repository.Tx, book *lotBook, sale *entity.Sale, d draft, now time.Time) (profit.Result, []*entity.SaleItem, []*entity.SalePayment, error) {
	costs := make(map[string]profit.CostContext, len(d.lines))
	for _, line := range d.lines {
		if _, ok := costs[line.StockID]; ok {
			continue
		}
		lot, err := book.get(ctx, line.StockID)
		if err != nil {
			return profit.Result{}, nil, nil, err
		}
		cost, err := uc.resolver.Resolve(ctx, tx.Products, tx.Recycling, lot)
		if err != nil {
			return profit.Result{}, nil, nil, err
		}
		costs[line.StockID] = cost
	}

	res, err := profit.Breakdown(d.lines, costs, d.payments, d.total)
	if err != nil {
		if errors.Is(err, profit.ErrMissingCost) {
			return profit.Result{}, nil, nil, fmt.Errorf("%w: %v", domain.ErrLookup, err)
		}
		return profit.Result{}, nil, nil, err
	}

	items := make([]*entity.SaleItem, 0, len(d.lines))
	for i, line := range d.lines {
		lot := book.lots[line.StockID]
		if lot.Quantity.LessThan(line.Quantity) {
			return profit.Result{}, nil, nil, fmt.Errorf("%w: lote %s tiene %s, se piden %s",
				domain.ErrInsufficientStock, lot.ID, lot.Quantity, line.Quantity)
		}
		book.add(lot, line.Quantity.Neg())
		if err := movement(ctx, tx, sale.ID, sale.UserID, entity.MovementTypeSale, lot, line.Quantity.Neg(), now); err != nil {
			return profit.Result{}, nil, nil, err
		}
		item := &entity.SaleItem{
			ID:        uuid.New().String(),
			SaleID:    sale.ID,
			StockID:   line.StockID,
			ProductID: lot.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  res.Lines[i].Extension,
			Profit:    res.Lines[i].Profit,
		}
		items = append(items, item)
	}
	if err := book.flush(ctx); err != nil {
		return profit.Result{}, nil, nil, err
	}

	sale.TotalAmount = d.total
	sale.TotalPaid = d.paid
	sale.Debt = d.debt
	sale.TotalPureRevenue = res.SaleProfit

	payments := make([]*entity.SalePayment, 0, len(d.payments))
	for _, p := range d.payments {
		payments = append(payments, &entity.SalePayment{
			ID:     uuid.New().String(),
			SaleID: sale.ID,
			Method: p.Method,
			Amount: p.Amount,
		})
	}
	return res, items, payments, nil
}

func persistLines(ctx context.Context, tx repository.Tx, items []*entity.SaleItem, payments []*entity.SalePayment) error {
	for _, it := range items {
		if err := tx.Sales.CreateItem(ctx, it); err != nil {
			return err
		}
	}
	for _, p := range payments {
		if err := tx.Sales.CreatePayment(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Create registra una venta: descuenta los lotes y guarda cabecera, ítems y pagos en una transacción.
func (uc *SaleUseCase) Create(ctx context.Context, storeID, userID, role string, in dto.SaleRequest) (*dto.SaleResponse, error) {
	if storeID == "" {
		return nil, uc.reject(fmt.Errorf("%w: store_id requerido", domain.ErrInvalidInput))
	}
	if err := validateRequest(in); err != nil {
		return nil, uc.reject(err)
	}
	d := newDraft(in)
	if err := uc.checkClient(ctx, storeID, in.ClientID, d.debt); err != nil {
		return nil, uc.reject(err)
	}

	now := time.Now()
	sale := &entity.Sale{
		ID:        uuid.New().String(),
		StoreID:   storeID,
		ClientID:  in.ClientID,
		UserID:    userID,
		Comment:   in.Comment,
		Date:      now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Date != nil {
		sale.Date = *in.Date
	}

	var items []*entity.SaleItem
	var payments []*entity.SalePayment
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		book := newLotBook(tx, storeID)
		var err error
		_, items, payments, err = uc.applyDraft(ctx, tx, book, sale, d, now)
		if err != nil {
			return err
		}
		if err := tx.Sales.Create(ctx, sale); err != nil {
			return err
		}
		return persistLines(ctx, tx, items, payments)
	})
	if err != nil {
		return nil, uc.reject(err)
	}

	uc.metrics.SaleSaved("create", sale.TotalAmount, sale.TotalPureRevenue)
	uc.log.Info().
		Str("sale_id", sale.ID).
		Str("store_id", sale.StoreID).
		Str("total", sale.TotalAmount.String()).
		Str("pure_revenue", sale.TotalPureRevenue.String()).
		Msg("venta registrada")
	return toSaleResponse(sale, items, payments, entity.CanSeeProfit(role)), nil
}

// Update reemplaza ítems y pagos de una venta. Las cantidades anteriores vuelven
// a sus lotes y la ganancia se recalcula con el mismo motor que en Create.
// storeID vacío omite la verificación de tienda (superuser).
func (uc *SaleUseCase) Update(ctx context.Context, id, storeID, userID, role string, in dto.SaleRequest) (*dto.SaleResponse, error) {
	if err := validateRequest(in); err != nil {
		return nil, uc.reject(err)
	}
	d := newDraft(in)

	var sale *entity.Sale
	var items []*entity.SaleItem
	var payments []*entity.SalePayment
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		sale, err = tx.Sales.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if storeID != "" && sale.StoreID != storeID {
			return domain.ErrForbidden
		}
		if err := uc.checkClient(ctx, sale.StoreID, in.ClientID, d.debt); err != nil {
			return err
		}

		old, err := tx.Sales.ListItems(ctx, sale.ID)
		if err != nil {
			return err
		}
		now := time.Now()
		book := newLotBook(tx, sale.StoreID)
		if err := returnItems(ctx, tx, book, sale.ID, userID, old, now); err != nil {
			return err
		}
		if err := tx.Sales.DeleteItems(ctx, sale.ID); err != nil {
			return err
		}
		if err := tx.Sales.DeletePayments(ctx, sale.ID); err != nil {
			return err
		}

		sale.ClientID = in.ClientID
		sale.Comment = in.Comment
		if in.Date != nil {
			sale.Date = *in.Date
		}
		sale.UpdatedAt = now
		editor := *sale
		editor.UserID = userID
		_, items, payments, err = uc.applyDraft(ctx, tx, book, &editor, d, now)
		if err != nil {
			return err
		}
		sale.TotalAmount = editor.TotalAmount
		sale.TotalPaid = editor.TotalPaid
		sale.Debt = editor.Debt
		sale.TotalPureRevenue = editor.TotalPureRevenue
		if err := tx.Sales.Update(ctx, sale); err != nil {
			return err
		}
		return persistLines(ctx, tx, items, payments)
	})
	if err != nil {
		return nil, uc.reject(err)
	}

	uc.metrics.SaleSaved("update", sale.TotalAmount, sale.TotalPureRevenue)
	uc.log.Info().
		Str("sale_id", sale.ID).
		Str("total", sale.TotalAmount.String()).
		Str("pure_revenue", sale.TotalPureRevenue.String()).
		Msg("venta editada")
	return toSaleResponse(sale, items, payments, entity.CanSeeProfit(role)), nil
}

// Delete anula una venta devolviendo sus cantidades a los lotes.
func (uc *SaleUseCase) Delete(ctx context.Context, id, storeID, userID string) error {
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		sale, err := tx.Sales.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if storeID != "" && sale.StoreID != storeID {
			return domain.ErrForbidden
		}
		items, err := tx.Sales.ListItems(ctx, sale.ID)
		if err != nil {
			return err
		}
		book := newLotBook(tx, sale.StoreID)
		if err := returnItems(ctx, tx, book, sale.ID, userID, items, time.Now()); err != nil {
			return err
		}
		if err := book.flush(ctx); err != nil {
			return err
		}
		return tx.Sales.Delete(ctx, sale.ID)
	})
	if err != nil {
		return err
	}
	uc.metrics.SaleSaved("delete", decimal.Zero, decimal.Zero)
	uc.log.Info().Str("sale_id", id).Msg("venta anulada")
	return nil
}

// Get obtiene una venta con ítems y pagos; nil si no existe.
func (uc *SaleUseCase) Get(ctx context.Context, id, storeID, role string) (*dto.SaleResponse, error) {
	sale, err := uc.sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, nil
	}
	if storeID != "" && sale.StoreID != storeID {
		return nil, domain.ErrForbidden
	}
	items, err := uc.sales.ListItems(ctx, id)
	if err != nil {
		return nil, err
	}
	payments, err := uc.sales.ListPayments(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, items, payments, entity.CanSeeProfit(role)), nil
}

// List lista ventas de una tienda (sin ítems).
func (uc *SaleUseCase) List(ctx context.Context, f repository.SaleFilter, role string) (*dto.SaleListResponse, error) {
	list, err := uc.sales.List(ctx, f)
	if err != nil {
		return nil, err
	}
	show := entity.CanSeeProfit(role)
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSaleResponse(s, nil, nil, show))
	}
	return &dto.SaleListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: f.Limit, Offset: f.Offset},
	}, nil
}

// PreviewProfit calcula la ganancia de una venta en curso sin bloquear ni persistir.
// Solo para roles que pueden ver la ganancia.
func (uc *SaleUseCase) PreviewProfit(ctx context.Context, storeID, role string, in dto.SaleRequest) (*dto.ProfitPreviewResponse, error) {
	if !entity.CanSeeProfit(role) {
		return nil, domain.ErrForbidden
	}
	if err := validateRequest(in); err != nil {
		return nil, err
	}
	d := newDraft(in)

	costs := make(map[string]profit.CostContext, len(d.lines))
	for _, line := range d.lines {
		if _, ok := costs[line.StockID]; ok {
			continue
		}
		lot, err := uc.stock.GetByID(ctx, line.StockID)
		if err != nil {
			return nil, err
		}
		if lot == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrLookup, line.StockID)
		}
		if storeID != "" && lot.StoreID != storeID {
			return nil, domain.ErrForbidden
		}
		cost, err := uc.resolver.Resolve(ctx, uc.products, uc.recyclings, lot)
		if err != nil {
			return nil, err
		}
		costs[line.StockID] = cost
	}

	res, err := profit.Breakdown(d.lines, costs, d.payments, d.total)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLookup, err)
	}
	out := &dto.ProfitPreviewResponse{
		TotalAmount:      d.total,
		TotalPaid:        d.paid,
		Debt:             d.debt,
		TotalPureRevenue: res.SaleProfit,
		Lines:            make([]dto.ProfitLineResponse, 0, len(res.Lines)),
	}
	for _, l := range res.Lines {
		out.Lines = append(out.Lines, dto.ProfitLineResponse{
			StockID:   l.StockID,
			Basis:     string(l.Basis),
			Extension: l.Extension,
			Profit:    l.Profit,
			Cost:      l.Cost,
			PaidShare: l.PaidShare,
		})
	}
	return out, nil
}

// reject cuenta el rechazo por motivo y devuelve el mismo error.
func (uc *SaleUseCase) reject(err error) error {
	reason := "other"
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		reason = "invalid_input"
	case errors.Is(err, domain.ErrInsufficientStock):
		reason = "insufficient_stock"
	case errors.Is(err, domain.ErrLookup):
		reason = "lookup"
	case errors.Is(err, domain.ErrClientRequired):
		reason = "client_required"
	case errors.Is(err, domain.ErrForbidden):
		reason = "forbidden"
	case errors.Is(err, domain.ErrNotFound):
		reason = "not_found"
	}
	uc.metrics.SaleRejected(reason)
	uc.log.Warn().Err(err).Str("reason", reason).Msg("venta rechazada")
	return err
}

func toSaleResponse(s *entity.Sale, items []*entity.SaleItem, payments []*entity.SalePayment, showProfit bool) *dto.SaleResponse {
	if s == nil {
		return nil
	}
	out := &dto.SaleResponse{
		ID:          s.ID,
		StoreID:     s.StoreID,
		ClientID:    s.ClientID,
		UserID:      s.UserID,
		TotalAmount: s.TotalAmount,
		TotalPaid:   s.TotalPaid,
		Debt:        s.Debt,
		Comment:     s.Comment,
		Date:        s.Date,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
	if showProfit {
		pure := s.TotalPureRevenue
		out.TotalPureRevenue = &pure
	}
	for _, it := range items {
		item := dto.SaleItemResponse{
			ID:        it.ID,
			StockID:   it.StockID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal,
		}
		if showProfit {
			p := it.Profit
			item.Profit = &p
		}
		out.Items = append(out.Items, item)
	}
	for _, p := range payments {
		out.Payments = append(out.Payments, dto.SalePaymentResponse{Method: p.Method, Amount: p.Amount})
	}
	return out
}
