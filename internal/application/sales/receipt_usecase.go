package sales

import (
	"context"
	"fmt"

	"github.com/jhoicas/retail-admin-api/internal/domain"
	"github.com/jhoicas/retail-admin-api/internal/domain/repository"
)

// ReceiptUseCase genera el comprobante PDF de una venta.
type ReceiptUseCase struct {
	sales     repository.SaleRepository
	stores    repository.StoreRepository
	clients   repository.ClientRepository
	products  repository.ProductRepository
	generator ReceiptPDFGenerator
}

// NewReceiptUseCase construye el caso de uso inyectando todas sus dependencias.
func NewReceiptUseCase(
	sales repository.SaleRepository,
	stores repository.StoreRepository,
	clients repository.ClientRepository,
	products repository.ProductRepository,
	generator ReceiptPDFGenerator,
) *ReceiptUseCase {
	return &ReceiptUseCase{
		sales:     sales,
		stores:    stores,
		clients:   clients,
		products:  products,
		generator: generator,
	}
}

// DownloadReceiptPDF recupera la venta con sus líneas y pagos y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la venta no existe.
//   - domain.ErrForbidden        si la venta es de otra tienda (storeID vacío = superuser).
func (uc *ReceiptUseCase) DownloadReceiptPDF(ctx context.Context, storeID, saleID string) (pdfBytes []byte, filename string, err error) {
	sale, err := uc.sales.GetByID(ctx, saleID)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: obtener venta: %w", err)
	}
	if sale == nil {
		return nil, "", domain.ErrNotFound
	}
	if storeID != "" && sale.StoreID != storeID {
		return nil, "", domain.ErrForbidden
	}

	r := &Receipt{
		SaleID:      sale.ID,
		Date:        sale.Date,
		Comment:     sale.Comment,
		TotalAmount: sale.TotalAmount,
		TotalPaid:   sale.TotalPaid,
		Debt:        sale.Debt,
	}
	store, err := uc.stores.GetByID(ctx, sale.StoreID)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: obtener tienda: %w", err)
	}
	if store != nil {
		r.StoreName, r.StoreAddress, r.StorePhone = store.Name, store.Address, store.Phone
	}
	if sale.ClientID != "" {
		client, err := uc.clients.GetByID(ctx, sale.ClientID)
		if err != nil {
			return nil, "", fmt.Errorf("receipt: obtener cliente: %w", err)
		}
		if client != nil {
			r.ClientName, r.ClientPhone = client.Name, client.Phone
		}
	}

	items, err := uc.sales.ListItems(ctx, sale.ID)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: obtener líneas: %w", err)
	}
	names := map[string]string{}
	for _, it := range items {
		name, ok := names[it.ProductID]
		if !ok {
			name = "Producto " + it.ProductID // fallback
			if p, pErr := uc.products.GetByID(ctx, it.ProductID); pErr == nil && p != nil {
				name = p.Name
			}
			names[it.ProductID] = name
		}
		r.Lines = append(r.Lines, ReceiptLine{
			ProductName: name,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
		})
	}

	payments, err := uc.sales.ListPayments(ctx, sale.ID)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: obtener pagos: %w", err)
	}
	for _, p := range payments {
		r.Payments = append(r.Payments, ReceiptPayment{Method: p.Method, Amount: p.Amount})
	}

	pdfBytes, err = uc.generator.GenerateReceiptPDF(ctx, r)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("venta_%s.pdf", sale.Date.Format("20060102_150405")), nil
}
