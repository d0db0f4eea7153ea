package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-admin-api/internal/application/dto"
	"github.com/jhoicas/retail-admin-api/internal/application/inventory"
)

// StockHandler maneja lotes, traslados y reciclajes (protegido).
type StockHandler struct {
	uc *inventory.StockUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *inventory.StockUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// ReceiveLot godoc
// @Summary      Registrar llegada de un lote
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiveLotRequest  true  "product_id, quantity, costos, precio de venta, medidas"
// @Success      201   {object}  dto.StockLotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock [post]
func (h *StockHandler) ReceiveLot(c *fiber.Ctx) error {
	var in dto.ReceiveLotRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	storeID := storeScope(c)
	if storeID == "" {
		storeID = in.StoreID
	}
	out, err := h.uc.ReceiveLot(c.UserContext(), storeID, GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetLot godoc
// @Summary      Obtener lote
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {object}  dto.StockLotResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{id} [get]
func (h *StockHandler) GetLot(c *fiber.Ctx) error {
	out, err := h.uc.GetLot(c.UserContext(), c.Params("id"), storeScope(c))
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return notFound(c, "lote no encontrado")
	}
	return c.JSON(out)
}

// ListLots godoc
// @Summary      Listar lotes de la tienda
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        available  query  bool  false  "Solo lotes con existencia"
// @Param        limit      query  int   false  "Límite"  default(20)
// @Param        offset     query  int   false  "Offset"  default(0)
// @Success      200        {object}  dto.StockLotListResponse
// @Router       /api/stock [get]
func (h *StockHandler) ListLots(c *fiber.Ctx) error {
	p := pageFromQuery(c)
	out, err := h.uc.ListLots(c.UserContext(), storeScope(c), c.QueryBool("available", false), p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Movements godoc
// @Summary      Historial de movimientos de un lote
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del lote"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {array}  dto.MovementResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/stock/{id}/movements [get]
func (h *StockHandler) Movements(c *fiber.Ctx) error {
	id := c.Params("id")
	lot, err := h.uc.GetLot(c.UserContext(), id, storeScope(c))
	if err != nil {
		return respondError(c, err)
	}
	if lot == nil {
		return notFound(c, "lote no encontrado")
	}
	p := pageFromQuery(c)
	out, err := h.uc.Movements(c.UserContext(), id, p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Transfer godoc
// @Summary      Trasladar cantidad de un lote a otra tienda
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "stock_id, to_store_id, quantity"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers [post]
func (h *StockHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Transfer(c.UserContext(), storeScope(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CreateRecycling godoc
// @Summary      Registrar reciclaje
// @Tags         recyclings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRecyclingRequest  true  "lote origen, producto resultante, cantidades y precio"
// @Success      201   {object}  dto.RecyclingResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/recyclings [post]
func (h *StockHandler) CreateRecycling(c *fiber.Ctx) error {
	var in dto.CreateRecyclingRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateRecycling(c.UserContext(), storeScope(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListRecyclings godoc
// @Summary      Listar reciclajes de la tienda
// @Tags         recyclings
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.RecyclingListResponse
// @Router       /api/recyclings [get]
func (h *StockHandler) ListRecyclings(c *fiber.Ctx) error {
	p := pageFromQuery(c)
	out, err := h.uc.ListRecyclings(c.UserContext(), storeScope(c), p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
