package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/orders"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

// SalesOrderHandler flujos de la orden de venta (protegido).
type SalesOrderHandler struct {
	uc  *orders.SalesOrderUseCase
	log *logger.Logger
}

// NewSalesOrderHandler construye el handler.
func NewSalesOrderHandler(uc *orders.SalesOrderUseCase, log *logger.Logger) *SalesOrderHandler {
	return &SalesOrderHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Crear orden de venta
// @Tags         sales-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSalesOrderRequest  true  "productos y materiales requeridos"
// @Success      201   {object}  dto.SalesOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/sales-orders [post]
func (h *SalesOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSalesOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	products, err := parseLines(in.Products)
	if err != nil {
		return writeError(c, h.log, err)
	}
	materials, err := parseLines(in.Materials)
	if err != nil {
		return writeError(c, h.log, err)
	}
	order, err := h.uc.Create(c.UserContext(), orders.CreateSalesOrderInput{
		Code:       in.Code,
		CustomerID: in.CustomerID,
		Products:   products,
		Materials:  materials,
		CreatedBy:  GetUserID(c),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSalesOrderResponse(order))
}

// GetByID godoc
// @Summary      Obtener orden de venta
// @Tags         sales-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.SalesOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales-orders/{id} [get]
func (h *SalesOrderHandler) GetByID(c *fiber.Ctx) error {
	order, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toSalesOrderResponse(order))
}

// ReserveProducts godoc
// @Summary      Reservar los productos pendientes (todo o nada)
// @Tags         sales-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true   "ID de la orden"
// @Param        body  body  dto.ReserveLinesRequest  false  "bodega opcional"
// @Success      200   {array}   dto.AllocationResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales-orders/{id}/reserve-products [post]
func (h *SalesOrderHandler) ReserveProducts(c *fiber.Ctx) error {
	var in dto.ReserveLinesRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	res, err := h.uc.ReserveProducts(c.UserContext(), c.Params("id"), in.WarehouseID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toAllocationResponses(res))
}

// PrepareMaterial godoc
// @Summary      Reservar el material pendiente (parcial permitido)
// @Tags         sales-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true   "ID de la orden"
// @Param        body  body  dto.ReserveLinesRequest  false  "bodega opcional"
// @Success      200   {array}   dto.AllocationResponse
// @Router       /api/sales-orders/{id}/prepare-material [post]
func (h *SalesOrderHandler) PrepareMaterial(c *fiber.Ctx) error {
	var in dto.ReserveLinesRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	res, err := h.uc.PrepareMaterial(c.UserContext(), c.Params("id"), in.WarehouseID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toAllocationResponses(res))
}

// Cancel godoc
// @Summary      Cancelar orden de venta y liberar sus reservas
// @Tags         sales-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.ReleaseResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales-orders/{id}/cancel [post]
func (h *SalesOrderHandler) Cancel(c *fiber.Ctx) error {
	res, err := h.uc.Cancel(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toReleaseResponse(res))
}

// DisplayStatus godoc
// @Summary      Estado a mostrar de la orden (incluye sub-etiquetas de solicitudes)
// @Tags         sales-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.DisplayStatusResponse
// @Router       /api/sales-orders/{id}/display-status [get]
func (h *SalesOrderHandler) DisplayStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	label, err := h.uc.DisplayStatus(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.DisplayStatusResponse{ID: id, Status: label})
}
