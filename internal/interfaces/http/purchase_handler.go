package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/orders"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

// PurchaseHandler solicitudes y órdenes de compra (protegido).
type PurchaseHandler struct {
	uc  *orders.PurchaseUseCase
	log *logger.Logger
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(uc *orders.PurchaseUseCase, log *logger.Logger) *PurchaseHandler {
	return &PurchaseHandler{uc: uc, log: log}
}

// CreateRequest godoc
// @Summary      Crear solicitud de compra
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseRequestRequest  true  "líneas y orden de venta opcional"
// @Success      201   {object}  dto.PurchaseRequestResponse
// @Router       /api/purchase-requests [post]
func (h *PurchaseHandler) CreateRequest(c *fiber.Ctx) error {
	var in dto.CreatePurchaseRequestRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	lines, err := parseLines(in.Lines)
	if err != nil {
		return writeError(c, h.log, err)
	}
	pr, err := h.uc.CreateRequest(c.UserContext(), orders.CreatePurchaseRequestInput{
		Code:         in.Code,
		SalesOrderID: in.SalesOrderID,
		Lines:        lines,
		CreatedBy:    GetUserID(c),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPurchaseRequestResponse(pr))
}

// GetRequest godoc
// @Summary      Obtener solicitud de compra
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.PurchaseRequestResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-requests/{id} [get]
func (h *PurchaseHandler) GetRequest(c *fiber.Ctx) error {
	pr, err := h.uc.GetRequest(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toPurchaseRequestResponse(pr))
}

// Confirm godoc
// @Summary      Confirmar solicitud de compra
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.PurchaseRequestResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-requests/{id}/confirm [post]
func (h *PurchaseHandler) Confirm(c *fiber.Ctx) error {
	pr, err := h.uc.Confirm(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toPurchaseRequestResponse(pr))
}

// Reject godoc
// @Summary      Rechazar solicitud de compra
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.PurchaseRequestResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-requests/{id}/reject [post]
func (h *PurchaseHandler) Reject(c *fiber.Ctx) error {
	pr, err := h.uc.Reject(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toPurchaseRequestResponse(pr))
}

// CancelRequest godoc
// @Summary      Cancelar solicitud de compra y liberar lo reservado
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.ReleaseResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-requests/{id}/cancel [post]
func (h *PurchaseHandler) CancelRequest(c *fiber.Ctx) error {
	res, err := h.uc.CancelRequest(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toReleaseResponse(res))
}

// Convert godoc
// @Summary      Convertir solicitud en orden de compra
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID de la solicitud"
// @Param        body  body  dto.ConvertRequest  true  "proveedor y bodega de recepción"
// @Success      201   {object}  dto.PurchaseOrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-requests/{id}/convert [post]
func (h *PurchaseHandler) Convert(c *fiber.Ctx) error {
	var in dto.ConvertRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	po, err := h.uc.ConvertToPurchaseOrder(c.UserContext(), c.Params("id"), orders.ConvertInput{
		Code:        in.Code,
		SupplierID:  in.SupplierID,
		WarehouseID: in.WarehouseID,
		CreatedBy:   GetUserID(c),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPurchaseOrderResponse(po))
}

// CreateOrder godoc
// @Summary      Crear orden de compra
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseOrderRequest  true  "proveedor, bodega, líneas y orden de venta opcional"
// @Success      201   {object}  dto.PurchaseOrderResponse
// @Router       /api/purchase-orders [post]
func (h *PurchaseHandler) CreateOrder(c *fiber.Ctx) error {
	var in dto.CreatePurchaseOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	lines, err := parseLines(in.Lines)
	if err != nil {
		return writeError(c, h.log, err)
	}
	po, err := h.uc.CreateOrder(c.UserContext(), orders.CreatePurchaseOrderInput{
		Code:         in.Code,
		SupplierID:   in.SupplierID,
		WarehouseID:  in.WarehouseID,
		SalesOrderID: in.SalesOrderID,
		Lines:        lines,
		CreatedBy:    GetUserID(c),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPurchaseOrderResponse(po))
}

// GetOrder godoc
// @Summary      Obtener orden de compra
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id} [get]
func (h *PurchaseHandler) GetOrder(c *fiber.Ctx) error {
	po, err := h.uc.GetOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toPurchaseOrderResponse(po))
}

// CancelOrder godoc
// @Summary      Cancelar orden de compra
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/cancel [post]
func (h *PurchaseHandler) CancelOrder(c *fiber.Ctx) error {
	po, err := h.uc.CancelOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toPurchaseOrderResponse(po))
}
