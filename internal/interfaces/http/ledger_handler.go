package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

// LedgerHandler expone las operaciones del libro de stock (protegido).
type LedgerHandler struct {
	svc *inventory.Service
	log *logger.Logger
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(svc *inventory.Service, log *logger.Logger) *LedgerHandler {
	return &LedgerHandler{svc: svc, log: log}
}

// Reserve godoc
// @Summary      Reservar stock para una orden de demanda
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReserveRequest  true  "ítem, cantidad, orden de demanda, bodega y política opcionales"
// @Success      201   {object}  dto.AllocationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ledger/reservations [post]
func (h *LedgerHandler) Reserve(c *fiber.Ctx) error {
	var in dto.ReserveRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	item, err := parseItem(in.ItemRef)
	if err != nil {
		return writeError(c, h.log, err)
	}
	policy, err := parsePolicy(in.Policy)
	if err != nil {
		return writeError(c, h.log, err)
	}
	res, err := h.svc.Reserve(c.UserContext(), inventory.ReserveInput{
		Item:          item,
		WarehouseID:   in.WarehouseID,
		Quantity:      in.Quantity,
		DemandOrderID: in.DemandOrderID,
		Policy:        policy,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toAllocationResponse(res))
}

// Release godoc
// @Summary      Liberar reservas de una orden de demanda
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReleaseRequest  true  "orden de demanda y líneas a liberar"
// @Success      200   {object}  dto.ReleaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/ledger/releases [post]
func (h *LedgerHandler) Release(c *fiber.Ctx) error {
	var in dto.ReleaseRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	lines := make([]inventory.ReleaseLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		item, err := parseItem(l.ItemRef)
		if err != nil {
			return writeError(c, h.log, err)
		}
		lines = append(lines, inventory.ReleaseLine{Item: item, Quantity: l.Quantity})
	}
	res, err := h.svc.Release(c.UserContext(), inventory.ReleaseInput{DemandOrderID: in.DemandOrderID, Lines: lines})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toReleaseResponse(res))
}

// Issue godoc
// @Summary      Despachar stock (salida de bodega)
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.IssueRequest  true  "bodega, ítem, cantidad, orden de demanda y documento"
// @Success      201   {object}  dto.IssueResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ledger/issues [post]
func (h *LedgerHandler) Issue(c *fiber.Ctx) error {
	var in dto.IssueRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	item, err := parseItem(in.ItemRef)
	if err != nil {
		return writeError(c, h.log, err)
	}
	res, err := h.svc.Issue(c.UserContext(), inventory.IssueInput{
		WarehouseID:   in.WarehouseID,
		Item:          item,
		Quantity:      in.Quantity,
		DemandOrderID: in.DemandOrderID,
		DemandLineID:  in.DemandLineID,
		Document:      inventory.DocumentRef{ID: in.Document.ID, Kind: entity.DocumentKind(in.Document.Kind)},
		Category:      entity.IssueCategory(in.Category),
		SupplierID:    in.SupplierID,
		CreatedBy:     GetUserID(c),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toIssueResponse(res))
}

// Receive godoc
// @Summary      Registrar entrada de stock (nota de recepción)
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiptRequest  true  "bodega, documento y líneas (supply_line_id opcional)"
// @Success      201   {array}   dto.ReceiveResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/ledger/receipts [post]
func (h *LedgerHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	lines := make([]inventory.ReceiptLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		item, err := parseItem(l.ItemRef)
		if err != nil {
			return writeError(c, h.log, err)
		}
		lines = append(lines, inventory.ReceiptLine{Item: item, Quantity: l.Quantity, SupplyLineID: l.SupplyLineID})
	}
	results, err := h.svc.ReceiveNote(c.UserContext(), inventory.ReceiptInput{
		WarehouseID: in.WarehouseID,
		Document:    inventory.DocumentRef{ID: in.Document.ID, Kind: entity.DocumentKind(in.Document.Kind)},
		Lines:       lines,
		CreatedBy:   GetUserID(c),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := make([]dto.ReceiveResponse, 0, len(results))
	for _, r := range results {
		out = append(out, toReceiveResponse(r))
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Available godoc
// @Summary      Total disponible de un ítem en todas las bodegas
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        kind  path  string  true  "MATERIAL o PRODUCT"
// @Param        id    path  string  true  "ID del ítem"
// @Success      200   {object}  dto.AvailableResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/{kind}/{id}/available [get]
func (h *LedgerHandler) Available(c *fiber.Ctx) error {
	item, err := parseItem(dto.ItemRef{Kind: c.Params("kind"), ID: c.Params("id")})
	if err != nil {
		return writeError(c, h.log, err)
	}
	total, err := h.svc.TotalAvailable(c.UserContext(), item)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.AvailableResponse{Item: itemRef(item), Available: total})
}

// ByWarehouse godoc
// @Summary      Stock de un ítem por bodega
// @Description  Con demand_order_id suma lo reservado para esa orden a lo utilizable.
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        kind             path   string  true   "MATERIAL o PRODUCT"
// @Param        id               path   string  true   "ID del ítem"
// @Param        demand_order_id  query  string  false  "Orden de demanda"
// @Success      200  {array}   dto.WarehouseStockResponse
// @Router       /api/items/{kind}/{id}/warehouses [get]
func (h *LedgerHandler) ByWarehouse(c *fiber.Ctx) error {
	item, err := parseItem(dto.ItemRef{Kind: c.Params("kind"), ID: c.Params("id")})
	if err != nil {
		return writeError(c, h.log, err)
	}
	stock, err := h.svc.ByWarehouse(c.UserContext(), item, c.Query("demand_order_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := make([]dto.WarehouseStockResponse, 0, len(stock))
	for _, s := range stock {
		out = append(out, dto.WarehouseStockResponse{
			WarehouseID: s.WarehouseID,
			Available:   s.Available,
			Reserved:    s.Reserved,
			Usable:      s.Usable,
		})
	}
	return c.JSON(out)
}

// Movement godoc
// @Summary      Movimiento de un ítem en un período [from, to)
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        kind          path   string  true   "MATERIAL o PRODUCT"
// @Param        id            path   string  true   "ID del ítem"
// @Param        from          query  string  true   "RFC3339"
// @Param        to            query  string  true   "RFC3339"
// @Param        warehouse_id  query  string  false  "Filtrar por bodega"
// @Success      200  {object}  dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/items/{kind}/{id}/movement [get]
func (h *LedgerHandler) Movement(c *fiber.Ctx) error {
	item, err := parseItem(dto.ItemRef{Kind: c.Params("kind"), ID: c.Params("id")})
	if err != nil {
		return writeError(c, h.log, err)
	}
	from, errFrom := time.Parse(time.RFC3339, c.Query("from"))
	to, errTo := time.Parse(time.RFC3339, c.Query("to"))
	if errFrom != nil || errTo != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from y to en formato RFC3339"})
	}
	mv, err := h.svc.PeriodMovement(c.UserContext(), inventory.PeriodInput{
		Item:        item,
		WarehouseID: c.Query("warehouse_id"),
		From:        from,
		To:          to,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.MovementResponse{
		Item:    itemRef(mv.Item),
		From:    mv.From,
		To:      mv.To,
		Opening: mv.Opening,
		In:      mv.In,
		Out:     mv.Out,
		Closing: mv.Closing,
	})
}
