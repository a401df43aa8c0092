package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/orders"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

// IssueNoteHandler notas de salida y seguimiento de maquila (protegido).
type IssueNoteHandler struct {
	notes       *orders.IssueNoteUseCase
	outsourcing *orders.OutsourcingUseCase
	log         *logger.Logger
}

// NewIssueNoteHandler construye el handler.
func NewIssueNoteHandler(notes *orders.IssueNoteUseCase, outsourcing *orders.OutsourcingUseCase, log *logger.Logger) *IssueNoteHandler {
	return &IssueNoteHandler{notes: notes, outsourcing: outsourcing, log: log}
}

// Create godoc
// @Summary      Crear nota de salida (PENDING)
// @Tags         issue-notes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateIssueNoteRequest  true  "bodega, orden de venta, categoría y líneas"
// @Success      201   {object}  dto.IssueNoteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/issue-notes [post]
func (h *IssueNoteHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateIssueNoteRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	lines := make([]entity.IssueLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		item, err := parseItem(l.ItemRef)
		if err != nil {
			return writeError(c, h.log, err)
		}
		lines = append(lines, entity.IssueLine{Item: item, Quantity: l.Quantity, DemandLineID: l.DemandLineID})
	}
	expected := make([]entity.ExpectedReturn, 0, len(in.ExpectedReturns))
	for _, e := range in.ExpectedReturns {
		item, err := parseItem(e.ItemRef)
		if err != nil {
			return writeError(c, h.log, err)
		}
		expected = append(expected, entity.ExpectedReturn{Item: item, Quantity: e.Quantity})
	}
	note, err := h.notes.Create(c.UserContext(), orders.CreateIssueNoteInput{
		Code:            in.Code,
		WarehouseID:     in.WarehouseID,
		SalesOrderID:    in.SalesOrderID,
		Category:        entity.IssueCategory(in.Category),
		SupplierID:      in.SupplierID,
		Lines:           lines,
		ExpectedReturns: expected,
		CreatedBy:       GetUserID(c),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toIssueNoteResponse(note))
}

// GetByID godoc
// @Summary      Obtener nota de salida
// @Tags         issue-notes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la nota"
// @Success      200  {object}  dto.IssueNoteResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/issue-notes/{id} [get]
func (h *IssueNoteHandler) GetByID(c *fiber.Ctx) error {
	note, err := h.notes.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toIssueNoteResponse(note))
}

// Post godoc
// @Summary      Contabilizar nota de salida (despacha todas las líneas)
// @Tags         issue-notes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la nota"
// @Success      200  {object}  dto.PostIssueNoteResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/issue-notes/{id}/post [post]
func (h *IssueNoteHandler) Post(c *fiber.Ctx) error {
	res, err := h.notes.Post(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := dto.PostIssueNoteResponse{
		Note:        toIssueNoteResponse(res.Note),
		Issues:      make([]dto.IssueResponse, 0, len(res.Issues)),
		Outsourcing: toOutsourcingResponse(res.Outsourcing),
	}
	for _, is := range res.Issues {
		out.Issues = append(out.Issues, toIssueResponse(is))
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Anular nota de salida pendiente
// @Tags         issue-notes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la nota"
// @Success      200  {object}  dto.IssueNoteResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/issue-notes/{id}/cancel [post]
func (h *IssueNoteHandler) Cancel(c *fiber.Ctx) error {
	note, err := h.notes.Cancel(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toIssueNoteResponse(note))
}

// GetOutsourcing godoc
// @Summary      Obtener registro de maquila
// @Tags         outsourcing
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del registro"
// @Success      200  {object}  dto.OutsourcingResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/outsourcing/{id} [get]
func (h *IssueNoteHandler) GetOutsourcing(c *fiber.Ctx) error {
	rec, err := h.outsourcing.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toOutsourcingResponse(rec))
}

// RecordReturn godoc
// @Summary      Registrar retorno de materiales del maquilador
// @Tags         outsourcing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID del registro"
// @Param        body  body  dto.OutsourcingReturnRequest  true  "líneas devueltas"
// @Success      200   {object}  dto.OutsourcingResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/outsourcing/{id}/returns [post]
func (h *IssueNoteHandler) RecordReturn(c *fiber.Ctx) error {
	var in dto.OutsourcingReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	lines, err := parseLines(in.Lines)
	if err != nil {
		return writeError(c, h.log, err)
	}
	rec, err := h.outsourcing.RecordReturn(c.UserContext(), c.Params("id"), orders.ReturnInput{
		WarehouseID: in.WarehouseID,
		DocumentID:  in.DocumentID,
		Lines:       lines,
		CreatedBy:   GetUserID(c),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toOutsourcingResponse(rec))
}

// CancelOutsourcing godoc
// @Summary      Anular seguimiento de maquila
// @Tags         outsourcing
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del registro"
// @Success      200  {object}  dto.OutsourcingResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/outsourcing/{id}/cancel [post]
func (h *IssueNoteHandler) CancelOutsourcing(c *fiber.Ctx) error {
	rec, err := h.outsourcing.Cancel(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toOutsourcingResponse(rec))
}
