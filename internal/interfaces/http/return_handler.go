package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/returns"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// ReturnHandler flujo de solicitudes de devolución (protegido).
type ReturnHandler struct {
	uc  *returns.UseCase
	log zerolog.Logger
}

// NewReturnHandler construye el handler.
func NewReturnHandler(uc *returns.UseCase, log zerolog.Logger) *ReturnHandler {
	return &ReturnHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Crear solicitud de devolución
// @Tags         returns
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateReturnRequest  true  "item_name, quantity, reason"
// @Success      201   {object}  dto.ReturnResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/returns [post]
func (h *ReturnHandler) Create(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	var in dto.CreateReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	req, err := h.uc.Create(c.Context(), returns.CreateInput{
		ItemName:     in.ItemName,
		Quantity:     in.Quantity,
		Reason:       in.Reason,
		DepartmentID: in.DepartmentID,
		RequestedBy:  actor,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToReturnResponse(req))
}

// List godoc
// @Summary      Listar solicitudes de devolución
// @Description  Más recientes primero.
// @Tags         returns
// @Security     Bearer
// @Produce      json
// @Param        status         query  string  false  "PENDING | APPROVED | REJECTED | COMPLETED"
// @Param        department_id  query  string  false  "Departamento"
// @Param        limit          query  int     false  "Límite (máx 100)"
// @Param        offset         query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.ReturnResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/returns [get]
func (h *ReturnHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()
	filter := repository.ReturnFilter{
		DepartmentID: c.Query("department_id"),
		Limit:        page.Limit,
		Offset:       page.Offset,
	}
	if s := c.Query("status"); s != "" {
		status := entity.ReturnStatus(strings.ToUpper(s))
		if !status.Valid() {
			return writeError(c, h.log, domain.NewValidationError("status", "estado desconocido"))
		}
		filter.Status = status
	}
	reqs, err := h.uc.List(c.Context(), filter)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := make([]dto.ReturnResponse, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, dto.ToReturnResponse(r))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener solicitud de devolución
// @Tags         returns
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la solicitud"
// @Success      200  {object}  dto.ReturnResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/returns/{id} [get]
func (h *ReturnHandler) GetByID(c *fiber.Ctx) error {
	req, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToReturnResponse(req))
}

// Edit godoc
// @Summary      Editar solicitud de devolución
// @Description  Solo mientras está PENDING.
// @Tags         returns
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                 true  "ID de la solicitud"
// @Param        body  body      dto.EditReturnRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.ReturnResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/returns/{id} [put]
func (h *ReturnHandler) Edit(c *fiber.Ctx) error {
	var in dto.EditReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	req, err := h.uc.Edit(c.Context(), c.Params("id"), returns.EditInput{
		ItemName:     in.ItemName,
		Quantity:     in.Quantity,
		Reason:       in.Reason,
		DepartmentID: in.DepartmentID,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToReturnResponse(req))
}

// Approve godoc
// @Summary      Aprobar devolución (admin)
// @Tags         returns
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la solicitud"
// @Success      200  {object}  dto.ReturnResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/returns/{id}/approve [post]
func (h *ReturnHandler) Approve(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Approve)
}

// Reject godoc
// @Summary      Rechazar devolución (admin)
// @Tags         returns
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la solicitud"
// @Success      200  {object}  dto.ReturnResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/returns/{id}/reject [post]
func (h *ReturnHandler) Reject(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Reject)
}

// Complete godoc
// @Summary      Completar devolución (admin)
// @Description  Reingresa la cantidad al artículo y registra el asiento RETURN. Una segunda
//
//	llamada responde 409 INVALID_TRANSITION sin acreditar de nuevo.
//
// @Tags         returns
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la solicitud"
// @Success      200  {object}  dto.CompleteReturnResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/returns/{id}/complete [post]
func (h *ReturnHandler) Complete(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	req, entry, err := h.uc.Complete(c.Context(), c.Params("id"), actor)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.CompleteReturnResponse{
		Return: dto.ToReturnResponse(req),
		Entry:  dto.ToLedgerEntryResponse(entry),
	})
}

// Delete godoc
// @Summary      Eliminar solicitud de devolución
// @Tags         returns
// @Security     Bearer
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/returns/{id} [delete]
func (h *ReturnHandler) Delete(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	if err := h.uc.Delete(c.Context(), c.Params("id"), actor); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type transitionFunc func(ctx context.Context, id, actorName string) (*entity.ReturnRequest, error)

func (h *ReturnHandler) transition(c *fiber.Ctx, fn transitionFunc) error {
	actor, err := actorFrom(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	req, err := fn(c.Context(), c.Params("id"), actor)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToReturnResponse(req))
}
