package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// ItemHandler maneja las peticiones HTTP de artículos (protegido).
type ItemHandler struct {
	uc       *inventory.ItemUseCase
	ledgerUC *inventory.LedgerUseCase
	log      zerolog.Logger
}

// NewItemHandler construye el handler.
func NewItemHandler(uc *inventory.ItemUseCase, ledgerUC *inventory.LedgerUseCase, log zerolog.Logger) *ItemHandler {
	return &ItemHandler{uc: uc, ledgerUC: ledgerUC, log: log}
}

// Create godoc
// @Summary      Crear artículo
// @Description  initial_quantity > 0 registra un asiento INITIAL en el kardex.
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateItemRequest  true  "Datos del artículo"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	item, err := h.uc.Create(c.Context(), inventory.CreateItemInput{
		Name:            in.Name,
		CategoryID:      in.CategoryID,
		DepartmentID:    in.DepartmentID,
		MinimumQuantity: in.MinimumQuantity,
		InitialQuantity: in.InitialQuantity,
		ActorName:       actor,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToItemResponse(item))
}

// List godoc
// @Summary      Listar artículos
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        department_id  query  string  false  "Filtrar por departamento"
// @Param        category_id    query  string  false  "Filtrar por categoría"
// @Param        low_stock      query  bool    false  "Solo artículos en o por debajo del mínimo"
// @Param        limit          query  int     false  "Límite (máx 100)"
// @Param        offset         query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.ItemListResponse
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()
	items, err := h.uc.List(c.Context(), repository.ItemFilter{
		DepartmentID: c.Query("department_id"),
		CategoryID:   c.Query("category_id"),
		LowStockOnly: c.QueryBool("low_stock", false),
		Limit:        page.Limit,
		Offset:       page.Offset,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := make([]dto.ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.ToItemResponse(it))
	}
	return c.JSON(dto.ItemListResponse{Items: out, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}})
}

// GetByID godoc
// @Summary      Obtener artículo
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del artículo"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	item, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToItemResponse(item))
}

// Update godoc
// @Summary      Actualizar artículo
// @Description  Solo campos descriptivos; la cantidad cambia únicamente con movimientos.
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                 true  "ID del artículo"
// @Param        body  body      dto.UpdateItemRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/{id} [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	item, err := h.uc.Update(c.Context(), c.Params("id"), inventory.UpdateItemInput{
		Name:            in.Name,
		CategoryID:      in.CategoryID,
		DepartmentID:    in.DepartmentID,
		MinimumQuantity: in.MinimumQuantity,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToItemResponse(item))
}

// Delete godoc
// @Summary      Eliminar artículo
// @Description  El historial del kardex se conserva.
// @Tags         items
// @Security     Bearer
// @Param        id   path  string  true  "ID del artículo"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [delete]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Reconciliation godoc
// @Summary      Conciliar artículo contra su kardex
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del artículo"
// @Success      200  {object}  dto.ReconciliationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/reconciliation [get]
func (h *ItemHandler) Reconciliation(c *fiber.Ctx) error {
	r, err := h.ledgerUC.Reconcile(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ReconciliationResponse{
		ItemID:     r.ItemID,
		Current:    r.Current,
		Expected:   r.Expected,
		Drift:      r.Drift,
		TotalIn:    r.TotalIn,
		TotalOut:   r.TotalOut,
		EntryCount: r.EntryCount,
		Consistent: r.Consistent(),
	})
}
