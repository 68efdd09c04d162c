package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// LedgerHandler movimientos de stock, salidas masivas y consulta del kardex (protegido).
type LedgerHandler struct {
	engine   *inventory.MovementEngine
	bulkExit *inventory.BulkExitProcessor
	uc       *inventory.LedgerUseCase
	log      zerolog.Logger
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(engine *inventory.MovementEngine, bulkExit *inventory.BulkExitProcessor, uc *inventory.LedgerUseCase, log zerolog.Logger) *LedgerHandler {
	return &LedgerHandler{engine: engine, bulkExit: bulkExit, uc: uc, log: log}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de stock
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RegisterMovementRequest  true  "item_id, direction (IN|OUT), quantity"
// @Success      201   {object}  dto.LedgerEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ledger/movements [post]
func (h *LedgerHandler) RegisterMovement(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	dir, ok := entity.ParseDirection(in.Direction)
	if !ok {
		return writeError(c, h.log, domain.NewValidationError("direction", "debe ser IN u OUT"))
	}
	entry, err := h.engine.ApplyMovement(c.Context(), inventory.MovementInput{
		ItemID:       in.ItemID,
		Direction:    dir,
		Quantity:     in.Quantity,
		DepartmentID: in.DepartmentID,
		ActorName:    actor,
		Observation:  in.Observation,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToLedgerEntryResponse(entry))
}

// BulkExit godoc
// @Summary      Salida masiva hacia un departamento
// @Description  Cada línea se aplica de forma independiente. La respuesta separa las líneas
//
//	aplicadas de las rechazadas con su motivo.
//
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.BulkExitRequest  true  "Líneas item_id + quantity"
// @Success      200   {object}  dto.BulkExitResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/ledger/bulk-exit [post]
func (h *LedgerHandler) BulkExit(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	var in dto.BulkExitRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	lines := make([]inventory.BulkExitLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, inventory.BulkExitLine{ItemID: l.ItemID, Quantity: l.Quantity})
	}
	res, err := h.bulkExit.ApplyBulkExit(c.Context(), inventory.BulkExitInput{
		Lines:        lines,
		DepartmentID: in.DepartmentID,
		ActorName:    actor,
		Observation:  in.Observation,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := dto.BulkExitResponse{
		Applied: append([]string{}, res.Applied...),
		Entries: dto.ToLedgerEntryList(res.Entries),
		Failed:  make([]dto.BulkExitFailureDTO, 0, len(res.Failed)),
	}
	for _, f := range res.Failed {
		out.Failed = append(out.Failed, dto.BulkExitFailureDTO{Line: f.Line, ItemID: f.ItemID, Code: f.Code, Reason: f.Reason})
	}
	return c.JSON(out)
}

// ListEntries godoc
// @Summary      Consultar kardex
// @Description  Orden cronológico. from inclusivo, to exclusivo (RFC3339).
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        item_id        query  string  false  "Artículo"
// @Param        direction      query  string  false  "IN | OUT"
// @Param        department_id  query  string  false  "Departamento"
// @Param        from           query  string  false  "Desde (RFC3339)"
// @Param        to             query  string  false  "Hasta (RFC3339)"
// @Param        limit          query  int     false  "Límite (máx 100)"
// @Param        offset         query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.LedgerEntryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ledger/entries [get]
func (h *LedgerHandler) ListEntries(c *fiber.Ctx) error {
	filter := repository.LedgerFilter{
		ItemID:       c.Query("item_id"),
		DepartmentID: c.Query("department_id"),
	}
	if d := c.Query("direction"); d != "" {
		dir, ok := entity.ParseDirection(d)
		if !ok {
			return writeError(c, h.log, domain.NewValidationError("direction", "debe ser IN u OUT"))
		}
		filter.Direction = dir
	}
	var err error
	if filter.From, err = queryTime(c, "from"); err != nil {
		return writeError(c, h.log, err)
	}
	if filter.To, err = queryTime(c, "to"); err != nil {
		return writeError(c, h.log, err)
	}
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()
	filter.Limit, filter.Offset = page.Limit, page.Offset

	entries, err := h.uc.List(c.Context(), filter)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToLedgerEntryList(entries))
}

// EditObservation godoc
// @Summary      Editar observación de un asiento
// @Description  La observación es el único campo editable de un asiento.
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                      true  "ID del asiento"
// @Param        body  body      dto.EditObservationRequest  true  "Nueva observación"
// @Success      200   {object}  dto.LedgerEntryResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/ledger/entries/{id}/observation [patch]
func (h *LedgerHandler) EditObservation(c *fiber.Ctx) error {
	var in dto.EditObservationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	entry, err := h.uc.EditObservation(c.Context(), c.Params("id"), in.Observation)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToLedgerEntryResponse(entry))
}

// Correct godoc
// @Summary      Corrección auditada de un asiento (admin)
// @Description  Elimina el asiento y deja un registro de auditoría. No ajusta la cantidad del artículo.
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                 true  "ID del asiento"
// @Param        body  body      dto.CorrectionRequest  true  "Motivo"
// @Success      201   {object}  dto.LedgerCorrectionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/ledger/entries/{id}/correction [post]
func (h *LedgerHandler) Correct(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	var in dto.CorrectionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	corr, err := h.uc.Correct(c.Context(), c.Params("id"), actor, in.Reason)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToLedgerCorrectionResponse(corr))
}

// queryTime parsea un parámetro RFC3339 opcional.
func queryTime(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, domain.NewValidationError(key, "formato RFC3339 esperado")
	}
	return &t, nil
}
