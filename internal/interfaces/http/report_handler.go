package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/kardex-api/internal/application/analytics"
	"github.com/jhoicas/kardex-api/internal/application/dto"
)

// ReportHandler vistas agregadas de stock (protegido).
type ReportHandler struct {
	uc  *analytics.StockReportUseCase
	log zerolog.Logger
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *analytics.StockReportUseCase, log zerolog.Logger) *ReportHandler {
	return &ReportHandler{uc: uc, log: log}
}

// LowStock godoc
// @Summary      Artículos con stock bajo
// @Description  Cantidad actual <= mínimo, ordenados por mayor déficit.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        department_id  query  string  false  "Filtrar por departamento"
// @Success      200  {array}   dto.LowStockDTO
// @Router       /api/reports/low-stock [get]
func (h *ReportHandler) LowStock(c *fiber.Ctx) error {
	low, err := h.uc.LowStock(c.Context(), c.Query("department_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := make([]dto.LowStockDTO, 0, len(low))
	for _, l := range low {
		out = append(out, dto.LowStockDTO{
			ItemID:          l.Item.ID,
			Name:            l.Item.Name,
			DepartmentID:    l.Item.DepartmentID,
			CurrentQuantity: l.Item.CurrentQuantity,
			MinimumQuantity: l.Item.MinimumQuantity,
			Deficit:         l.Deficit,
		})
	}
	return c.JSON(out)
}

// Departments godoc
// @Summary      Distribución de stock por departamento
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.DepartmentDistributionDTO
// @Router       /api/reports/departments [get]
func (h *ReportHandler) Departments(c *fiber.Ctx) error {
	dist, err := h.uc.DepartmentDistribution(c.Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := make([]dto.DepartmentDistributionDTO, 0, len(dist))
	for _, d := range dist {
		out = append(out, dto.DepartmentDistributionDTO{
			DepartmentID:  d.DepartmentID,
			Name:          d.Name,
			Unassigned:    d.Unassigned,
			Known:         d.Known,
			ItemCount:     d.ItemCount,
			TotalQuantity: d.TotalQuantity,
		})
	}
	return c.JSON(out)
}

// MonthlyMovements godoc
// @Summary      Entradas y salidas por mes
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Desde (RFC3339, inclusivo)"
// @Param        to    query  string  false  "Hasta (RFC3339, exclusivo)"
// @Success      200  {array}   dto.MonthlyMovementDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/monthly-movements [get]
func (h *ReportHandler) MonthlyMovements(c *fiber.Ctx) error {
	from, err := queryTime(c, "from")
	if err != nil {
		return writeError(c, h.log, err)
	}
	to, err := queryTime(c, "to")
	if err != nil {
		return writeError(c, h.log, err)
	}
	totals, err := h.uc.MonthlyMovements(c.Context(), from, to)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := make([]dto.MonthlyMovementDTO, 0, len(totals))
	for _, m := range totals {
		out = append(out, dto.MonthlyMovementDTO{
			Month:      m.Label(),
			In:         m.In,
			Out:        m.Out,
			Net:        m.Net,
			EntryCount: m.EntryCount,
		})
	}
	return c.JSON(out)
}
