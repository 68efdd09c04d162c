// Package analytics contiene las vistas agregadas de solo lectura sobre artículos y kardex.
// Se recalculan en cada consulta; no hay caché ni mantenimiento incremental.
package analytics

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/inventory"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// UnassignedLabel etiqueta del bucket de artículos sin departamento.
const UnassignedLabel = "Sin asignar"

// DepartmentSummary bucket etiquetado. Known=false indica que la referencia no existe
// en los datos de referencia (referencia colgante); se conserva como bucket propio.
type DepartmentSummary struct {
	inventory.DepartmentBucket
	Name  string
	Known bool
}

// StockReportUseCase genera las vistas de stock bajo, distribución por departamento y
// totales mensuales a partir del estado actual del repositorio.
type StockReportUseCase struct {
	itemRepo   repository.ItemRepository
	ledgerRepo repository.LedgerRepository
	refRepo    repository.ReferenceRepository
	loc        *time.Location
}

// NewStockReportUseCase construye el caso de uso. loc define el mes calendario (UTC si nil).
func NewStockReportUseCase(
	itemRepo repository.ItemRepository,
	ledgerRepo repository.LedgerRepository,
	refRepo repository.ReferenceRepository,
	loc *time.Location,
) *StockReportUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &StockReportUseCase{itemRepo: itemRepo, ledgerRepo: ledgerRepo, refRepo: refRepo, loc: loc}
}

// LowStock artículos con cantidad actual <= mínimo. departmentID vacío = todos.
func (uc *StockReportUseCase) LowStock(ctx context.Context, departmentID string) ([]inventory.LowStockItem, error) {
	items, err := uc.itemRepo.List(ctx, repository.ItemFilter{DepartmentID: departmentID})
	if err != nil {
		return nil, err
	}
	return inventory.LowStock(items), nil
}

// DepartmentDistribution conteo y suma de cantidades por departamento, con nombres resueltos.
func (uc *StockReportUseCase) DepartmentDistribution(ctx context.Context) ([]DepartmentSummary, error) {
	var (
		items []*entity.Item
		depts []*entity.Department
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = uc.itemRepo.List(gctx, repository.ItemFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		depts, err = uc.refRepo.ListDepartments(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	names := make(map[string]string, len(depts))
	for _, d := range depts {
		names[d.ID] = d.Name
	}

	buckets := inventory.DepartmentDistribution(items)
	out := make([]DepartmentSummary, 0, len(buckets))
	for _, b := range buckets {
		s := DepartmentSummary{DepartmentBucket: b}
		switch {
		case b.Unassigned:
			s.Name = UnassignedLabel
		default:
			s.Name, s.Known = names[b.DepartmentID]
			if !s.Known {
				s.Name = b.DepartmentID
			}
		}
		out = append(out, s)
	}
	return out, nil
}

// MonthlyMovements totales de entradas/salidas por mes calendario en el rango [from, to).
func (uc *StockReportUseCase) MonthlyMovements(ctx context.Context, from, to *time.Time) ([]inventory.MonthlyTotal, error) {
	entries, err := uc.ledgerRepo.List(ctx, repository.LedgerFilter{From: from, To: to})
	if err != nil {
		return nil, err
	}
	return inventory.MonthlyMovementTotals(entries, uc.loc), nil
}
