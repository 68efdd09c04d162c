package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/analytics"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/testutil"
)

func seedItem(t *testing.T, s *testutil.Store, name, departmentID string, qty, min int64) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, s.Items.Create(context.Background(), &entity.Item{
		ID: uuid.New().String(), Name: name, DepartmentID: departmentID,
		CurrentQuantity: qty, MinimumQuantity: min, CreatedAt: now, UpdatedAt: now,
	}))
}

func seedEntry(t *testing.T, s *testutil.Store, dir entity.Direction, qty int64, at time.Time) {
	t.Helper()
	require.NoError(t, s.Ledger.Insert(context.Background(), &entity.LedgerEntry{
		ID: uuid.New().String(), ItemID: "i1", ItemName: "Papel A4", Direction: dir,
		QuantityChanged: qty, Origin: entity.OriginManual, ActorName: "ana", CreatedAt: at,
	}))
}

func TestLowStock_OrdenPorDeficit(t *testing.T) {
	s := testutil.NewStore(t)
	seedItem(t, s, "Papel A4", "d1", 2, 10)
	seedItem(t, s, "Tóner", "d1", 1, 3)
	seedItem(t, s, "Clips", "d2", 5, 5)
	seedItem(t, s, "Grapas", "d1", 50, 5)

	uc := analytics.NewStockReportUseCase(s.Items, s.Ledger, s.Reference, nil)

	low, err := uc.LowStock(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, low, 3)
	assert.Equal(t, "Papel A4", low[0].Item.Name)
	assert.Equal(t, int64(8), low[0].Deficit)
	assert.Equal(t, "Clips", low[2].Item.Name, "en el mínimo cuenta como stock bajo")

	d1, err := uc.LowStock(context.Background(), "d1")
	require.NoError(t, err)
	assert.Len(t, d1, 2)
}

func TestDepartmentDistribution_ResuelveNombres(t *testing.T) {
	s := testutil.NewStore(t)
	s.SeedDepartment(t, "d1", "Contabilidad")
	seedItem(t, s, "Papel A4", "d1", 10, 0)
	seedItem(t, s, "Tóner", "d1", 3, 0)
	seedItem(t, s, "Clips", "", 7, 0)
	seedItem(t, s, "Sellos", "d-borrado", 2, 0)

	uc := analytics.NewStockReportUseCase(s.Items, s.Ledger, s.Reference, nil)
	dist, err := uc.DepartmentDistribution(context.Background())
	require.NoError(t, err)
	require.Len(t, dist, 3)

	assert.Equal(t, "d-borrado", dist[0].DepartmentID)
	assert.False(t, dist[0].Known, "referencia colgante se conserva como bucket propio")
	assert.Equal(t, "d-borrado", dist[0].Name)

	assert.Equal(t, "Contabilidad", dist[1].Name)
	assert.True(t, dist[1].Known)
	assert.Equal(t, 2, dist[1].ItemCount)
	assert.Equal(t, int64(13), dist[1].TotalQuantity)

	assert.True(t, dist[2].Unassigned)
	assert.Equal(t, analytics.UnassignedLabel, dist[2].Name)
	assert.Equal(t, int64(7), dist[2].TotalQuantity)
}

func TestMonthlyMovements_AgrupaPorMes(t *testing.T) {
	s := testutil.NewStore(t)
	seedEntry(t, s, entity.DirectionIn, 50, time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC))
	seedEntry(t, s, entity.DirectionOut, 20, time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC))
	seedEntry(t, s, entity.DirectionOut, 5, time.Date(2024, 3, 1, 0, 30, 0, 0, time.UTC))

	uc := analytics.NewStockReportUseCase(s.Items, s.Ledger, s.Reference, time.UTC)
	totals, err := uc.MonthlyMovements(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, "2024-01", totals[0].Label())
	assert.Equal(t, int64(50), totals[0].In)
	assert.Equal(t, int64(20), totals[0].Out)
	assert.Equal(t, int64(30), totals[0].Net)
	assert.Equal(t, "2024-03", totals[1].Label())

	from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	ranged, err := uc.MonthlyMovements(context.Background(), &from, nil)
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, int64(5), ranged[0].Out)
}

func TestMonthlyMovements_ZonaHoraria(t *testing.T) {
	s := testutil.NewStore(t)
	// 2024-03-01 00:30 UTC es 2024-02-29 en Bogotá (UTC-5)
	seedEntry(t, s, entity.DirectionOut, 5, time.Date(2024, 3, 1, 0, 30, 0, 0, time.UTC))

	bogota := time.FixedZone("COT", -5*3600)
	uc := analytics.NewStockReportUseCase(s.Items, s.Ledger, s.Reference, bogota)
	totals, err := uc.MonthlyMovements(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.Equal(t, "2024-02", totals[0].Label())
}
