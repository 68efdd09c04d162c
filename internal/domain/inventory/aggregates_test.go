package inventory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/inventory"
)

func TestLowStock_IncluyeIgualAlMinimoYOrdenaPorDeficit(t *testing.T) {
	items := []*entity.Item{
		{ID: "a", Name: "Papel A4", CurrentQuantity: 50, MinimumQuantity: 10},
		{ID: "b", Name: "Tóner", CurrentQuantity: 10, MinimumQuantity: 10},
		{ID: "c", Name: "Grapas", CurrentQuantity: 0, MinimumQuantity: 5},
		{ID: "d", Name: "Clips", CurrentQuantity: 2, MinimumQuantity: 7},
	}

	low := inventory.LowStock(items)

	require.Len(t, low, 3, "el artículo con stock sobre el mínimo no debe aparecer")
	assert.Equal(t, "d", low[0].Item.ID, "empate de déficit se resuelve por nombre: Clips antes que Grapas")
	assert.Equal(t, int64(5), low[0].Deficit)
	assert.Equal(t, "c", low[1].Item.ID)
	assert.Equal(t, int64(5), low[1].Deficit)
	assert.Equal(t, "b", low[2].Item.ID, "cantidad igual al mínimo cuenta como stock bajo")
	assert.Equal(t, int64(0), low[2].Deficit)
}

func TestLowStock_MayorDeficitPrimero(t *testing.T) {
	items := []*entity.Item{
		{ID: "a", Name: "Archivadores", CurrentQuantity: 4, MinimumQuantity: 5},
		{ID: "z", Name: "Zunchos", CurrentQuantity: 0, MinimumQuantity: 8},
	}

	low := inventory.LowStock(items)

	require.Len(t, low, 2)
	assert.Equal(t, "z", low[0].Item.ID, "el déficit manda sobre el nombre")
	assert.Equal(t, int64(8), low[0].Deficit)
	assert.Equal(t, "a", low[1].Item.ID)
}

func TestLowStock_SinArticulos(t *testing.T) {
	low := inventory.LowStock(nil)
	assert.NotNil(t, low)
	assert.Empty(t, low)
}

func TestDepartmentDistribution_BucketSinAsignar(t *testing.T) {
	items := []*entity.Item{
		{ID: "1", DepartmentID: "dep-b", CurrentQuantity: 3},
		{ID: "2", DepartmentID: "dep-a", CurrentQuantity: 4},
		{ID: "3", DepartmentID: "", CurrentQuantity: 7},
		{ID: "4", DepartmentID: "dep-a", CurrentQuantity: 1},
		nil,
	}

	buckets := inventory.DepartmentDistribution(items)

	require.Len(t, buckets, 3)
	assert.Equal(t, inventory.DepartmentBucket{DepartmentID: "dep-a", ItemCount: 2, TotalQuantity: 5}, buckets[0])
	assert.Equal(t, inventory.DepartmentBucket{DepartmentID: "dep-b", ItemCount: 1, TotalQuantity: 3}, buckets[1])
	assert.True(t, buckets[2].Unassigned, "los artículos sin departamento no se descartan")
	assert.Equal(t, 1, buckets[2].ItemCount)
	assert.Equal(t, int64(7), buckets[2].TotalQuantity)
}

func TestMonthlyMovementTotals_AgrupaPorMesYCalculaNeto(t *testing.T) {
	entries := []*entity.LedgerEntry{
		{Direction: entity.DirectionIn, QuantityChanged: 50, CreatedAt: time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)},
		{Direction: entity.DirectionOut, QuantityChanged: 20, CreatedAt: time.Date(2026, 9, 30, 23, 0, 0, 0, time.UTC)},
		{Direction: entity.DirectionIn, QuantityChanged: 10, CreatedAt: time.Date(2026, 10, 2, 9, 0, 0, 0, time.UTC)},
		{Direction: entity.DirectionOut, QuantityChanged: 15, CreatedAt: time.Date(2026, 10, 3, 9, 0, 0, 0, time.UTC)},
	}

	totals := inventory.MonthlyMovementTotals(entries, nil)

	require.Len(t, totals, 2)
	assert.Equal(t, "2026-09", totals[0].Label())
	assert.Equal(t, int64(50), totals[0].In)
	assert.Equal(t, int64(20), totals[0].Out)
	assert.Equal(t, int64(30), totals[0].Net)
	assert.Equal(t, 2, totals[0].EntryCount)
	assert.Equal(t, "2026-10", totals[1].Label())
	assert.Equal(t, int64(-5), totals[1].Net)
}

func TestMonthlyMovementTotals_RespetaZonaHoraria(t *testing.T) {
	bogota := time.FixedZone("COT", -5*3600)
	entries := []*entity.LedgerEntry{
		// 1 de octubre 02:00 UTC = 30 de septiembre 21:00 en Bogotá
		{Direction: entity.DirectionIn, QuantityChanged: 5, CreatedAt: time.Date(2026, 10, 1, 2, 0, 0, 0, time.UTC)},
	}

	totals := inventory.MonthlyMovementTotals(entries, bogota)

	require.Len(t, totals, 1)
	assert.Equal(t, "2026-09", totals[0].Label())
}

func TestReconcile_DetectaDesviacion(t *testing.T) {
	item := &entity.Item{ID: "paper", CurrentQuantity: 40}
	entries := []*entity.LedgerEntry{
		{ItemID: "paper", Direction: entity.DirectionIn, QuantityChanged: 50, Origin: entity.OriginInitial},
		{ItemID: "paper", Direction: entity.DirectionOut, QuantityChanged: 20},
		{ItemID: "paper", Direction: entity.DirectionIn, QuantityChanged: 10, Origin: entity.OriginReturn},
		{ItemID: "otro", Direction: entity.DirectionIn, QuantityChanged: 999},
	}

	r := inventory.Reconcile(item, entries)
	assert.True(t, r.Consistent())
	assert.Equal(t, int64(40), r.Expected)
	assert.Equal(t, 3, r.EntryCount, "asientos de otros artículos se ignoran")

	// Eliminar un asiento sin compensar rompe el invariante.
	r = inventory.Reconcile(item, entries[:2])
	assert.False(t, r.Consistent())
	assert.Equal(t, int64(10), r.Drift)
}
