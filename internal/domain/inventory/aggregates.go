// Package inventory contiene servicios de dominio puros sobre artículos y kardex:
// vistas agregadas y conciliación. No acceden a repositorios ni mutan estado.
package inventory

import (
	"sort"
	"time"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// LowStockItem artículo en o por debajo de su mínimo. Deficit = mínimo - actual (>= 0).
type LowStockItem struct {
	Item    *entity.Item
	Deficit int64
}

// LowStock devuelve los artículos con CurrentQuantity <= MinimumQuantity,
// ordenados por mayor déficit y luego por nombre.
func LowStock(items []*entity.Item) []LowStockItem {
	out := make([]LowStockItem, 0)
	for _, it := range items {
		if it == nil || !it.IsLowStock() {
			continue
		}
		out = append(out, LowStockItem{Item: it, Deficit: it.MinimumQuantity - it.CurrentQuantity})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Deficit != out[j].Deficit {
			return out[i].Deficit > out[j].Deficit
		}
		return out[i].Item.Name < out[j].Item.Name
	})
	return out
}

// DepartmentBucket conteo y suma de cantidades de los artículos de un departamento.
// Unassigned agrupa los artículos sin departamento.
type DepartmentBucket struct {
	DepartmentID  string
	Unassigned    bool
	ItemCount     int
	TotalQuantity int64
}

// DepartmentDistribution agrupa artículos por DepartmentID. Los artículos sin referencia
// van al bucket Unassigned (último), nunca se descartan.
func DepartmentDistribution(items []*entity.Item) []DepartmentBucket {
	byDept := make(map[string]*DepartmentBucket)
	for _, it := range items {
		if it == nil {
			continue
		}
		b, ok := byDept[it.DepartmentID]
		if !ok {
			b = &DepartmentBucket{DepartmentID: it.DepartmentID, Unassigned: it.DepartmentID == ""}
			byDept[it.DepartmentID] = b
		}
		b.ItemCount++
		b.TotalQuantity += it.CurrentQuantity
	}
	out := make([]DepartmentBucket, 0, len(byDept))
	for _, b := range byDept {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Unassigned != out[j].Unassigned {
			return !out[i].Unassigned
		}
		return out[i].DepartmentID < out[j].DepartmentID
	})
	return out
}

// MonthlyTotal entradas y salidas de un mes calendario. Net = In - Out.
type MonthlyTotal struct {
	Year       int
	Month      time.Month
	In         int64
	Out        int64
	Net        int64
	EntryCount int
}

// Label devuelve el mes en formato YYYY-MM.
func (m MonthlyTotal) Label() string {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

// MonthlyMovementTotals agrupa los asientos por mes calendario de CreatedAt en loc
// (UTC si loc es nil), en orden cronológico.
func MonthlyMovementTotals(entries []*entity.LedgerEntry, loc *time.Location) []MonthlyTotal {
	if loc == nil {
		loc = time.UTC
	}
	type key struct {
		year  int
		month time.Month
	}
	byMonth := make(map[key]*MonthlyTotal)
	for _, e := range entries {
		if e == nil {
			continue
		}
		t := e.CreatedAt.In(loc)
		k := key{t.Year(), t.Month()}
		m, ok := byMonth[k]
		if !ok {
			m = &MonthlyTotal{Year: k.year, Month: k.month}
			byMonth[k] = m
		}
		switch e.Direction {
		case entity.DirectionIn:
			m.In += e.QuantityChanged
		case entity.DirectionOut:
			m.Out += e.QuantityChanged
		}
		m.EntryCount++
	}
	out := make([]MonthlyTotal, 0, len(byMonth))
	for _, m := range byMonth {
		m.Net = m.In - m.Out
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}
