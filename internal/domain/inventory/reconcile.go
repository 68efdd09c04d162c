package inventory

import "github.com/jhoicas/kardex-api/internal/domain/entity"

// Reconciliation compara la cantidad del artículo con la suma de su kardex.
// Expected = Σ entradas − Σ salidas (la cantidad inicial es su propio asiento INITIAL).
type Reconciliation struct {
	ItemID     string
	Current    int64
	Expected   int64
	Drift      int64 // Current - Expected; distinto de cero indica un kardex alterado
	TotalIn    int64
	TotalOut   int64
	EntryCount int
}

// Consistent indica si la cantidad coincide con el historial.
func (r Reconciliation) Consistent() bool { return r.Drift == 0 }

// Reconcile calcula la conciliación de item contra los asientos dados.
// Los asientos de otros artículos se ignoran.
func Reconcile(item *entity.Item, entries []*entity.LedgerEntry) Reconciliation {
	r := Reconciliation{ItemID: item.ID, Current: item.CurrentQuantity}
	for _, e := range entries {
		if e == nil || e.ItemID != item.ID {
			continue
		}
		switch e.Direction {
		case entity.DirectionIn:
			r.TotalIn += e.QuantityChanged
		case entity.DirectionOut:
			r.TotalOut += e.QuantityChanged
		}
		r.EntryCount++
	}
	r.Expected = r.TotalIn - r.TotalOut
	r.Drift = r.Current - r.Expected
	return r
}
