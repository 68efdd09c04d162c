package entity

import "time"

// Item representa un artículo del inventario. CurrentQuantity solo cambia vía movimientos del kardex.
// CategoryID y DepartmentID son referencias opacas; vacío significa "sin asignar".
type Item struct {
	ID              string
	Name            string
	CategoryID      string
	DepartmentID    string
	CurrentQuantity int64
	MinimumQuantity int64
	Version         int64 // se incrementa en cada cambio de cantidad (compare-and-swap)
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsLowStock indica si el artículo está en o por debajo de su mínimo.
func (i *Item) IsLowStock() bool {
	return i.CurrentQuantity <= i.MinimumQuantity
}
