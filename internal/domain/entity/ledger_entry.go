package entity

import (
	"strings"
	"time"
)

// Direction sentido de un movimiento del kardex.
type Direction string

const (
	DirectionIn  Direction = "IN"  // entrada
	DirectionOut Direction = "OUT" // salida
)

// Valid indica si d es una dirección conocida.
func (d Direction) Valid() bool {
	return d == DirectionIn || d == DirectionOut
}

// ParseDirection acepta "in"/"out" en cualquier combinación de mayúsculas.
func ParseDirection(s string) (Direction, bool) {
	d := Direction(strings.ToUpper(strings.TrimSpace(s)))
	return d, d.Valid()
}

// EntryOrigin identifica qué operación produjo el asiento.
type EntryOrigin string

const (
	OriginInitial  EntryOrigin = "INITIAL"   // cantidad inicial al crear el artículo
	OriginManual   EntryOrigin = "MANUAL"    // movimiento registrado por un operador
	OriginBulkExit EntryOrigin = "BULK_EXIT" // línea de una salida masiva
	OriginReturn   EntryOrigin = "RETURN"    // devolución completada
)

// LedgerEntry asiento inmutable del kardex. Solo Observation puede editarse después de crearse.
// ItemName se copia al momento del movimiento para que el historial siga siendo legible
// aunque el artículo se renombre o elimine; ItemID no es una llave foránea.
type LedgerEntry struct {
	ID              string
	ItemID          string
	ItemName        string
	Direction       Direction
	QuantityChanged int64 // siempre positivo; el signo lo da Direction
	Origin          EntryOrigin
	DepartmentID    string
	ActorName       string
	Observation     string
	CreatedAt       time.Time
}

// Signed devuelve la cantidad con signo (+ entrada, - salida).
func (e *LedgerEntry) Signed() int64 {
	if e.Direction == DirectionOut {
		return -e.QuantityChanged
	}
	return e.QuantityChanged
}

// LedgerCorrection registro de auditoría de un asiento eliminado por corrección administrativa.
// La eliminación nunca ajusta la cantidad del artículo.
type LedgerCorrection struct {
	ID              string
	EntryID         string
	ItemID          string
	ItemName        string
	Direction       Direction
	QuantityChanged int64
	EntryCreatedAt  time.Time
	ActorName       string
	Reason          string
	CreatedAt       time.Time
}
