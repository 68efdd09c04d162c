package repository

import (
	"context"
	"time"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// LedgerFilter filtros del listado de asientos. Limit <= 0 significa sin límite.
type LedgerFilter struct {
	ItemID       string
	Direction    entity.Direction
	DepartmentID string
	From, To     *time.Time
	Limit        int
	Offset       int
}

// LedgerRepository puerto de persistencia del kardex (append-only).
type LedgerRepository interface {
	Insert(ctx context.Context, entry *entity.LedgerEntry) error
	GetByID(ctx context.Context, id string) (*entity.LedgerEntry, error)
	List(ctx context.Context, filter LedgerFilter) ([]*entity.LedgerEntry, error)
	// UpdateObservation modifica el único campo editable de un asiento.
	UpdateObservation(ctx context.Context, id, observation string) error
	// Delete y InsertCorrection solo se usan juntos desde la corrección auditada.
	Delete(ctx context.Context, id string) error
	InsertCorrection(ctx context.Context, correction *entity.LedgerCorrection) error
}
