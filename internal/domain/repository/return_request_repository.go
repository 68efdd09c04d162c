package repository

import (
	"context"
	"time"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// ReturnFilter filtros del listado de devoluciones.
type ReturnFilter struct {
	Status       entity.ReturnStatus
	DepartmentID string
	Limit        int
	Offset       int
}

// ReturnRequestRepository puerto de persistencia para solicitudes de devolución.
type ReturnRequestRepository interface {
	Create(ctx context.Context, req *entity.ReturnRequest) error
	GetByID(ctx context.Context, id string) (*entity.ReturnRequest, error)
	GetForUpdate(ctx context.Context, id string) (*entity.ReturnRequest, error)
	// Update modifica los campos distintos al estado, solo si la solicitud sigue PENDING.
	Update(ctx context.Context, req *entity.ReturnRequest) error
	// UpdateStatus cambia el estado solo si el actual es from (compuerta de un único escritor);
	// devuelve domain.ErrConcurrencyConflict si no.
	UpdateStatus(ctx context.Context, id string, from, to entity.ReturnStatus, ledgerEntryID string, at time.Time) error
	List(ctx context.Context, filter ReturnFilter) ([]*entity.ReturnRequest, error)
	Delete(ctx context.Context, id string) error
}
