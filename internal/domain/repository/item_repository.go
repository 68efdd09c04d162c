package repository

import (
	"context"
	"time"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// ItemFilter filtros del listado de artículos. Limit <= 0 significa sin límite.
type ItemFilter struct {
	DepartmentID string
	CategoryID   string
	LowStockOnly bool
	Limit        int
	Offset       int
}

// ItemRepository define el puerto de persistencia para Item (DIP).
// Los métodos Get* devuelven (nil, nil) cuando el artículo no existe.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	// GetForUpdate obtiene el artículo bloqueando la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Item, error)
	GetByNameAndDepartment(ctx context.Context, name, departmentID string) (*entity.Item, error)
	// UpdateDetails actualiza solo campos descriptivos (nombre, categoría, departamento, mínimo).
	UpdateDetails(ctx context.Context, item *entity.Item) error
	// UpdateQuantity aplica compare-and-swap sobre Version; devuelve domain.ErrConcurrencyConflict
	// si la versión ya no coincide.
	UpdateQuantity(ctx context.Context, id string, quantity, expectedVersion int64, at time.Time) error
	List(ctx context.Context, filter ItemFilter) ([]*entity.Item, error)
	Delete(ctx context.Context, id string) error
}
