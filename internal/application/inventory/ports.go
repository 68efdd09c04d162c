package inventory

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback; ninguna escritura de fn queda visible.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		ctx context.Context,
		itemRepo repository.ItemRepository,
		ledgerRepo repository.LedgerRepository,
	) error) error
}
