package returns

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// ReturnsTxRunner transacción con repositorios de inventario y de devoluciones (para Complete).
type ReturnsTxRunner interface {
	RunReturns(ctx context.Context, fn func(
		ctx context.Context,
		itemRepo repository.ItemRepository,
		ledgerRepo repository.LedgerRepository,
		returnRepo repository.ReturnRequestRepository,
	) error) error
}

// StockMutator movimiento de stock dentro de la transacción del caller.
// Lo implementa *inventory.MovementEngine; es el mismo camino de escritura que ApplyMovement.
type StockMutator interface {
	ApplyInTx(
		ctx context.Context,
		itemRepo repository.ItemRepository,
		ledgerRepo repository.LedgerRepository,
		in inventory.MovementInput,
	) (*entity.LedgerEntry, error)
}

var _ StockMutator = (*inventory.MovementEngine)(nil)
