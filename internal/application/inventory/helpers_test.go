package inventory_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/internal/testutil"
)

const actor = "ana.perez"

type fixture struct {
	store  *testutil.Store
	engine *inventory.MovementEngine
	items  *inventory.ItemUseCase
	ledger *inventory.LedgerUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewStore(t)
	engine := inventory.NewMovementEngine(store.TxRunner, inventory.EngineConfig{MaxRetries: 3}, zerolog.Nop())
	return &fixture{
		store:  store,
		engine: engine,
		items:  inventory.NewItemUseCase(store.TxRunner, engine, store.Items, zerolog.Nop()),
		ledger: inventory.NewLedgerUseCase(store.TxRunner, store.Ledger, true, zerolog.Nop()),
	}
}

func (f *fixture) createItem(t *testing.T, name, departmentID string, qty, min int64) *entity.Item {
	t.Helper()
	item, err := f.items.Create(context.Background(), inventory.CreateItemInput{
		Name:            name,
		DepartmentID:    departmentID,
		MinimumQuantity: min,
		InitialQuantity: qty,
		ActorName:       actor,
	})
	require.NoError(t, err)
	return item
}

func (f *fixture) quantity(t *testing.T, id string) int64 {
	t.Helper()
	item, err := f.store.Items.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, item)
	return item.CurrentQuantity
}

func (f *fixture) entries(t *testing.T, itemID string) []*entity.LedgerEntry {
	t.Helper()
	entries, err := f.store.Ledger.List(context.Background(), repository.LedgerFilter{ItemID: itemID})
	require.NoError(t, err)
	return entries
}

// flakyRunner devuelve ErrConcurrencyConflict las primeras `failures` veces sin ejecutar fn.
type flakyRunner struct {
	next     inventory.TxRunner
	failures int32
	calls    atomic.Int32
}

func (r *flakyRunner) Run(ctx context.Context, fn func(
	ctx context.Context,
	itemRepo repository.ItemRepository,
	ledgerRepo repository.LedgerRepository,
) error) error {
	if r.calls.Add(1) <= r.failures {
		return domain.ErrConcurrencyConflict
	}
	return r.next.Run(ctx, fn)
}
