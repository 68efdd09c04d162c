package returns_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/application/returns"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/internal/testutil"
)

const actor = "jefe.bodega"

type fixture struct {
	store   *testutil.Store
	items   *inventory.ItemUseCase
	returns *returns.UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewStore(t)
	engine := inventory.NewMovementEngine(store.TxRunner, inventory.EngineConfig{MaxRetries: 3}, zerolog.Nop())
	return &fixture{
		store:   store,
		items:   inventory.NewItemUseCase(store.TxRunner, engine, store.Items, zerolog.Nop()),
		returns: returns.NewUseCase(store.TxRunner, store.Returns, engine, zerolog.Nop()),
	}
}

func (f *fixture) item(t *testing.T, name, departmentID string, qty int64) *entity.Item {
	t.Helper()
	item, err := f.items.Create(context.Background(), inventory.CreateItemInput{
		Name: name, DepartmentID: departmentID, InitialQuantity: qty, ActorName: actor,
	})
	require.NoError(t, err)
	return item
}

func (f *fixture) request(t *testing.T, itemName, departmentID string, qty int64) *entity.ReturnRequest {
	t.Helper()
	req, err := f.returns.Create(context.Background(), returns.CreateInput{
		ItemName: itemName, Quantity: qty, Reason: "sobrante de evento", DepartmentID: departmentID, RequestedBy: "luis",
	})
	require.NoError(t, err)
	return req
}

func (f *fixture) quantity(t *testing.T, id string) int64 {
	t.Helper()
	item, err := f.items.GetByID(context.Background(), id)
	require.NoError(t, err)
	return item.CurrentQuantity
}

func (f *fixture) ledgerLen(t *testing.T, itemID string) int {
	t.Helper()
	entries, err := f.store.Ledger.List(context.Background(), repository.LedgerFilter{ItemID: itemID})
	require.NoError(t, err)
	return len(entries)
}

func TestComplete_ReingresaStockUnaSolaVez(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.item(t, "Papel A4", "d1", 30)
	req := f.request(t, "Papel A4", "d1", 10)
	assert.Equal(t, entity.ReturnPending, req.Status)

	approved, err := f.returns.Approve(ctx, req.ID, actor)
	require.NoError(t, err)
	assert.Equal(t, entity.ReturnApproved, approved.Status)
	assert.Equal(t, int64(30), f.quantity(t, item.ID), "aprobar no mueve stock")

	completed, entry, err := f.returns.Complete(ctx, req.ID, actor)
	require.NoError(t, err)
	assert.Equal(t, entity.ReturnCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)
	assert.Equal(t, entry.ID, completed.LedgerEntryID)
	assert.Equal(t, entity.OriginReturn, entry.Origin)
	assert.Equal(t, entity.DirectionIn, entry.Direction)
	assert.Equal(t, int64(10), entry.QuantityChanged)
	assert.Equal(t, int64(40), f.quantity(t, item.ID))

	// segundo intento: sin efecto
	_, _, err = f.returns.Complete(ctx, req.ID, actor)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, int64(40), f.quantity(t, item.ID))
	assert.Equal(t, 2, f.ledgerLen(t, item.ID))

	stored, err := f.returns.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReturnCompleted, stored.Status)
	assert.Equal(t, entry.ID, stored.LedgerEntryID)
}

func TestComplete_ConcurrenteAcreditaUnaVez(t *testing.T) {
	f := newFixture(t)
	item := f.item(t, "Papel A4", "", 30)
	req := f.request(t, "Papel A4", "", 10)
	_, err := f.returns.Approve(context.Background(), req.ID, actor)
	require.NoError(t, err)

	var (
		wg               sync.WaitGroup
		mu               sync.Mutex
		ok, invalidTrans int
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := f.returns.Complete(context.Background(), req.ID, actor)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInvalidTransition):
				invalidTrans++
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, 7, invalidTrans)
	assert.Equal(t, int64(40), f.quantity(t, item.ID))
}

func TestComplete_SinAprobarEsTransicionInvalida(t *testing.T) {
	f := newFixture(t)
	item := f.item(t, "Papel A4", "", 30)
	req := f.request(t, "Papel A4", "", 10)

	_, _, err := f.returns.Complete(context.Background(), req.ID, actor)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, int64(30), f.quantity(t, item.ID))
}

func TestComplete_ArticuloInexistenteNoCambiaEstado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.item(t, "Papel A4", "d1", 30)
	req := f.request(t, "Papel A4", "d2", 10) // otro departamento
	_, err := f.returns.Approve(ctx, req.ID, actor)
	require.NoError(t, err)

	_, _, err = f.returns.Complete(ctx, req.ID, actor)
	require.ErrorIs(t, err, domain.ErrNotFound)

	stored, err := f.returns.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReturnApproved, stored.Status, "la solicitud sigue aprobada")
	assert.Empty(t, stored.LedgerEntryID)
}

func TestReject_EsTerminal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.item(t, "Papel A4", "", 30)
	req := f.request(t, "Papel A4", "", 10)

	rejected, err := f.returns.Reject(ctx, req.ID, actor)
	require.NoError(t, err)
	assert.Equal(t, entity.ReturnRejected, rejected.Status)

	_, err = f.returns.Approve(ctx, req.ID, actor)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, _, err = f.returns.Complete(ctx, req.ID, actor)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, int64(30), f.quantity(t, item.ID))
}

func TestEdit_SoloEnPendiente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.request(t, "Papel A4", "", 10)

	qty := int64(12)
	reason := "sobrante corregido"
	edited, err := f.returns.Edit(ctx, req.ID, returns.EditInput{Quantity: &qty, Reason: &reason})
	require.NoError(t, err)
	assert.Equal(t, int64(12), edited.Quantity)
	assert.Equal(t, "sobrante corregido", edited.Reason)

	zero := int64(0)
	_, err = f.returns.Edit(ctx, req.ID, returns.EditInput{Quantity: &zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.returns.Approve(ctx, req.ID, actor)
	require.NoError(t, err)
	_, err = f.returns.Edit(ctx, req.ID, returns.EditInput{Quantity: &qty})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestCreate_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.returns.Create(ctx, returns.CreateInput{ItemName: "", Quantity: 1, Reason: "r"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.returns.Create(ctx, returns.CreateInput{ItemName: "X", Quantity: -1, Reason: "r"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.returns.Create(ctx, returns.CreateInput{ItemName: "X", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListYDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.item(t, "Papel A4", "", 30)
	a := f.request(t, "Papel A4", "", 1)
	f.request(t, "Papel A4", "", 2)

	_, err := f.returns.Approve(ctx, a.ID, actor)
	require.NoError(t, err)
	_, _, err = f.returns.Complete(ctx, a.ID, actor)
	require.NoError(t, err)

	pending, err := f.returns.List(ctx, repository.ReturnFilter{Status: entity.ReturnPending})
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	_, err = f.returns.List(ctx, repository.ReturnFilter{Status: "ARCHIVED"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// eliminar una completada no revierte el stock
	require.NoError(t, f.returns.Delete(ctx, a.ID, actor))
	assert.Equal(t, int64(31), f.quantity(t, item.ID))
	_, err = f.returns.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
