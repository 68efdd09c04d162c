package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

func TestApplyMovement_SalidaDescuentaYRegistraAsiento(t *testing.T) {
	f := newFixture(t)
	item := f.createItem(t, "Papel A4", "d1", 50, 10)

	entry, err := f.engine.ApplyMovement(context.Background(), inventory.MovementInput{
		ItemID:      item.ID,
		Direction:   entity.DirectionOut,
		Quantity:    20,
		ActorName:   actor,
		Observation: "entrega a contabilidad",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(30), f.quantity(t, item.ID))
	assert.Equal(t, entity.DirectionOut, entry.Direction)
	assert.Equal(t, int64(20), entry.QuantityChanged)
	assert.Equal(t, "Papel A4", entry.ItemName)
	assert.Equal(t, "d1", entry.DepartmentID, "sin departamento explícito se usa el del artículo")
	assert.Equal(t, entity.OriginManual, entry.Origin)
	assert.Equal(t, actor, entry.ActorName)

	entries := f.entries(t, item.ID)
	require.Len(t, entries, 2, "asiento inicial + salida")
	assert.Equal(t, entity.OriginInitial, entries[0].Origin)
	assert.Equal(t, entry.ID, entries[1].ID)
}

func TestApplyMovement_EntradaSuma(t *testing.T) {
	f := newFixture(t)
	item := f.createItem(t, "Tóner", "", 0, 1)

	_, err := f.engine.ApplyMovement(context.Background(), inventory.MovementInput{
		ItemID: item.ID, Direction: entity.DirectionIn, Quantity: 7, ActorName: actor, DepartmentID: "d2",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), f.quantity(t, item.ID))

	entries := f.entries(t, item.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, "d2", entries[0].DepartmentID)
}

func TestApplyMovement_StockInsuficienteNoModificaNada(t *testing.T) {
	f := newFixture(t)
	item := f.createItem(t, "Papel A4", "", 30, 0)

	_, err := f.engine.ApplyMovement(context.Background(), inventory.MovementInput{
		ItemID: item.ID, Direction: entity.DirectionOut, Quantity: 40, ActorName: actor,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, domain.CodeInsufficientStock, domain.ErrorCode(err))

	assert.Equal(t, int64(30), f.quantity(t, item.ID))
	assert.Len(t, f.entries(t, item.ID), 1, "no debe agregarse asiento")
}

func TestApplyMovement_SalidaExactaDejaEnCero(t *testing.T) {
	f := newFixture(t)
	item := f.createItem(t, "Clips", "", 5, 0)

	_, err := f.engine.ApplyMovement(context.Background(), inventory.MovementInput{
		ItemID: item.ID, Direction: entity.DirectionOut, Quantity: 5, ActorName: actor,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), f.quantity(t, item.ID))
}

func TestApplyMovement_ValidacionDeEntrada(t *testing.T) {
	f := newFixture(t)
	item := f.createItem(t, "Papel A4", "", 10, 0)

	cases := []struct {
		name string
		in   inventory.MovementInput
		want error
	}{
		{"cantidad cero", inventory.MovementInput{ItemID: item.ID, Direction: entity.DirectionIn, Quantity: 0, ActorName: actor}, domain.ErrInvalidQuantity},
		{"cantidad negativa", inventory.MovementInput{ItemID: item.ID, Direction: entity.DirectionOut, Quantity: -3, ActorName: actor}, domain.ErrInvalidQuantity},
		{"dirección inválida", inventory.MovementInput{ItemID: item.ID, Direction: "SIDEWAYS", Quantity: 1, ActorName: actor}, domain.ErrInvalidInput},
		{"sin responsable", inventory.MovementInput{ItemID: item.ID, Direction: entity.DirectionIn, Quantity: 1}, domain.ErrInvalidInput},
		{"artículo inexistente", inventory.MovementInput{ItemID: "no-existe", Direction: entity.DirectionIn, Quantity: 1, ActorName: actor}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.engine.ApplyMovement(context.Background(), tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	assert.Equal(t, int64(10), f.quantity(t, item.ID))
	assert.Len(t, f.entries(t, item.ID), 1)
}

func TestApplyMovement_ConcurrenciaNuncaQuedaNegativo(t *testing.T) {
	f := newFixture(t)
	item := f.createItem(t, "Papel A4", "", 30, 0)

	const workers = 50
	var (
		wg                sync.WaitGroup
		mu                sync.Mutex
		applied, rejected int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.engine.ApplyMovement(context.Background(), inventory.MovementInput{
				ItemID: item.ID, Direction: entity.DirectionOut, Quantity: 1, ActorName: actor,
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				applied++
			case errors.Is(err, domain.ErrInsufficientStock):
				rejected++
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 30, applied)
	assert.Equal(t, 20, rejected)
	assert.Equal(t, int64(0), f.quantity(t, item.ID))

	outs := 0
	for _, e := range f.entries(t, item.ID) {
		if e.Direction == entity.DirectionOut {
			outs++
		}
	}
	assert.Equal(t, 30, outs, "un asiento por movimiento aplicado")
}

func TestApplyMovement_ReintentaConflictos(t *testing.T) {
	f := newFixture(t)
	item := f.createItem(t, "Papel A4", "", 10, 0)

	runner := &flakyRunner{next: f.store.TxRunner, failures: 2}
	engine := inventory.NewMovementEngine(runner, inventory.EngineConfig{MaxRetries: 3, RetryBackoff: time.Millisecond}, zerolog.Nop())

	_, err := engine.ApplyMovement(context.Background(), inventory.MovementInput{
		ItemID: item.ID, Direction: entity.DirectionOut, Quantity: 4, ActorName: actor,
	})
	require.NoError(t, err)
	assert.Equal(t, int32(3), runner.calls.Load())
	assert.Equal(t, int64(6), f.quantity(t, item.ID))
}

func TestApplyMovement_AgotaReintentos(t *testing.T) {
	f := newFixture(t)
	item := f.createItem(t, "Papel A4", "", 10, 0)

	runner := &flakyRunner{next: f.store.TxRunner, failures: 10}
	engine := inventory.NewMovementEngine(runner, inventory.EngineConfig{MaxRetries: 2}, zerolog.Nop())

	_, err := engine.ApplyMovement(context.Background(), inventory.MovementInput{
		ItemID: item.ID, Direction: entity.DirectionOut, Quantity: 4, ActorName: actor,
	})
	require.ErrorIs(t, err, domain.ErrConcurrencyConflict)
	assert.Equal(t, int32(3), runner.calls.Load(), "intento inicial + 2 reintentos")
	assert.Equal(t, int64(10), f.quantity(t, item.ID))
}

func TestApplyMovement_NoReintentaErroresDeNegocio(t *testing.T) {
	f := newFixture(t)
	item := f.createItem(t, "Papel A4", "", 1, 0)

	runner := &flakyRunner{next: f.store.TxRunner}
	engine := inventory.NewMovementEngine(runner, inventory.EngineConfig{MaxRetries: 5}, zerolog.Nop())

	_, err := engine.ApplyMovement(context.Background(), inventory.MovementInput{
		ItemID: item.ID, Direction: entity.DirectionOut, Quantity: 2, ActorName: actor,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int32(1), runner.calls.Load())
}

func TestApplyMovement_ContextoCanceladoDuranteBackoff(t *testing.T) {
	f := newFixture(t)
	item := f.createItem(t, "Papel A4", "", 10, 0)

	runner := &flakyRunner{next: f.store.TxRunner, failures: 10}
	engine := inventory.NewMovementEngine(runner, inventory.EngineConfig{MaxRetries: 5, RetryBackoff: time.Hour}, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := engine.ApplyMovement(ctx, inventory.MovementInput{
		ItemID: item.ID, Direction: entity.DirectionOut, Quantity: 1, ActorName: actor,
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int64(10), f.quantity(t, item.ID))
}
