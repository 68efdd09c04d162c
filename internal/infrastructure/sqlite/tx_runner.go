package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/application/returns"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var tracer = otel.Tracer("kardex-api/sqlite")

var _ inventory.TxRunner = (*TxRunner)(nil)
var _ returns.ReturnsTxRunner = (*TxRunner)(nil)

// TxRunner transacciones BEGIN IMMEDIATE sobre la única conexión de DB.
// Dentro de fn solo deben usarse los repositorios recibidos: otra consulta a DB esperaría a la misma conexión.
type TxRunner struct {
	db *DB
}

// NewTxRunner construye el runner.
func NewTxRunner(db *DB) *TxRunner {
	return &TxRunner{db: db}
}

func (r *TxRunner) Run(ctx context.Context, fn func(
	ctx context.Context,
	itemRepo repository.ItemRepository,
	ledgerRepo repository.LedgerRepository,
) error) error {
	return r.inTx(ctx, "inventory", func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, NewItemRepository(tx), NewLedgerRepository(tx))
	})
}

func (r *TxRunner) RunReturns(ctx context.Context, fn func(
	ctx context.Context,
	itemRepo repository.ItemRepository,
	ledgerRepo repository.LedgerRepository,
	returnRepo repository.ReturnRequestRepository,
) error) error {
	return r.inTx(ctx, "returns", func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, NewItemRepository(tx), NewLedgerRepository(tx), NewReturnRequestRepository(tx))
	})
}

func (r *TxRunner) inTx(ctx context.Context, scope string, fn func(ctx context.Context, tx *sql.Tx) error) (err error) {
	ctx, span := tracer.Start(ctx, "transaction", trace.WithAttributes(attribute.String("tx.scope", scope)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapErr("begin transaction", err)
	}
	if err = fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			r.db.log.Error().Err(rbErr).AnErr("original_error", err).Msg("rollback falló")
		}
		return err
	}
	if err = tx.Commit(); err != nil {
		return wrapErr("commit transaction", fmt.Errorf("commit: %w", err))
	}
	return nil
}
