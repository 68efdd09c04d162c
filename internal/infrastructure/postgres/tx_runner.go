package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/application/returns"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var tracer = otel.Tracer("kardex-api/postgres")

var _ inventory.TxRunner = (*TxRunner)(nil)
var _ returns.ReturnsTxRunner = (*TxRunner)(nil)

// statementTimeout protege contra consultas colgadas dentro de la tx.
const statementTimeout = 30 * time.Second

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL (READ COMMITTED + FOR UPDATE).
type TxRunner struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool, log zerolog.Logger) *TxRunner {
	return &TxRunner{pool: pool, log: log}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	ctx context.Context,
	itemRepo repository.ItemRepository,
	ledgerRepo repository.LedgerRepository,
) error) error {
	return r.inTx(ctx, "inventory", func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, NewItemRepository(tx), NewLedgerRepository(tx))
	})
}

// RunReturns inicia una transacción con repos de inventario y devoluciones (para completar devoluciones).
func (r *TxRunner) RunReturns(ctx context.Context, fn func(
	ctx context.Context,
	itemRepo repository.ItemRepository,
	ledgerRepo repository.LedgerRepository,
	returnRepo repository.ReturnRequestRepository,
) error) error {
	return r.inTx(ctx, "returns", func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, NewItemRepository(tx), NewLedgerRepository(tx), NewReturnRequestRepository(tx))
	})
}

func (r *TxRunner) inTx(ctx context.Context, scope string, fn func(ctx context.Context, tx pgx.Tx) error) (err error) {
	ctx, span := tracer.Start(ctx, "transaction",
		trace.WithAttributes(
			attribute.String("tx.scope", scope),
			attribute.String("tx.isolation", string(pgx.ReadCommitted)),
		))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted, AccessMode: pgx.ReadWrite})
	if err != nil {
		return wrapErr("begin transaction", err)
	}

	if _, err = tx.Exec(ctx, fmt.Sprintf("SET LOCAL statement_timeout = '%dms'", statementTimeout.Milliseconds())); err != nil {
		_ = tx.Rollback(context.Background())
		return wrapErr("set statement_timeout", err)
	}

	if err = fn(ctx, tx); err != nil {
		// contexto de fondo: el rollback debe completarse aunque ctx esté cancelado
		if rbErr := tx.Rollback(context.Background()); rbErr != nil {
			r.log.Error().Err(rbErr).AnErr("original_error", err).Msg("rollback falló")
		}
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return wrapErr("commit transaction", err)
	}
	return nil
}
