// Package storage selecciona el adaptador de persistencia (PostgreSQL o SQLite) según DB_DRIVER
// y expone sus repositorios detrás de los puertos del dominio.
package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/application/returns"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/internal/infrastructure/postgres"
	"github.com/jhoicas/kardex-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/kardex-api/pkg/config"
)

// TxRunner ambos puertos transaccionales (kardex y devoluciones).
type TxRunner interface {
	inventory.TxRunner
	returns.ReturnsTxRunner
}

// ReferenceStore lectura y alta idempotente de departamentos y categorías.
type ReferenceStore interface {
	repository.ReferenceRepository
	UpsertDepartment(ctx context.Context, id, name string) error
	UpsertCategory(ctx context.Context, id, name string) error
}

// Store repositorios fuera de transacción más el runner transaccional.
type Store struct {
	Driver    string
	TxRunner  TxRunner
	Items     repository.ItemRepository
	Ledger    repository.LedgerRepository
	Returns   repository.ReturnRequestRepository
	Reference ReferenceStore

	close func()
}

// Open conecta al driver configurado y aplica el esquema.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Store, error) {
	switch cfg.DB.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrar esquema PostgreSQL: %w", err)
		}
		return &Store{
			Driver:    config.DriverPostgres,
			TxRunner:  postgres.NewTxRunner(pool, log),
			Items:     postgres.NewItemRepository(pool),
			Ledger:    postgres.NewLedgerRepository(pool),
			Returns:   postgres.NewReturnRequestRepository(pool),
			Reference: postgres.NewReferenceRepository(pool),
			close:     pool.Close,
		}, nil
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLite.Path, log)
		if err != nil {
			return nil, fmt.Errorf("abrir SQLite: %w", err)
		}
		return &Store{
			Driver:    config.DriverSQLite,
			TxRunner:  sqlite.NewTxRunner(db),
			Items:     sqlite.NewItemRepository(db),
			Ledger:    sqlite.NewLedgerRepository(db),
			Returns:   sqlite.NewReturnRequestRepository(db),
			Reference: sqlite.NewReferenceRepository(db),
			close:     func() { _ = db.Close() },
		}, nil
	default:
		return nil, fmt.Errorf("DB_DRIVER no soportado: %q", cfg.DB.Driver)
	}
}

// Close libera el pool o la conexión.
func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}
