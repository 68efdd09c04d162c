// Package testutil utilidades de test: base SQLite en memoria ya migrada con sus repositorios.
package testutil

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/infrastructure/sqlite"
)

// Store base en memoria y repositorios atados a la conexión (fuera de transacción).
type Store struct {
	DB        *sqlite.DB
	TxRunner  *sqlite.TxRunner
	Items     *sqlite.ItemRepo
	Ledger    *sqlite.LedgerRepo
	Returns   *sqlite.ReturnRequestRepo
	Reference *sqlite.ReferenceRepo
}

// NewStore abre una base nueva por test; se cierra con t.Cleanup.
func NewStore(t testing.TB) *Store {
	t.Helper()

	db, err := sqlite.OpenInMemory(context.Background(), zerolog.Nop())
	require.NoError(t, err, "debe abrirse la base en memoria")
	t.Cleanup(func() { _ = db.Close() })

	return &Store{
		DB:        db,
		TxRunner:  sqlite.NewTxRunner(db),
		Items:     sqlite.NewItemRepository(db),
		Ledger:    sqlite.NewLedgerRepository(db),
		Returns:   sqlite.NewReturnRequestRepository(db),
		Reference: sqlite.NewReferenceRepository(db),
	}
}

// SeedDepartment registra un departamento de referencia.
func (s *Store) SeedDepartment(t testing.TB, id, name string) {
	t.Helper()
	require.NoError(t, s.Reference.UpsertDepartment(context.Background(), id, name))
}

// SeedCategory registra una categoría de referencia.
func (s *Store) SeedCategory(t testing.TB, id, name string) {
	t.Helper()
	require.NoError(t, s.Reference.UpsertCategory(context.Background(), id, name))
}
