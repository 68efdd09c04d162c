// Package sqlite adaptador embebido del kardex sobre modernc.org/sqlite (sin cgo).
// Una sola conexión: SQLite admite un único escritor y así las transacciones quedan serializadas.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// DB envuelve sql.DB con el logger de la aplicación.
type DB struct {
	*sql.DB
	path string
	log  zerolog.Logger
}

// Open abre (o crea) la base en dbPath con journal WAL y aplica el esquema.
func Open(ctx context.Context, dbPath string, log zerolog.Logger) (*DB, error) {
	if dbPath == ":memory:" {
		return OpenInMemory(ctx, log)
	}
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("crear directorio de la base: %w", err)
		}
	}
	db, err := open(ctx, fmt.Sprintf("file:%s?_txlock=immediate", dbPath), dbPath, log, []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("path", dbPath).Msg("sqlite abierto")
	return db, nil
}

// OpenInMemory base efímera ya migrada (tests y demos).
func OpenInMemory(ctx context.Context, log zerolog.Logger) (*DB, error) {
	return open(ctx, ":memory:?_txlock=immediate", ":memory:", log, []string{
		"PRAGMA foreign_keys=ON",
	})
}

func open(ctx context.Context, dsn, path string, log zerolog.Logger, pragmas []string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("abrir sqlite: %w", err)
	}
	// con :memory: cerrar la conexión descarta la base
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	for _, p := range pragmas {
		if _, err := sqlDB.ExecContext(ctx, p); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}

	db := &DB{DB: sqlDB, path: path, log: log}
	if err := db.Migrate(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// Migrate aplica el esquema (idempotente).
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("aplicar esquema: %w", err)
	}
	return nil
}

// Path ruta del archivo, o ":memory:".
func (db *DB) Path() string { return db.path }
