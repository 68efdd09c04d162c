package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.ReferenceRepository = (*ReferenceRepo)(nil)

// ReferenceRepo departamentos y categorías sobre SQLite.
type ReferenceRepo struct {
	ex execer
}

// NewReferenceRepository acepta *sql.DB o *sql.Tx.
func NewReferenceRepository(ex execer) *ReferenceRepo {
	return &ReferenceRepo{ex: ex}
}

func (r *ReferenceRepo) GetDepartment(ctx context.Context, id string) (*entity.Department, error) {
	id, name, createdAt, err := r.getNamed(ctx, `SELECT id, name, created_at FROM departments WHERE id = ?`, id)
	if err != nil || id == "" {
		return nil, wrapErr("get department", err)
	}
	return &entity.Department{ID: id, Name: name, CreatedAt: createdAt}, nil
}

func (r *ReferenceRepo) GetCategory(ctx context.Context, id string) (*entity.Category, error) {
	id, name, createdAt, err := r.getNamed(ctx, `SELECT id, name, created_at FROM categories WHERE id = ?`, id)
	if err != nil || id == "" {
		return nil, wrapErr("get category", err)
	}
	return &entity.Category{ID: id, Name: name, CreatedAt: createdAt}, nil
}

func (r *ReferenceRepo) ListDepartments(ctx context.Context) ([]*entity.Department, error) {
	out := make([]*entity.Department, 0)
	err := r.listNamed(ctx, `SELECT id, name, created_at FROM departments ORDER BY name`,
		func(id, name string, createdAt time.Time) {
			out = append(out, &entity.Department{ID: id, Name: name, CreatedAt: createdAt})
		})
	if err != nil {
		return nil, wrapErr("list departments", err)
	}
	return out, nil
}

func (r *ReferenceRepo) ListCategories(ctx context.Context) ([]*entity.Category, error) {
	out := make([]*entity.Category, 0)
	err := r.listNamed(ctx, `SELECT id, name, created_at FROM categories ORDER BY name`,
		func(id, name string, createdAt time.Time) {
			out = append(out, &entity.Category{ID: id, Name: name, CreatedAt: createdAt})
		})
	if err != nil {
		return nil, wrapErr("list categories", err)
	}
	return out, nil
}

// UpsertDepartment alta idempotente: un id o nombre repetido se omite.
func (r *ReferenceRepo) UpsertDepartment(ctx context.Context, id, name string) error {
	_, err := r.ex.ExecContext(ctx,
		`INSERT INTO departments (id, name, created_at) VALUES (?, ?, ?) ON CONFLICT DO NOTHING`,
		id, name, formatTime(time.Now()))
	return wrapErr("upsert department", err)
}

// UpsertCategory igual que UpsertDepartment.
func (r *ReferenceRepo) UpsertCategory(ctx context.Context, id, name string) error {
	_, err := r.ex.ExecContext(ctx,
		`INSERT INTO categories (id, name, created_at) VALUES (?, ?, ?) ON CONFLICT DO NOTHING`,
		id, name, formatTime(time.Now()))
	return wrapErr("upsert category", err)
}

// getNamed devuelve id vacío si no hay fila.
func (r *ReferenceRepo) getNamed(ctx context.Context, query, id string) (string, string, time.Time, error) {
	var name, createdAt string
	err := r.ex.QueryRowContext(ctx, query, id).Scan(&id, &name, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", time.Time{}, nil
	}
	if err != nil {
		return "", "", time.Time{}, err
	}
	t, err := parseTime(createdAt)
	return id, name, t, err
}

func (r *ReferenceRepo) listNamed(ctx context.Context, query string, fn func(id, name string, createdAt time.Time)) error {
	rows, err := r.ex.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var id, name, createdAt string
		if err := rows.Scan(&id, &name, &createdAt); err != nil {
			return err
		}
		t, err := parseTime(createdAt)
		if err != nil {
			return err
		}
		fn(id, name, t)
	}
	return rows.Err()
}
