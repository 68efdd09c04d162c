package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.ReferenceRepository = (*ReferenceRepo)(nil)

// ReferenceRepo departamentos y categorías sobre PostgreSQL.
type ReferenceRepo struct {
	q Querier
}

// NewReferenceRepository construye el adaptador de datos de referencia.
func NewReferenceRepository(q Querier) *ReferenceRepo {
	return &ReferenceRepo{q: q}
}

func (r *ReferenceRepo) GetDepartment(ctx context.Context, id string) (*entity.Department, error) {
	var d entity.Department
	err := r.q.QueryRow(ctx, `SELECT id, name, created_at FROM departments WHERE id = $1`, id).
		Scan(&d.ID, &d.Name, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get department", err)
	}
	return &d, nil
}

func (r *ReferenceRepo) GetCategory(ctx context.Context, id string) (*entity.Category, error) {
	var c entity.Category
	err := r.q.QueryRow(ctx, `SELECT id, name, created_at FROM categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get category", err)
	}
	return &c, nil
}

func (r *ReferenceRepo) ListDepartments(ctx context.Context) ([]*entity.Department, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, created_at FROM departments ORDER BY name`)
	if err != nil {
		return nil, wrapErr("list departments", err)
	}
	defer rows.Close()
	out := make([]*entity.Department, 0)
	for rows.Next() {
		var d entity.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.CreatedAt); err != nil {
			return nil, wrapErr("scan department", err)
		}
		out = append(out, &d)
	}
	return out, wrapErr("list departments", rows.Err())
}

func (r *ReferenceRepo) ListCategories(ctx context.Context) ([]*entity.Category, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, wrapErr("list categories", err)
	}
	defer rows.Close()
	out := make([]*entity.Category, 0)
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, wrapErr("scan category", err)
		}
		out = append(out, &c)
	}
	return out, wrapErr("list categories", rows.Err())
}

// UpsertDepartment alta idempotente: un id o nombre repetido se omite (usado por el seed).
func (r *ReferenceRepo) UpsertDepartment(ctx context.Context, id, name string) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO departments (id, name, created_at) VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING`, id, name, time.Now().UTC())
	return wrapErr("upsert department", err)
}

// UpsertCategory igual que UpsertDepartment.
func (r *ReferenceRepo) UpsertCategory(ctx context.Context, id, name string) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO categories (id, name, created_at) VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING`, id, name, time.Now().UTC())
	return wrapErr("upsert category", err)
}
