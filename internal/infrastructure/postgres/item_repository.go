package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = `id, name, category_id, department_id, current_quantity, minimum_quantity, version, created_at, updated_at`

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de artículos. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.Name, nullable(item.CategoryID), nullable(item.DepartmentID),
		item.CurrentQuantity, item.MinimumQuantity, item.Version, item.CreatedAt, item.UpdatedAt,
	)
	return wrapErr("create item", err)
}

func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	return r.getOne(ctx, "get item", `SELECT `+itemColumns+` FROM items WHERE id = $1`, id)
}

// GetForUpdate obtiene el artículo y bloquea la fila (SELECT FOR UPDATE).
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	return r.getOne(ctx, "get item for update", `SELECT `+itemColumns+` FROM items WHERE id = $1 FOR UPDATE`, id)
}

// GetByNameAndDepartment compara el nombre sin distinguir mayúsculas; departamento vacío es "sin asignar".
func (r *ItemRepo) GetByNameAndDepartment(ctx context.Context, name, departmentID string) (*entity.Item, error) {
	query := `
		SELECT ` + itemColumns + ` FROM items
		WHERE lower(name) = lower($1) AND department_id IS NOT DISTINCT FROM $2`
	return r.getOne(ctx, "get item by name", query, strings.TrimSpace(name), nullable(departmentID))
}

func (r *ItemRepo) UpdateDetails(ctx context.Context, item *entity.Item) error {
	query := `
		UPDATE items SET name = $2, category_id = $3, department_id = $4, minimum_quantity = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		item.ID, item.Name, nullable(item.CategoryID), nullable(item.DepartmentID), item.MinimumQuantity, item.UpdatedAt,
	)
	if err != nil {
		return wrapErr("update item", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateQuantity compare-and-swap sobre version.
func (r *ItemRepo) UpdateQuantity(ctx context.Context, id string, quantity, expectedVersion int64, at time.Time) error {
	query := `
		UPDATE items SET current_quantity = $2, version = version + 1, updated_at = $4
		WHERE id = $1 AND version = $3`
	tag, err := r.q.Exec(ctx, query, id, quantity, expectedVersion, at)
	if err != nil {
		return wrapErr("update item quantity", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConcurrencyConflict
	}
	return nil
}

func (r *ItemRepo) List(ctx context.Context, filter repository.ItemFilter) ([]*entity.Item, error) {
	b := psql.Select(itemColumns).From("items").OrderBy("name ASC", "id ASC")
	if filter.DepartmentID != "" {
		b = b.Where(sq.Eq{"department_id": filter.DepartmentID})
	}
	if filter.CategoryID != "" {
		b = b.Where(sq.Eq{"category_id": filter.CategoryID})
	}
	if filter.LowStockOnly {
		b = b.Where("current_quantity <= minimum_quantity")
	}
	if filter.Limit > 0 {
		b = b.Limit(uint64(filter.Limit)).Offset(uint64(max(filter.Offset, 0)))
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, domain.NewRepositoryError("list items", err)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list items", err)
	}
	defer rows.Close()

	out := make([]*entity.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, wrapErr("scan item", err)
		}
		out = append(out, item)
	}
	return out, wrapErr("list items", rows.Err())
}

func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete item", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ItemRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.Item, error) {
	item, err := scanItem(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr(op, err)
	}
	return item, nil
}

func scanItem(row pgx.Row) (*entity.Item, error) {
	var (
		it                   entity.Item
		category, department *string
	)
	if err := row.Scan(
		&it.ID, &it.Name, &category, &department,
		&it.CurrentQuantity, &it.MinimumQuantity, &it.Version, &it.CreatedAt, &it.UpdatedAt,
	); err != nil {
		return nil, err
	}
	it.CategoryID = deref(category)
	it.DepartmentID = deref(department)
	return &it, nil
}
