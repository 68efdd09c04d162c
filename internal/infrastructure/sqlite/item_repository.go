package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = `id, name, category_id, department_id, current_quantity, minimum_quantity, version, created_at, updated_at`

// ItemRepo artículos sobre SQLite.
type ItemRepo struct {
	ex execer
}

// NewItemRepository acepta *sql.DB o *sql.Tx.
func NewItemRepository(ex execer) *ItemRepo {
	return &ItemRepo{ex: ex}
}

func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	_, err := r.ex.ExecContext(ctx, `
		INSERT INTO items (`+itemColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Name, nullString(item.CategoryID), nullString(item.DepartmentID),
		item.CurrentQuantity, item.MinimumQuantity, item.Version,
		formatTime(item.CreatedAt), formatTime(item.UpdatedAt),
	)
	return wrapErr("create item", err)
}

func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	return r.getOne(ctx, "get item", `SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
}

// GetForUpdate la transacción ya tiene el lock de escritura (_txlock=immediate); no hay FOR UPDATE en SQLite.
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	return r.getOne(ctx, "get item for update", `SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
}

func (r *ItemRepo) GetByNameAndDepartment(ctx context.Context, name, departmentID string) (*entity.Item, error) {
	return r.getOne(ctx, "get item by name", `
		SELECT `+itemColumns+` FROM items
		WHERE lower(name) = lower(?) AND COALESCE(department_id, '') = ?`,
		strings.TrimSpace(name), departmentID)
}

func (r *ItemRepo) UpdateDetails(ctx context.Context, item *entity.Item) error {
	res, err := r.ex.ExecContext(ctx, `
		UPDATE items SET name = ?, category_id = ?, department_id = ?, minimum_quantity = ?, updated_at = ?
		WHERE id = ?`,
		item.Name, nullString(item.CategoryID), nullString(item.DepartmentID), item.MinimumQuantity,
		formatTime(item.UpdatedAt), item.ID,
	)
	if err != nil {
		return wrapErr("update item", err)
	}
	if rowsAffected(res) == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ItemRepo) UpdateQuantity(ctx context.Context, id string, quantity, expectedVersion int64, at time.Time) error {
	res, err := r.ex.ExecContext(ctx, `
		UPDATE items SET current_quantity = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`,
		quantity, formatTime(at), id, expectedVersion,
	)
	if err != nil {
		return wrapErr("update item quantity", err)
	}
	if rowsAffected(res) == 0 {
		return domain.ErrConcurrencyConflict
	}
	return nil
}

func (r *ItemRepo) List(ctx context.Context, filter repository.ItemFilter) ([]*entity.Item, error) {
	b := builder.Select(itemColumns).From("items").OrderBy("name ASC", "id ASC")
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

	rows, err := r.ex.QueryContext(ctx, query, args...)
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
	res, err := r.ex.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return wrapErr("delete item", err)
	}
	if rowsAffected(res) == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ItemRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.Item, error) {
	item, err := scanItem(r.ex.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr(op, err)
	}
	return item, nil
}

func scanItem(row scanner) (*entity.Item, error) {
	var (
		it                   entity.Item
		category, department sql.NullString
		createdAt, updatedAt string
	)
	if err := row.Scan(
		&it.ID, &it.Name, &category, &department,
		&it.CurrentQuantity, &it.MinimumQuantity, &it.Version, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	it.CategoryID = category.String
	it.DepartmentID = department.String
	var err error
	if it.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if it.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &it, nil
}
