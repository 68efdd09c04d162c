package postgres

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.ReturnRequestRepository = (*ReturnRequestRepo)(nil)

const returnColumns = `id, item_name, quantity, reason, department_id, status, requested_by, ledger_entry_id, created_at, updated_at, completed_at`

// ReturnRequestRepo implementación de ReturnRequestRepository sobre PostgreSQL.
type ReturnRequestRepo struct {
	q Querier
}

// NewReturnRequestRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReturnRequestRepository(q Querier) *ReturnRequestRepo {
	return &ReturnRequestRepo{q: q}
}

func (r *ReturnRequestRepo) Create(ctx context.Context, req *entity.ReturnRequest) error {
	query := `
		INSERT INTO return_requests (` + returnColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		req.ID, req.ItemName, req.Quantity, req.Reason, nullable(req.DepartmentID), string(req.Status),
		req.RequestedBy, nullable(req.LedgerEntryID), req.CreatedAt, req.UpdatedAt, req.CompletedAt,
	)
	return wrapErr("create return request", err)
}

func (r *ReturnRequestRepo) GetByID(ctx context.Context, id string) (*entity.ReturnRequest, error) {
	return r.getOne(ctx, "get return request", `SELECT `+returnColumns+` FROM return_requests WHERE id = $1`, id)
}

func (r *ReturnRequestRepo) GetForUpdate(ctx context.Context, id string) (*entity.ReturnRequest, error) {
	return r.getOne(ctx, "get return request for update",
		`SELECT `+returnColumns+` FROM return_requests WHERE id = $1 FOR UPDATE`, id)
}

func (r *ReturnRequestRepo) Update(ctx context.Context, req *entity.ReturnRequest) error {
	query := `
		UPDATE return_requests SET item_name = $2, quantity = $3, reason = $4, department_id = $5, updated_at = $6
		WHERE id = $1 AND status = 'PENDING'`
	tag, err := r.q.Exec(ctx, query,
		req.ID, req.ItemName, req.Quantity, req.Reason, nullable(req.DepartmentID), req.UpdatedAt,
	)
	if err != nil {
		return wrapErr("update return request", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidState
	}
	return nil
}

func (r *ReturnRequestRepo) UpdateStatus(ctx context.Context, id string, from, to entity.ReturnStatus, ledgerEntryID string, at time.Time) error {
	var completedAt *time.Time
	if to == entity.ReturnCompleted {
		completedAt = &at
	}
	query := `
		UPDATE return_requests
		SET status = $3, ledger_entry_id = COALESCE($4, ledger_entry_id), updated_at = $5,
			completed_at = COALESCE($6, completed_at)
		WHERE id = $1 AND status = $2`
	tag, err := r.q.Exec(ctx, query, id, string(from), string(to), nullable(ledgerEntryID), at, completedAt)
	if err != nil {
		return wrapErr("update return status", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConcurrencyConflict
	}
	return nil
}

func (r *ReturnRequestRepo) List(ctx context.Context, filter repository.ReturnFilter) ([]*entity.ReturnRequest, error) {
	b := psql.Select(returnColumns).From("return_requests").OrderBy("created_at DESC", "id ASC")
	if filter.Status != "" {
		b = b.Where(sq.Eq{"status": string(filter.Status)})
	}
	if filter.DepartmentID != "" {
		b = b.Where(sq.Eq{"department_id": filter.DepartmentID})
	}
	if filter.Limit > 0 {
		b = b.Limit(uint64(filter.Limit)).Offset(uint64(max(filter.Offset, 0)))
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, domain.NewRepositoryError("list return requests", err)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list return requests", err)
	}
	defer rows.Close()

	out := make([]*entity.ReturnRequest, 0)
	for rows.Next() {
		req, err := scanReturn(rows)
		if err != nil {
			return nil, wrapErr("scan return request", err)
		}
		out = append(out, req)
	}
	return out, wrapErr("list return requests", rows.Err())
}

func (r *ReturnRequestRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM return_requests WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete return request", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ReturnRequestRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.ReturnRequest, error) {
	req, err := scanReturn(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr(op, err)
	}
	return req, nil
}

func scanReturn(row pgx.Row) (*entity.ReturnRequest, error) {
	var (
		req                     entity.ReturnRequest
		status                  string
		department, ledgerEntry *string
	)
	if err := row.Scan(
		&req.ID, &req.ItemName, &req.Quantity, &req.Reason, &department, &status,
		&req.RequestedBy, &ledgerEntry, &req.CreatedAt, &req.UpdatedAt, &req.CompletedAt,
	); err != nil {
		return nil, err
	}
	req.Status = entity.ReturnStatus(status)
	req.DepartmentID = deref(department)
	req.LedgerEntryID = deref(ledgerEntry)
	return &req, nil
}
