package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.ReturnRequestRepository = (*ReturnRequestRepo)(nil)

const returnColumns = `id, item_name, quantity, reason, department_id, status, requested_by, ledger_entry_id, created_at, updated_at, completed_at`

// ReturnRequestRepo solicitudes de devolución sobre SQLite.
type ReturnRequestRepo struct {
	ex execer
}

// NewReturnRequestRepository acepta *sql.DB o *sql.Tx.
func NewReturnRequestRepository(ex execer) *ReturnRequestRepo {
	return &ReturnRequestRepo{ex: ex}
}

func (r *ReturnRequestRepo) Create(ctx context.Context, req *entity.ReturnRequest) error {
	_, err := r.ex.ExecContext(ctx, `
		INSERT INTO return_requests (`+returnColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		req.ID, req.ItemName, req.Quantity, req.Reason, nullString(req.DepartmentID), string(req.Status),
		req.RequestedBy, nullString(req.LedgerEntryID), formatTime(req.CreatedAt), formatTime(req.UpdatedAt),
		nullTime(req.CompletedAt),
	)
	return wrapErr("create return request", err)
}

func (r *ReturnRequestRepo) GetByID(ctx context.Context, id string) (*entity.ReturnRequest, error) {
	return r.getOne(ctx, "get return request", id)
}

// GetForUpdate equivale a GetByID: la tx inmediata ya serializa a los escritores.
func (r *ReturnRequestRepo) GetForUpdate(ctx context.Context, id string) (*entity.ReturnRequest, error) {
	return r.getOne(ctx, "get return request for update", id)
}

func (r *ReturnRequestRepo) Update(ctx context.Context, req *entity.ReturnRequest) error {
	res, err := r.ex.ExecContext(ctx, `
		UPDATE return_requests SET item_name = ?, quantity = ?, reason = ?, department_id = ?, updated_at = ?
		WHERE id = ? AND status = 'PENDING'`,
		req.ItemName, req.Quantity, req.Reason, nullString(req.DepartmentID), formatTime(req.UpdatedAt), req.ID,
	)
	if err != nil {
		return wrapErr("update return request", err)
	}
	if rowsAffected(res) == 0 {
		return domain.ErrInvalidState
	}
	return nil
}

func (r *ReturnRequestRepo) UpdateStatus(ctx context.Context, id string, from, to entity.ReturnStatus, ledgerEntryID string, at time.Time) error {
	var completedAt *time.Time
	if to == entity.ReturnCompleted {
		completedAt = &at
	}
	res, err := r.ex.ExecContext(ctx, `
		UPDATE return_requests
		SET status = ?, ledger_entry_id = COALESCE(?, ledger_entry_id), updated_at = ?,
			completed_at = COALESCE(?, completed_at)
		WHERE id = ? AND status = ?`,
		string(to), nullString(ledgerEntryID), formatTime(at), nullTime(completedAt), id, string(from),
	)
	if err != nil {
		return wrapErr("update return status", err)
	}
	if rowsAffected(res) == 0 {
		return domain.ErrConcurrencyConflict
	}
	return nil
}

func (r *ReturnRequestRepo) List(ctx context.Context, filter repository.ReturnFilter) ([]*entity.ReturnRequest, error) {
	b := builder.Select(returnColumns).From("return_requests").OrderBy("created_at DESC", "id ASC")
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

	rows, err := r.ex.QueryContext(ctx, query, args...)
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
	res, err := r.ex.ExecContext(ctx, `DELETE FROM return_requests WHERE id = ?`, id)
	if err != nil {
		return wrapErr("delete return request", err)
	}
	if rowsAffected(res) == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ReturnRequestRepo) getOne(ctx context.Context, op, id string) (*entity.ReturnRequest, error) {
	req, err := scanReturn(r.ex.QueryRowContext(ctx, `SELECT `+returnColumns+` FROM return_requests WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr(op, err)
	}
	return req, nil
}

func scanReturn(row scanner) (*entity.ReturnRequest, error) {
	var (
		req                               entity.ReturnRequest
		status, createdAt, updatedAt      string
		department, ledgerEntry, complete sql.NullString
	)
	if err := row.Scan(
		&req.ID, &req.ItemName, &req.Quantity, &req.Reason, &department, &status,
		&req.RequestedBy, &ledgerEntry, &createdAt, &updatedAt, &complete,
	); err != nil {
		return nil, err
	}
	req.Status = entity.ReturnStatus(status)
	req.DepartmentID = department.String
	req.LedgerEntryID = ledgerEntry.String

	var err error
	if req.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if req.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if complete.Valid {
		t, err := parseTime(complete.String)
		if err != nil {
			return nil, err
		}
		req.CompletedAt = &t
	}
	return &req, nil
}
