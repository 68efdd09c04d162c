package sqlite

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

const ledgerColumns = `id, item_id, item_name, direction, quantity_changed, origin, department_id, actor_name, observation, created_at`

// LedgerRepo kardex sobre SQLite.
type LedgerRepo struct {
	ex execer
}

// NewLedgerRepository acepta *sql.DB o *sql.Tx.
func NewLedgerRepository(ex execer) *LedgerRepo {
	return &LedgerRepo{ex: ex}
}

func (r *LedgerRepo) Insert(ctx context.Context, e *entity.LedgerEntry) error {
	_, err := r.ex.ExecContext(ctx, `
		INSERT INTO ledger_entries (`+ledgerColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.ItemID, e.ItemName, string(e.Direction), e.QuantityChanged, string(e.Origin),
		nullString(e.DepartmentID), e.ActorName, e.Observation, formatTime(e.CreatedAt),
	)
	return wrapErr("insert ledger entry", err)
}

func (r *LedgerRepo) GetByID(ctx context.Context, id string) (*entity.LedgerEntry, error) {
	e, err := scanEntry(r.ex.QueryRowContext(ctx, `SELECT `+ledgerColumns+` FROM ledger_entries WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get ledger entry", err)
	}
	return e, nil
}

// List orden cronológico; From inclusivo, To exclusivo.
func (r *LedgerRepo) List(ctx context.Context, filter repository.LedgerFilter) ([]*entity.LedgerEntry, error) {
	b := builder.Select(ledgerColumns).From("ledger_entries").OrderBy("created_at ASC", "id ASC")
	if filter.ItemID != "" {
		b = b.Where(sq.Eq{"item_id": filter.ItemID})
	}
	if filter.Direction != "" {
		b = b.Where(sq.Eq{"direction": string(filter.Direction)})
	}
	if filter.DepartmentID != "" {
		b = b.Where(sq.Eq{"department_id": filter.DepartmentID})
	}
	if filter.From != nil {
		b = b.Where(sq.GtOrEq{"created_at": formatTime(*filter.From)})
	}
	if filter.To != nil {
		b = b.Where(sq.Lt{"created_at": formatTime(*filter.To)})
	}
	if filter.Limit > 0 {
		b = b.Limit(uint64(filter.Limit)).Offset(uint64(max(filter.Offset, 0)))
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, domain.NewRepositoryError("list ledger entries", err)
	}

	rows, err := r.ex.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list ledger entries", err)
	}
	defer rows.Close()

	out := make([]*entity.LedgerEntry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, wrapErr("scan ledger entry", err)
		}
		out = append(out, e)
	}
	return out, wrapErr("list ledger entries", rows.Err())
}

func (r *LedgerRepo) UpdateObservation(ctx context.Context, id, observation string) error {
	res, err := r.ex.ExecContext(ctx, `UPDATE ledger_entries SET observation = ? WHERE id = ?`, observation, id)
	if err != nil {
		return wrapErr("update observation", err)
	}
	if rowsAffected(res) == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *LedgerRepo) Delete(ctx context.Context, id string) error {
	res, err := r.ex.ExecContext(ctx, `DELETE FROM ledger_entries WHERE id = ?`, id)
	if err != nil {
		return wrapErr("delete ledger entry", err)
	}
	if rowsAffected(res) == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *LedgerRepo) InsertCorrection(ctx context.Context, c *entity.LedgerCorrection) error {
	_, err := r.ex.ExecContext(ctx, `
		INSERT INTO ledger_corrections (id, entry_id, item_id, item_name, direction, quantity_changed,
			entry_created_at, actor_name, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.EntryID, c.ItemID, c.ItemName, string(c.Direction), c.QuantityChanged,
		formatTime(c.EntryCreatedAt), c.ActorName, c.Reason, formatTime(c.CreatedAt),
	)
	return wrapErr("insert ledger correction", err)
}

// CountCorrections total de correcciones registradas para un asiento.
func (r *LedgerRepo) CountCorrections(ctx context.Context, entryID string) (int, error) {
	var n int
	err := r.ex.QueryRowContext(ctx, `SELECT COUNT(*) FROM ledger_corrections WHERE entry_id = ?`, entryID).Scan(&n)
	return n, wrapErr("count corrections", err)
}

func scanEntry(row scanner) (*entity.LedgerEntry, error) {
	var (
		e                            entity.LedgerEntry
		direction, origin, createdAt string
		department                   sql.NullString
	)
	if err := row.Scan(
		&e.ID, &e.ItemID, &e.ItemName, &direction, &e.QuantityChanged, &origin,
		&department, &e.ActorName, &e.Observation, &createdAt,
	); err != nil {
		return nil, err
	}
	e.Direction = entity.Direction(direction)
	e.Origin = entity.EntryOrigin(origin)
	e.DepartmentID = department.String
	t, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	e.CreatedAt = t
	return &e, nil
}
