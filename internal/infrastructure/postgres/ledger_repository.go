package postgres

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

const ledgerColumns = `id, item_id, item_name, direction, quantity_changed, origin, department_id, actor_name, observation, created_at`

// LedgerRepo implementación del kardex sobre PostgreSQL.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador del kardex. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

func (r *LedgerRepo) Insert(ctx context.Context, e *entity.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.ItemID, e.ItemName, string(e.Direction), e.QuantityChanged, string(e.Origin),
		nullable(e.DepartmentID), e.ActorName, e.Observation, e.CreatedAt,
	)
	return wrapErr("insert ledger entry", err)
}

func (r *LedgerRepo) GetByID(ctx context.Context, id string) (*entity.LedgerEntry, error) {
	e, err := scanEntry(r.q.QueryRow(ctx, `SELECT `+ledgerColumns+` FROM ledger_entries WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get ledger entry", err)
	}
	return e, nil
}

// List ordena cronológicamente. From es inclusivo y To exclusivo.
func (r *LedgerRepo) List(ctx context.Context, filter repository.LedgerFilter) ([]*entity.LedgerEntry, error) {
	b := psql.Select(ledgerColumns).From("ledger_entries").OrderBy("created_at ASC", "id ASC")
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
		b = b.Where(sq.GtOrEq{"created_at": *filter.From})
	}
	if filter.To != nil {
		b = b.Where(sq.Lt{"created_at": *filter.To})
	}
	if filter.Limit > 0 {
		b = b.Limit(uint64(filter.Limit)).Offset(uint64(max(filter.Offset, 0)))
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, domain.NewRepositoryError("list ledger entries", err)
	}

	rows, err := r.q.Query(ctx, query, args...)
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
	tag, err := r.q.Exec(ctx, `UPDATE ledger_entries SET observation = $2 WHERE id = $1`, id, observation)
	if err != nil {
		return wrapErr("update observation", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *LedgerRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM ledger_entries WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete ledger entry", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *LedgerRepo) InsertCorrection(ctx context.Context, c *entity.LedgerCorrection) error {
	query := `
		INSERT INTO ledger_corrections (id, entry_id, item_id, item_name, direction, quantity_changed,
			entry_created_at, actor_name, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.EntryID, c.ItemID, c.ItemName, string(c.Direction), c.QuantityChanged,
		c.EntryCreatedAt, c.ActorName, c.Reason, c.CreatedAt,
	)
	return wrapErr("insert ledger correction", err)
}

func scanEntry(row pgx.Row) (*entity.LedgerEntry, error) {
	var (
		e                 entity.LedgerEntry
		direction, origin string
		department        *string
	)
	if err := row.Scan(
		&e.ID, &e.ItemID, &e.ItemName, &direction, &e.QuantityChanged, &origin,
		&department, &e.ActorName, &e.Observation, &e.CreatedAt,
	); err != nil {
		return nil, err
	}
	e.Direction = entity.Direction(direction)
	e.Origin = entity.EntryOrigin(origin)
	e.DepartmentID = deref(department)
	return &e, nil
}
