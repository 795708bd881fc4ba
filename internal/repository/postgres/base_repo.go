package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/and161185/blogd/internal/errs"
	"github.com/and161185/blogd/internal/repository"
)

// BaseRepo implements repository.Repository for any entity type described by
// a Meta. Ids and creation timestamps are generated by the database; every
// write returns the stored row via RETURNING.
type BaseRepo[T any] struct {
	db   *DB
	meta Meta[T]
}

// NewBaseRepo constructs a repository bound to one entity type.
func NewBaseRepo[T any](db *DB, meta Meta[T]) *BaseRepo[T] {
	return &BaseRepo[T]{db: db, meta: meta}
}

func (r *BaseRepo[T]) insertSQL() string {
	ph := make([]string, len(r.meta.Insert))
	for i := range r.meta.Insert {
		ph[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		r.meta.Table,
		strings.Join(r.meta.Insert, ", "),
		strings.Join(ph, ", "),
		r.meta.selectList(),
	)
}

// setClause builds "col = $n" pairs from a patch, validating every column
// against the patchable allow-list. Keys are sorted so the SQL is stable.
func (r *BaseRepo[T]) setClause(changes map[string]any) (string, []any, error) {
	cols := make([]string, 0, len(changes))
	for c := range changes {
		if !r.meta.patchable(c) {
			return "", nil, fmt.Errorf("column %q: %w", c, errs.ErrInvalidColumn)
		}
		cols = append(cols, c)
	}
	sort.Strings(cols)

	parts := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols))
	for i, c := range cols {
		parts = append(parts, fmt.Sprintf("%s = $%d", c, i+1))
		args = append(args, changes[c])
	}
	return strings.Join(parts, ", "), args, nil
}

func collectOne[T any](rows pgx.Rows, err error) (*T, error) {
	if err != nil {
		return nil, translate(err)
	}
	rec, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[T])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, translate(err)
	}
	return rec, nil
}

func collectAll[T any](rows pgx.Rows, err error) ([]*T, error) {
	if err != nil {
		return nil, translate(err)
	}
	recs, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[T])
	if err != nil {
		return nil, translate(err)
	}
	return recs, nil
}

// Create persists one record and returns the stored row.
func (r *BaseRepo[T]) Create(ctx context.Context, rec *T) (*T, error) {
	rows, err := r.db.Pool.Query(ctx, r.insertSQL(), r.meta.Values(rec)...)
	return collectOne[T](rows, err)
}

// CreateBatch persists all records in one transaction; any store rejection
// (for example a uniqueness violation) rolls back the whole batch.
func (r *BaseRepo[T]) CreateBatch(ctx context.Context, recs []*T) (out []*T, err error) {
	if len(recs) == 0 {
		return []*T{}, nil
	}
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = e
		}
	}()

	q := r.insertSQL()
	out = make([]*T, 0, len(recs))
	for _, rec := range recs {
		rows, qerr := tx.Query(ctx, q, r.meta.Values(rec)...)
		stored, cerr := collectOne[T](rows, qerr)
		if cerr != nil {
			err = cerr
			return nil, err
		}
		out = append(out, stored)
	}
	return out, nil
}

// GetByID loads one record by primary key.
func (r *BaseRepo[T]) GetByID(ctx context.Context, id uuid.UUID) (*T, error) {
	q := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", r.meta.selectList(), r.meta.Table)
	rows, err := r.db.Pool.Query(ctx, q, id)
	return collectOne[T](rows, err)
}

// GetByIDs returns the subset of ids that exist; missing ids are omitted.
func (r *BaseRepo[T]) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*T, error) {
	if len(ids) == 0 {
		return []*T{}, nil
	}
	q := fmt.Sprintf("SELECT %s FROM %s WHERE id = ANY($1)", r.meta.selectList(), r.meta.Table)
	rows, err := r.db.Pool.Query(ctx, q, ids)
	return collectAll[T](rows, err)
}

// List returns a filtered, ordered, optionally paginated page. Order and
// search column names are validated before any query touches the store.
// Limit zero means no pagination; the reported limit then equals the total.
func (r *BaseRepo[T]) List(ctx context.Context, q repository.ListQuery) (*repository.Page[T], error) {
	orderBy := q.OrderBy
	if orderBy == "" {
		orderBy = "created_at"
	}
	if !r.meta.hasColumn(orderBy) {
		return nil, fmt.Errorf("order_by %q: %w", orderBy, errs.ErrInvalidColumn)
	}

	var (
		where string
		args  []any
	)
	if q.SearchBy != "" && q.SearchQuery != "" {
		if !r.meta.hasColumn(q.SearchBy) {
			return nil, fmt.Errorf("search_by %q: %w", q.SearchBy, errs.ErrInvalidColumn)
		}
		where = fmt.Sprintf(" WHERE %s::text ILIKE '%%' || $1 || '%%'", q.SearchBy)
		args = append(args, q.SearchQuery)
	}
	if q.Limit > 0 && q.Page < 1 {
		return nil, fmt.Errorf("page %d: %w", q.Page, errs.ErrInvalidPage)
	}

	var total int64
	countQ := "SELECT count(*) FROM " + r.meta.Table + where
	if err := r.db.Pool.QueryRow(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, err
	}

	dir := "ASC"
	if q.Desc {
		dir = "DESC"
	}
	sel := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s %s",
		r.meta.selectList(), r.meta.Table, where, orderBy, dir)

	page, limit, totalPages := 1, int(total), 1
	if q.Limit > 0 {
		page, limit = q.Page, q.Limit
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
		sel += fmt.Sprintf(" OFFSET $%d LIMIT $%d", len(args)+1, len(args)+2)
		args = append(args, (page-1)*limit, limit)
	}

	rows, err := r.db.Pool.Query(ctx, sel, args...)
	recs, err := collectAll[T](rows, err)
	if err != nil {
		return nil, err
	}
	return &repository.Page[T]{
		Page:         page,
		Limit:        limit,
		TotalPages:   totalPages,
		TotalRecords: total,
		Records:      recs,
	}, nil
}

// UpdateByID applies only the columns present in changes, stamps updated_at,
// and returns the refreshed row. An empty patch returns the current row.
func (r *BaseRepo[T]) UpdateByID(ctx context.Context, id uuid.UUID, changes map[string]any) (*T, error) {
	set, args, err := r.setClause(changes)
	if err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return r.GetByID(ctx, id)
	}
	q := fmt.Sprintf("UPDATE %s SET %s, updated_at = now() WHERE id = $%d RETURNING %s",
		r.meta.Table, set, len(args)+1, r.meta.selectList())
	rows, qerr := r.db.Pool.Query(ctx, q, append(args, id)...)
	return collectOne[T](rows, qerr)
}

// UpdateBatch applies each patch inside one transaction. Patches whose id
// does not resolve to an existing row are dropped from the result; this is
// a filtering semantic, not a rollback. Integrity violations still roll back
// the whole batch.
func (r *BaseRepo[T]) UpdateBatch(ctx context.Context, patches []repository.Patch) (out []*T, err error) {
	if len(patches) == 0 {
		return []*T{}, nil
	}
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = e
		}
	}()

	out = make([]*T, 0, len(patches))
	for _, p := range patches {
		set, args, serr := r.setClause(p.Changes)
		if serr != nil {
			err = serr
			return nil, err
		}
		var q string
		if len(args) == 0 {
			q = fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", r.meta.selectList(), r.meta.Table)
			args = []any{p.ID}
		} else {
			q = fmt.Sprintf("UPDATE %s SET %s, updated_at = now() WHERE id = $%d RETURNING %s",
				r.meta.Table, set, len(args)+1, r.meta.selectList())
			args = append(args, p.ID)
		}
		rows, qerr := tx.Query(ctx, q, args...)
		rec, cerr := collectOne[T](rows, qerr)
		if errors.Is(cerr, errs.ErrNotFound) {
			continue
		}
		if cerr != nil {
			err = cerr
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// DeleteByID removes one record.
func (r *BaseRepo[T]) DeleteByID(ctx context.Context, id uuid.UUID) error {
	q := fmt.Sprintf("DELETE FROM %s WHERE id = $1", r.meta.Table)
	tag, err := r.db.Pool.Exec(ctx, q, id)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// DeleteBatch removes whatever subset of ids exists and reports the count.
func (r *BaseRepo[T]) DeleteBatch(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	q := fmt.Sprintf("DELETE FROM %s WHERE id = ANY($1)", r.meta.Table)
	tag, err := r.db.Pool.Exec(ctx, q, ids)
	if err != nil {
		return 0, translate(err)
	}
	return tag.RowsAffected(), nil
}
