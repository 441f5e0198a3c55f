package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shrimpsizemoose/semla/internal/apperr"
	"github.com/shrimpsizemoose/semla/internal/models"
)

// Repository implements get/create/update/delete/list for one table.
type Repository[T models.Entity] struct {
	ex    executor
	table Table
}

func newRepository[T models.Entity](ex executor, table Table) *Repository[T] {
	return &Repository[T]{ex: ex, table: table}
}

func (r *Repository[T]) Table() Table {
	return r.table
}

func (r *Repository[T]) selectColumns() string {
	return strings.Join(append(append([]string{}, timestamps...), r.table.Columns...), ", ")
}

// Get returns the row or a NOT_FOUND error.
func (r *Repository[T]) Get(ctx context.Context, id int64) (*T, error) {
	row, err := r.GetOptional(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, apperr.NotFoundf("%s with id %d not found", r.table.Label, id)
	}
	return row, nil
}

// GetOptional returns nil without error when the row does not exist.
func (r *Repository[T]) GetOptional(ctx context.Context, id int64) (*T, error) {
	var row T
	query := r.ex.rebind(fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?`, r.selectColumns(), r.table.Name))

	err := r.ex.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s %d: %w", r.table.Name, id, err)
	}
	return &row, nil
}

func (r *Repository[T]) Create(ctx context.Context, fields Fields) (*T, error) {
	columns, args, err := r.split(fields)
	if err != nil {
		return nil, err
	}

	ts := now()
	columns = append(columns, "created_at", "updated_at")
	args = append(args, ts, ts)

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	query := r.ex.rebind(fmt.Sprintf(
		`INSERT INTO %s (%s) VALUES (%s) RETURNING id`,
		r.table.Name,
		strings.Join(columns, ", "),
		placeholders,
	))

	var id int64
	if err := r.ex.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return nil, r.ex.mapError(r.table, err, "create")
	}
	return r.Get(ctx, id)
}

// Update changes only the given columns and bumps updated_at.
func (r *Repository[T]) Update(ctx context.Context, id int64, fields Fields) (*T, error) {
	if len(fields) == 0 {
		return r.Get(ctx, id)
	}

	columns, args, err := r.split(fields)
	if err != nil {
		return nil, err
	}

	assignments := make([]string, 0, len(columns)+1)
	for _, c := range columns {
		assignments = append(assignments, c+" = ?")
	}
	assignments = append(assignments, "updated_at = ?")
	args = append(args, now(), id)

	query := r.ex.rebind(fmt.Sprintf(
		`UPDATE %s SET %s WHERE id = ?`,
		r.table.Name,
		strings.Join(assignments, ", "),
	))

	res, err := r.ex.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, r.ex.mapError(r.table, err, "update")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, apperr.NotFoundf("%s with id %d not found", r.table.Label, id)
	}
	return r.Get(ctx, id)
}

// Delete removes the row, NOT_FOUND when nothing was deleted.
func (r *Repository[T]) Delete(ctx context.Context, id int64) error {
	query := r.ex.rebind(fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, r.table.Name))

	res, err := r.ex.db.ExecContext(ctx, query, id)
	if err != nil {
		return r.ex.mapError(r.table, err, "delete")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete %s %d: %w", r.table.Name, id, err)
	}
	if n == 0 {
		return apperr.NotFoundf("%s with id %d not found", r.table.Label, id)
	}
	return nil
}

// List returns one page of rows matching f plus pagination metadata.
func (r *Repository[T]) List(ctx context.Context, f *Filter, page models.Page) ([]T, models.Metadata, error) {
	page = page.Normalize()
	meta := models.Metadata{Page: page.Page, Size: page.Size}

	if !r.table.sortable(page.SortBy) {
		return nil, meta, apperr.Validationf("Unsupported sort field: %s", page.SortBy)
	}

	where, args := f.build()

	countQuery := r.ex.rebind(fmt.Sprintf(`SELECT COUNT(*) FROM %s%s`, r.table.Name, where))
	if err := r.ex.db.GetContext(ctx, &meta.Total, countQuery, args...); err != nil {
		return nil, meta, fmt.Errorf("failed to count %s: %w", r.table.Name, err)
	}

	order := page.SortBy + " " + strings.ToUpper(page.Order)
	if page.SortBy != "id" {
		order += ", id " + strings.ToUpper(page.Order)
	}

	query := r.ex.rebind(fmt.Sprintf(
		`SELECT %s FROM %s%s ORDER BY %s LIMIT ? OFFSET ?`,
		r.selectColumns(),
		r.table.Name,
		where,
		order,
	))

	rows := []T{}
	if err := r.ex.db.SelectContext(ctx, &rows, query, append(args, page.Size, page.Offset())...); err != nil {
		return nil, meta, fmt.Errorf("failed to list %s: %w", r.table.Name, err)
	}
	return rows, meta, nil
}

// Find returns every row matching f ordered by orderBy, e.g. "date_time ASC".
func (r *Repository[T]) Find(ctx context.Context, f *Filter, orderBy string) ([]T, error) {
	where, args := f.build()
	if orderBy == "" {
		orderBy = "id ASC"
	}

	query := r.ex.rebind(fmt.Sprintf(
		`SELECT %s FROM %s%s ORDER BY %s`,
		r.selectColumns(),
		r.table.Name,
		where,
		orderBy,
	))

	rows := []T{}
	if err := r.ex.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to find %s: %w", r.table.Name, err)
	}
	return rows, nil
}

// FindOne returns the first row matching f, or nil.
func (r *Repository[T]) FindOne(ctx context.Context, f *Filter) (*T, error) {
	where, args := f.build()

	var row T
	query := r.ex.rebind(fmt.Sprintf(
		`SELECT %s FROM %s%s ORDER BY id ASC LIMIT 1`,
		r.selectColumns(),
		r.table.Name,
		where,
	))

	err := r.ex.db.GetContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find %s: %w", r.table.Name, err)
	}
	return &row, nil
}

func (r *Repository[T]) Count(ctx context.Context, f *Filter) (int64, error) {
	where, args := f.build()

	var n int64
	query := r.ex.rebind(fmt.Sprintf(`SELECT COUNT(*) FROM %s%s`, r.table.Name, where))
	if err := r.ex.db.GetContext(ctx, &n, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", r.table.Name, err)
	}
	return n, nil
}

// split orders the fields by column name and rejects columns the table does not own.
func (r *Repository[T]) split(fields Fields) ([]string, []any, error) {
	columns := make([]string, 0, len(fields))
	for c := range fields {
		if !r.table.hasColumn(c) {
			return nil, nil, fmt.Errorf("unknown column %q for %s", c, r.table.Name)
		}
		columns = append(columns, c)
	}
	sort.Strings(columns)

	args := make([]any, 0, len(columns))
	for _, c := range columns {
		args = append(args, fields[c])
	}
	return columns, args, nil
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
