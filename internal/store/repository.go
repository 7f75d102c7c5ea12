package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when a lookup by key matches no row.
var ErrNotFound = errors.New("record not found")

// Entity is implemented by every persisted domain type.
type Entity interface {
	GetID() int64
	SetID(int64)
}

// Repository provides the basic persistence operations for a single table
// whose primary key is an auto-assigned "id" column. Columns must match the
// db tags of T.
type Repository[T any, P interface {
	*T
	Entity
}] struct {
	ext     sqlx.ExtContext
	table   string
	columns []string
}

func NewRepository[T any, P interface {
	*T
	Entity
}](ext sqlx.ExtContext, table string, columns ...string) *Repository[T, P] {
	return &Repository[T, P]{ext: ext, table: table, columns: columns}
}

// WithTx returns a copy of the repository bound to tx.
func (r *Repository[T, P]) WithTx(tx *sqlx.Tx) *Repository[T, P] {
	return &Repository[T, P]{ext: tx, table: r.table, columns: r.columns}
}

func (r *Repository[T, P]) selectList() string {
	return "id, " + strings.Join(r.columns, ", ")
}

// Insert stores e and assigns the generated id to it.
func (r *Repository[T, P]) Insert(ctx context.Context, e P) error {
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (:%s) RETURNING id",
		r.table, strings.Join(r.columns, ", "), strings.Join(r.columns, ", :"))

	rows, err := sqlx.NamedQueryContext(ctx, r.ext, query, e)
	if err != nil {
		return fmt.Errorf("insert into %s: %w", r.table, err)
	}
	defer rows.Close()

	var id int64
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return fmt.Errorf("insert into %s: %w", r.table, err)
		}
		return fmt.Errorf("insert into %s: no id returned", r.table)
	}
	if err := rows.Scan(&id); err != nil {
		return fmt.Errorf("insert into %s: %w", r.table, err)
	}
	e.SetID(id)
	return rows.Close()
}

// Upsert writes every column of e. A zero id inserts a new row, otherwise the
// row with that id is created or overwritten.
func (r *Repository[T, P]) Upsert(ctx context.Context, e P) error {
	if e.GetID() == 0 {
		return r.Insert(ctx, e)
	}

	sets := make([]string, len(r.columns))
	for i, c := range r.columns {
		sets[i] = c + " = excluded." + c
	}
	query := fmt.Sprintf("INSERT INTO %s (id, %s) VALUES (:id, :%s) ON CONFLICT (id) DO UPDATE SET %s",
		r.table, strings.Join(r.columns, ", "), strings.Join(r.columns, ", :"), strings.Join(sets, ", "))

	if _, err := sqlx.NamedExecContext(ctx, r.ext, query, e); err != nil {
		return fmt.Errorf("upsert into %s: %w", r.table, err)
	}
	return nil
}

// Get loads the row with the given id or returns ErrNotFound.
func (r *Repository[T, P]) Get(ctx context.Context, id int64) (P, error) {
	query := r.ext.Rebind(fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", r.selectList(), r.table))

	var e T
	if err := sqlx.GetContext(ctx, r.ext, &e, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s %d: %w", r.table, id, err)
	}
	return P(&e), nil
}

// List returns every row ordered by id.
func (r *Repository[T, P]) List(ctx context.Context) ([]T, error) {
	return r.Select(ctx, fmt.Sprintf("SELECT %s FROM %s ORDER BY id", r.selectList(), r.table))
}

// Select runs a query that projects the repository's columns. Placeholders
// are written as '?' and rebound for the driver.
func (r *Repository[T, P]) Select(ctx context.Context, query string, args ...any) ([]T, error) {
	items := []T{}
	if err := sqlx.SelectContext(ctx, r.ext, &items, r.ext.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("select from %s: %w", r.table, err)
	}
	return items, nil
}

// Delete removes the row with the given id. Deleting a missing row is not an
// error.
func (r *Repository[T, P]) Delete(ctx context.Context, id int64) error {
	query := r.ext.Rebind(fmt.Sprintf("DELETE FROM %s WHERE id = ?", r.table))
	if _, err := r.ext.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete from %s: %w", r.table, err)
	}
	return nil
}

func (r *Repository[T, P]) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := sqlx.GetContext(ctx, r.ext, &n, fmt.Sprintf("SELECT COUNT(*) FROM %s", r.table)); err != nil {
		return 0, fmt.Errorf("count %s: %w", r.table, err)
	}
	return n, nil
}

// Exists reports whether any row matches the where clause.
func (r *Repository[T, P]) Exists(ctx context.Context, where string, args ...any) (bool, error) {
	query := r.ext.Rebind(fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", r.table, where))
	var n int64
	if err := sqlx.GetContext(ctx, r.ext, &n, query, args...); err != nil {
		return false, fmt.Errorf("exists in %s: %w", r.table, err)
	}
	return n > 0, nil
}
