package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type scanner interface {
	Scan(dest ...any) error
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Table describes how an entity type maps onto one table.
type Table[T any] struct {
	Name    string
	Entity  string
	Key     string
	Columns []string // includes Key
	Scan    func(scanner) (T, error)
	Values  func(T) []any // same order as Columns
	KeyOf   func(T) uuid.UUID

	// NotFound is returned when an update or delete matches no row.
	NotFound error
}

// Query selects rows of a table. Where and OrderBy are SQL fragments using
// '?' placeholders.
type Query struct {
	Where   string
	Args    []any
	OrderBy []string
}

// Store is the generic single-table entity store the concrete stores build on.
type Store[T any] struct {
	db    *DB
	table Table[T]
}

func NewStore[T any](db *DB, table Table[T]) *Store[T] {
	return &Store[T]{db: db, table: table}
}

func (s *Store[T]) Create(ctx context.Context, row T) error {
	return s.Mutate(ctx, OpCreate, s.table.KeyOf(row), func(tx *Tx) error {
		return s.insert(ctx, tx, row)
	})
}

func (s *Store[T]) Update(ctx context.Context, row T) error {
	return s.Mutate(ctx, OpUpdate, s.table.KeyOf(row), func(tx *Tx) error {
		return s.update(ctx, tx, row)
	})
}

func (s *Store[T]) Delete(ctx context.Context, id uuid.UUID) error {
	return s.Mutate(ctx, OpDelete, id, func(tx *Tx) error {
		return s.delete(ctx, tx, id)
	})
}

// Get returns the row with the given key or the table's NotFound error.
func (s *Store[T]) Get(ctx context.Context, id uuid.UUID) (T, error) {
	return s.get(ctx, s.db, id)
}

// List returns the rows matching q.
func (s *Store[T]) List(ctx context.Context, q Query) ([]T, error) {
	rows, err := s.list(ctx, s.db, q)
	return rows, s.db.wrap("list "+s.table.Name, err)
}

// Mutate runs fn in one transaction and notifies subscribers after commit.
func (s *Store[T]) Mutate(ctx context.Context, op Op, id uuid.UUID, fn func(*Tx) error) error {
	return s.db.Mutate(ctx, Change{Op: op, Entities: []string{s.table.Entity}, ID: id}, fn)
}

// Subscribe registers fn for committed changes touching this store's entity.
func (s *Store[T]) Subscribe(fn func(Change)) (unsubscribe func()) {
	entity := s.table.Entity
	return s.db.hub.Subscribe(func(c Change) {
		if c.Touches(entity) {
			fn(c)
		}
	})
}

func (s *Store[T]) insert(ctx context.Context, tx *Tx, row T) error {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(s.table.Columns)), ", ")
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		s.table.Name, strings.Join(s.table.Columns, ", "), placeholders)
	_, err := tx.ExecContext(ctx, query, s.table.Values(row)...)
	return err
}

func (s *Store[T]) update(ctx context.Context, tx *Tx, row T) error {
	values := s.table.Values(row)
	sets := make([]string, 0, len(s.table.Columns))
	args := make([]any, 0, len(values))
	for i, col := range s.table.Columns {
		if col == s.table.Key {
			continue
		}
		sets = append(sets, col+" = ?")
		args = append(args, values[i])
	}
	args = append(args, s.table.KeyOf(row).String())

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?", s.table.Name, strings.Join(sets, ", "), s.table.Key)
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	return s.requireRow(res)
}

func (s *Store[T]) delete(ctx context.Context, tx *Tx, id uuid.UUID) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", s.table.Name, s.table.Key)
	res, err := tx.ExecContext(ctx, query, id.String())
	if err != nil {
		return err
	}
	return s.requireRow(res)
}

func (s *Store[T]) requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return s.table.NotFound
	}
	return nil
}

func (s *Store[T]) get(ctx context.Context, q querier, id uuid.UUID) (T, error) {
	rows, err := s.list(ctx, q, Query{Where: s.table.Key + " = ?", Args: []any{id.String()}})
	if err != nil {
		var zero T
		return zero, s.db.wrap("get "+s.table.Name, err)
	}
	if len(rows) == 0 {
		var zero T
		return zero, s.table.NotFound
	}
	return rows[0], nil
}

func (s *Store[T]) list(ctx context.Context, q querier, sel Query) ([]T, error) {
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(s.table.Columns, ", "), s.table.Name)
	if sel.Where != "" {
		query += " WHERE " + sel.Where
	}
	if len(sel.OrderBy) > 0 {
		query += " ORDER BY " + strings.Join(sel.OrderBy, ", ")
	}

	rows, err := q.QueryContext(ctx, query, sel.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		row, err := s.table.Scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.table.Name, err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
