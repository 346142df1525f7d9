package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/iliyamo/event-records/internal/model"
)

// querier is implemented by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLStore implements Store on database/sql.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQLStore wraps an open database handle.
func NewSQLStore(db *sql.DB, d Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: d}
}

// Migrate creates any missing tables.
func (s *SQLStore) Migrate(ctx context.Context) error {
	for _, t := range Tables {
		if _, err := s.db.ExecContext(ctx, s.dialect.CreateTable(t)); err != nil {
			return fmt.Errorf("create table %s: %w", t.Name, err)
		}
	}
	return nil
}

func (s *SQLStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *SQLStore) Get(ctx context.Context, t *Table, key Row) (Row, error) {
	return get(ctx, s.db, s.dialect, t, key)
}

func (s *SQLStore) List(ctx context.Context, t *Table, filter Row) ([]Row, error) {
	return list(ctx, s.db, s.dialect, t, filter)
}

// Begin starts a transaction.
func (s *SQLStore) Begin(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqlTx{tx: tx, dialect: s.dialect}, nil
}

type sqlTx struct {
	tx      *sql.Tx
	dialect Dialect
}

func (x *sqlTx) Get(ctx context.Context, t *Table, key Row) (Row, error) {
	return get(ctx, x.tx, x.dialect, t, key)
}

func (x *sqlTx) List(ctx context.Context, t *Table, filter Row) ([]Row, error) {
	return list(ctx, x.tx, x.dialect, t, filter)
}

func (x *sqlTx) Insert(ctx context.Context, t *Table, row Row) (Row, error) {
	if err := t.checkColumns(row); err != nil {
		return nil, err
	}
	var cols []string
	var args []any
	for _, c := range t.Columns {
		if t.Serial && c.Name == t.Key[0] {
			continue
		}
		cols = append(cols, c.Name)
		args = append(args, row[c.Name])
	}
	q := "INSERT INTO " + t.Name + " (" + strings.Join(cols, ", ") + ") VALUES (" + placeholders(len(cols)) + ")"

	key := t.KeyOf(row)
	switch {
	case t.Serial && x.dialect.Returning:
		var id int64
		q += " RETURNING " + t.Key[0]
		if err := x.tx.QueryRowContext(ctx, x.dialect.Rebind(q), args...).Scan(&id); err != nil {
			return nil, translate(err)
		}
		key[t.Key[0]] = id
	case t.Serial:
		res, err := x.tx.ExecContext(ctx, x.dialect.Rebind(q), args...)
		if err != nil {
			return nil, translate(err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		key[t.Key[0]] = id
	default:
		if _, err := x.tx.ExecContext(ctx, x.dialect.Rebind(q), args...); err != nil {
			return nil, translate(err)
		}
	}
	return x.Get(ctx, t, key)
}

// Update does not rely on RowsAffected: MySQL reports 0 when the new
// values equal the old ones.  Callers load the row first.
func (x *sqlTx) Update(ctx context.Context, t *Table, key, set Row) error {
	if len(set) == 0 {
		return nil
	}
	if err := t.checkColumns(set); err != nil {
		return err
	}
	cols := sortedColumns(set)
	assign := make([]string, len(cols))
	args := make([]any, 0, len(cols)+len(t.Key))
	for i, c := range cols {
		assign[i] = c + " = ?"
		args = append(args, set[c])
	}
	where, wargs := keyClause(t, key)
	q := "UPDATE " + t.Name + " SET " + strings.Join(assign, ", ") + " WHERE " + where
	if _, err := x.tx.ExecContext(ctx, x.dialect.Rebind(q), append(args, wargs...)...); err != nil {
		return translate(err)
	}
	return nil
}

func (x *sqlTx) Delete(ctx context.Context, t *Table, key Row) error {
	where, args := keyClause(t, key)
	res, err := x.tx.ExecContext(ctx, x.dialect.Rebind("DELETE FROM "+t.Name+" WHERE "+where), args...)
	if err != nil {
		return translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (x *sqlTx) Commit() error { return translate(x.tx.Commit()) }

func (x *sqlTx) Rollback() error {
	if err := x.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}

func get(ctx context.Context, q querier, d Dialect, t *Table, key Row) (Row, error) {
	where, args := keyClause(t, key)
	row := q.QueryRowContext(ctx, d.Rebind(selectFrom(t)+" WHERE "+where), args...)
	out, err := scanRow(t, row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return out, err
}

func list(ctx context.Context, q querier, d Dialect, t *Table, filter Row) ([]Row, error) {
	if err := t.checkColumns(filter); err != nil {
		return nil, err
	}
	query := selectFrom(t)
	var args []any
	if len(filter) > 0 {
		cols := sortedColumns(filter)
		conds := make([]string, len(cols))
		for i, c := range cols {
			conds[i] = c + " = ?"
			args = append(args, filter[c])
		}
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY " + strings.Join(t.Key, ", ")

	rows, err := q.QueryContext(ctx, d.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Row
	for rows.Next() {
		r, err := scanRow(t, rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRow(t *Table, s scanner) (Row, error) {
	dest := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		switch c.Kind {
		case KindInt:
			dest[i] = new(int64)
		case KindText:
			dest[i] = new(string)
		case KindDate:
			dest[i] = new(model.Date)
		}
	}
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	row := make(Row, len(t.Columns))
	for i, c := range t.Columns {
		switch v := dest[i].(type) {
		case *int64:
			row[c.Name] = *v
		case *string:
			row[c.Name] = *v
		case *model.Date:
			row[c.Name] = *v
		}
	}
	return row, nil
}

func selectFrom(t *Table) string {
	cols := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = c.Name
	}
	return "SELECT " + strings.Join(cols, ", ") + " FROM " + t.Name
}

func keyClause(t *Table, key Row) (string, []any) {
	conds := make([]string, len(t.Key))
	args := make([]any, len(t.Key))
	for i, k := range t.Key {
		conds[i] = k + " = ?"
		args[i] = key[k]
	}
	return strings.Join(conds, " AND "), args
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func sortedColumns(r Row) []string {
	cols := make([]string, 0, len(r))
	for k := range r {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}
