package repository

import (
	"fmt"

	"github.com/iliyamo/event-records/internal/model"
)

// Kind is the storage type of a column.
type Kind int

const (
	KindInt Kind = iota
	KindText
	KindDate
)

// Column describes one column of a table.  Size bounds text columns.
type Column struct {
	Name string
	Kind Kind
	Size int
}

// Ref is a foreign key from Column to the single-column key of Table.
// Deleting the referenced row deletes the referencing rows.
type Ref struct {
	Column string
	Table  *Table
}

// Unique is a uniqueness constraint over one or more columns.  Message is
// what clients see when a write collides with it.
type Unique struct {
	Name    string
	Columns []string
	Message string
}

// Table is the metadata the stores, the schema generator and the
// integrity checks share.
type Table struct {
	Name    string // table name
	Label   string // singular, capitalised ("Ticket status")
	Plural  string // lower case collection noun ("ticket statuses")
	Columns []Column
	Key     []string // primary key columns
	Serial  bool     // key generated by the store on insert
	Refs    []Ref
	Uniques []Unique
}

// Column returns the named column.
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// IsKey reports whether name is part of the primary key.
func (t *Table) IsKey(name string) bool {
	for _, k := range t.Key {
		if k == name {
			return true
		}
	}
	return false
}

// KeyOf extracts the primary key values of row.
func (t *Table) KeyOf(row Row) Row {
	key := make(Row, len(t.Key))
	for _, k := range t.Key {
		key[k] = row[k]
	}
	return key
}

// UniqueConstraints lists the constraints a write must not collide with.
// A caller supplied primary key counts as one.
func (t *Table) UniqueConstraints() []Unique {
	if t.Serial {
		return t.Uniques
	}
	pk := Unique{Name: t.Name + "_pkey", Columns: t.Key, Message: t.Label + " already exists"}
	return append([]Unique{pk}, t.Uniques...)
}

// Row is a single record keyed by column name.  Values are int64, string
// or model.Date according to the column kind.
type Row map[string]any

// Int returns an integer column value.
func (r Row) Int(col string) int64 {
	v, _ := r[col].(int64)
	return v
}

// String returns a text column value.
func (r Row) String(col string) string {
	v, _ := r[col].(string)
	return v
}

// Date returns a date column value.
func (r Row) Date(col string) model.Date {
	v, _ := r[col].(model.Date)
	return v
}

// Clone returns a shallow copy of r.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Equal compares two column values of the kinds a Row may hold.
func Equal(a, b any) bool {
	if da, ok := a.(model.Date); ok {
		db, ok := b.(model.Date)
		return ok && da.Equal(db.Time)
	}
	return a == b
}

// Matches reports whether row has the filter's value in every filter column.
func (r Row) Matches(filter Row) bool {
	for k, v := range filter {
		if !Equal(r[k], v) {
			return false
		}
	}
	return true
}

func (t *Table) checkColumns(row Row) error {
	for k := range row {
		if _, ok := t.Column(k); !ok {
			return fmt.Errorf("%w: %s.%s", ErrUnknownColumn, t.Name, k)
		}
	}
	return nil
}
