package repository

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Dialect captures the differences between the supported SQL databases.
type Dialect struct {
	Name      string
	Numbered  bool // $1, $2 ... placeholders
	Returning bool // INSERT ... RETURNING for generated keys
}

var (
	MySQL    = Dialect{Name: "mysql"}
	Postgres = Dialect{Name: "postgres", Numbered: true, Returning: true}
	SQLite   = Dialect{Name: "sqlite"}
)

// DialectFor returns the dialect for a DB_DRIVER value.
func DialectFor(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case "mysql":
		return MySQL, nil
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	}
	return Dialect{}, fmt.Errorf("unsupported database driver %q", name)
}

// Rebind rewrites ? placeholders for dialects that number them.
func (d Dialect) Rebind(q string) string {
	if !d.Numbered {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// columnType renders the column definition used in CREATE TABLE.
func (d Dialect) columnType(t *Table, c Column) string {
	serialKey := t.Serial && c.Name == t.Key[0]
	switch {
	case serialKey && d.Name == "mysql":
		return "BIGINT NOT NULL AUTO_INCREMENT"
	case serialKey && d.Name == "postgres":
		return "BIGSERIAL"
	case serialKey && d.Name == "sqlite":
		return "INTEGER PRIMARY KEY AUTOINCREMENT"
	}
	switch c.Kind {
	case KindText:
		return fmt.Sprintf("VARCHAR(%d) NOT NULL", c.Size)
	case KindDate:
		return "DATE NOT NULL"
	}
	if d.Name == "sqlite" {
		return "INTEGER NOT NULL"
	}
	return "BIGINT NOT NULL"
}

// CreateTable returns the DDL for t.
func (d Dialect) CreateTable(t *Table) string {
	var defs []string
	for _, c := range t.Columns {
		defs = append(defs, c.Name+" "+d.columnType(t, c))
	}
	if !(t.Serial && d.Name == "sqlite") {
		defs = append(defs, "PRIMARY KEY ("+strings.Join(t.Key, ", ")+")")
	}
	for _, u := range t.Uniques {
		defs = append(defs, "CONSTRAINT "+u.Name+" UNIQUE ("+strings.Join(u.Columns, ", ")+")")
	}
	for _, r := range t.Refs {
		defs = append(defs, fmt.Sprintf(
			"CONSTRAINT fk_%s_%s FOREIGN KEY (%s) REFERENCES %s (%s) ON DELETE CASCADE ON UPDATE CASCADE",
			t.Name, r.Column, r.Column, r.Table.Name, r.Table.Key[0]))
	}
	q := "CREATE TABLE IF NOT EXISTS " + t.Name + " (\n    " + strings.Join(defs, ",\n    ") + "\n)"
	if d.Name == "mysql" {
		q += " ENGINE=InnoDB DEFAULT CHARSET=utf8mb4"
	}
	return q
}

// translate maps driver constraint errors onto the package sentinels so
// callers never inspect driver types.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case 1062:
			return fmt.Errorf("%w: %s", ErrDuplicate, me.Message)
		case 1216, 1452:
			return fmt.Errorf("%w: %s", ErrForeignKey, me.Message)
		}
		return err
	}
	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		switch pe.Code {
		case "23505":
			return fmt.Errorf("%w: %s", ErrDuplicate, pe.ConstraintName)
		case "23503":
			return fmt.Errorf("%w: %s", ErrForeignKey, pe.ConstraintName)
		}
		return err
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%w: %s", ErrDuplicate, se.Error())
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%w: %s", ErrForeignKey, se.Error())
		}
		// Older builds report the primary result code only.
		msg := se.Error()
		switch {
		case strings.Contains(msg, "UNIQUE constraint failed"):
			return fmt.Errorf("%w: %s", ErrDuplicate, msg)
		case strings.Contains(msg, "FOREIGN KEY constraint failed"):
			return fmt.Errorf("%w: %s", ErrForeignKey, msg)
		}
	}
	return err
}
