// Package repository defines the record store used by the service layer:
// table metadata, the Store/Tx contract, and a database/sql implementation
// for MySQL, PostgreSQL and SQLite.  The sentinel errors below let higher
// layers tell failure scenarios apart without knowing which driver is in
// use.
package repository

import "errors"

// ErrNotFound is returned when a lookup by key matches no row.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a write violates a unique or primary key
// constraint.  Handlers should translate this into an HTTP 409 response.
var ErrDuplicate = errors.New("duplicate record")

// ErrForeignKey is returned when a write references a row that does not
// exist (or no longer exists) at the time the store applies it.
var ErrForeignKey = errors.New("foreign key violation")

// ErrUnknownColumn is returned when a filter names a column the table does
// not have.
var ErrUnknownColumn = errors.New("unknown column")
