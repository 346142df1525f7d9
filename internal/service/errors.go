// Package service validates and applies writes to the record store.  Every
// failure is returned as one of the error types below so the HTTP layer can
// pick a status code with errors.As.
package service

import (
	"errors"
	"fmt"

	"github.com/iliyamo/event-records/internal/contract"
	"github.com/iliyamo/event-records/internal/repository"
)

// ValidationError reports a payload that breaks the field contract.
type ValidationError struct {
	Fields contract.Errors
}

func (e *ValidationError) Error() string { return "invalid data: " + e.Fields.Error() }

// NotFoundError reports a missing record, a missing referent (Field names
// the offending foreign key) or, with Collection set, an empty collection.
type NotFoundError struct {
	Entity     string
	Field      string
	Collection bool
}

func (e *NotFoundError) Error() string {
	if e.Collection {
		return "No " + e.Entity + " found"
	}
	return e.Entity + " not found"
}

// ConflictError reports a write that collides with a unique constraint.
type ConflictError struct {
	Constraint string
	Message    string
}

func (e *ConflictError) Error() string { return e.Message }

// StoreError wraps an unexpected persistence failure.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store: %s: %v", e.Op, e.Err) }

func (e *StoreError) Unwrap() error { return e.Err }

// storeFailure classifies an error returned by the store while writing t.
// Constraint violations that slipped past the integrity checks (a racing
// writer) surface as conflicts.
func storeFailure(t *repository.Table, op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return &ConflictError{Constraint: t.Name, Message: t.Label + " conflicts with an existing record"}
	case errors.Is(err, repository.ErrForeignKey):
		return &ConflictError{Constraint: t.Name, Message: t.Label + " references a record that no longer exists"}
	case errors.Is(err, repository.ErrNotFound):
		return &NotFoundError{Entity: t.Label}
	}
	return &StoreError{Op: op + " " + t.Name, Err: err}
}
