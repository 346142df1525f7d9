package service

import (
	"context"
	"errors"

	"github.com/iliyamo/event-records/internal/repository"
)

// checkIntegrity verifies a candidate row of t before it is written.
// Existence of every present foreign key is checked first, then every
// unique constraint touching a present column.  self is the key of the row
// being updated (nil on create) and never counts as a collision.
func checkIntegrity(ctx context.Context, r repository.Reader, t *repository.Table, row repository.Row, present []string, self repository.Row) error {
	has := make(map[string]bool, len(present))
	for _, c := range present {
		has[c] = true
	}

	for _, ref := range t.Refs {
		if !has[ref.Column] {
			continue
		}
		_, err := r.Get(ctx, ref.Table, repository.Row{ref.Table.Key[0]: row[ref.Column]})
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Entity: ref.Table.Label, Field: ref.Column}
		}
		if err != nil {
			return &StoreError{Op: "check " + t.Name + "." + ref.Column, Err: err}
		}
	}

	for _, u := range t.UniqueConstraints() {
		if !touches(u, has) {
			continue
		}
		filter := make(repository.Row, len(u.Columns))
		for _, c := range u.Columns {
			filter[c] = row[c]
		}
		rows, err := r.List(ctx, t, filter)
		if err != nil {
			return &StoreError{Op: "check " + u.Name, Err: err}
		}
		for _, other := range rows {
			if self != nil && other.Matches(t.KeyOf(self)) {
				continue
			}
			return &ConflictError{Constraint: u.Name, Message: u.Message}
		}
	}
	return nil
}

func touches(u repository.Unique, has map[string]bool) bool {
	for _, c := range u.Columns {
		if has[c] {
			return true
		}
	}
	return false
}
