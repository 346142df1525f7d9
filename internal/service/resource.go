package service

import (
	"context"
	"errors"
	"log"

	"github.com/iliyamo/event-records/internal/contract"
	"github.com/iliyamo/event-records/internal/queue"
	"github.com/iliyamo/event-records/internal/repository"
)

// Definition describes one entity: its table, its payload contract and the
// conversions between the record type R, the payload P and store rows.
type Definition[R any, P any] struct {
	Table  *repository.Table
	Fields func(p *P) []contract.Field
	Build  func(p *P) R
	Apply  func(r *R, p *P)
	Row    func(r R) repository.Row
	Record func(row repository.Row) R
}

// Resource runs the read and write operations of one entity.
type Resource[R any, P any] struct {
	def      Definition[R, P]
	store    repository.Store
	notifier Notifier
}

// NewResource binds def to a store.  notifier may be nil.
func NewResource[R any, P any](store repository.Store, def Definition[R, P], notifier Notifier) *Resource[R, P] {
	return &Resource[R, P]{def: def, store: store, notifier: notifier}
}

// Table returns the entity's table metadata.
func (r *Resource[R, P]) Table() *repository.Table { return r.def.Table }

// List returns every record; an empty table is a NotFoundError.
func (r *Resource[R, P]) List(ctx context.Context) ([]R, error) {
	return r.ListBy(ctx, nil)
}

// ListBy returns the records whose columns equal filter.
func (r *Resource[R, P]) ListBy(ctx context.Context, filter repository.Row) ([]R, error) {
	t := r.def.Table
	rows, err := r.store.List(ctx, t, filter)
	if err != nil {
		return nil, &StoreError{Op: "list " + t.Name, Err: err}
	}
	if len(rows) == 0 {
		return nil, &NotFoundError{Entity: t.Plural, Collection: true}
	}
	out := make([]R, len(rows))
	for i, row := range rows {
		out[i] = r.def.Record(row)
	}
	return out, nil
}

// Get returns the record with the given key.
func (r *Resource[R, P]) Get(ctx context.Context, key repository.Row) (R, error) {
	var zero R
	t := r.def.Table
	row, err := r.store.Get(ctx, t, key)
	if errors.Is(err, repository.ErrNotFound) {
		return zero, &NotFoundError{Entity: t.Label}
	}
	if err != nil {
		return zero, &StoreError{Op: "get " + t.Name, Err: err}
	}
	return r.def.Record(row), nil
}

// Create validates body, checks references and uniqueness, and inserts the
// record.  It returns the record as persisted.
func (r *Resource[R, P]) Create(ctx context.Context, body []byte) (R, error) {
	var zero R
	var p P
	t := r.def.Table
	fields := r.def.Fields(&p)
	if errs := contract.Decode(body, contract.Create, fields...); errs != nil {
		return zero, &ValidationError{Fields: errs}
	}

	row := r.def.Row(r.def.Build(&p))
	if t.Serial {
		delete(row, t.Key[0])
	}
	var created R
	err := r.inTx(ctx, func(tx repository.Tx) error {
		if err := checkIntegrity(ctx, tx, t, row, contract.Present(fields...), nil); err != nil {
			return err
		}
		saved, err := tx.Insert(ctx, t, row)
		if err != nil {
			return storeFailure(t, "insert", err)
		}
		created = r.def.Record(saved)
		return nil
	})
	if err != nil {
		return zero, err
	}
	r.notify(ctx, queue.ActionCreated, created)
	return created, nil
}

// Update applies the fields present in body to the record with the given
// key.  Absent fields keep their stored values.
func (r *Resource[R, P]) Update(ctx context.Context, key repository.Row, body []byte) (R, error) {
	var zero R
	var p P
	t := r.def.Table
	fields := r.def.Fields(&p)
	if errs := contract.Decode(body, contract.Update, fields...); errs != nil {
		return zero, &ValidationError{Fields: errs}
	}
	present := contract.Present(fields...)

	var updated R
	err := r.inTx(ctx, func(tx repository.Tx) error {
		cur, err := tx.Get(ctx, t, key)
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Entity: t.Label}
		}
		if err != nil {
			return &StoreError{Op: "get " + t.Name, Err: err}
		}
		rec := r.def.Record(cur)
		r.def.Apply(&rec, &p)
		row := r.def.Row(rec)
		self := t.KeyOf(cur)
		if err := checkIntegrity(ctx, tx, t, row, present, self); err != nil {
			return err
		}
		if len(present) > 0 {
			set := make(repository.Row, len(present))
			for _, c := range present {
				set[c] = row[c]
			}
			if err := tx.Update(ctx, t, self, set); err != nil {
				return storeFailure(t, "update", err)
			}
		}
		updated = rec
		return nil
	})
	if err != nil {
		return zero, err
	}
	r.notify(ctx, queue.ActionUpdated, updated)
	return updated, nil
}

// Delete removes the record with the given key together with everything
// that depends on it.
func (r *Resource[R, P]) Delete(ctx context.Context, key repository.Row) error {
	t := r.def.Table
	var removed R
	err := r.inTx(ctx, func(tx repository.Tx) error {
		cur, err := tx.Get(ctx, t, key)
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Entity: t.Label}
		}
		if err != nil {
			return &StoreError{Op: "get " + t.Name, Err: err}
		}
		if err := tx.Delete(ctx, t, t.KeyOf(cur)); err != nil {
			return storeFailure(t, "delete", err)
		}
		removed = r.def.Record(cur)
		return nil
	})
	if err != nil {
		return err
	}
	r.notify(ctx, queue.ActionDeleted, removed)
	return nil
}

// inTx runs fn in a transaction, committing only when fn succeeds.
func (r *Resource[R, P]) inTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	t := r.def.Table
	tx, err := r.store.Begin(ctx)
	if err != nil {
		return &StoreError{Op: "begin " + t.Name, Err: err}
	}
	// Rollback after Commit is a no-op; this also releases the
	// transaction when fn panics.
	defer func() { _ = tx.Rollback() }()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return storeFailure(t, "commit", err)
	}
	return nil
}

func (r *Resource[R, P]) notify(ctx context.Context, action string, rec R) {
	if r.notifier == nil {
		return
	}
	t := r.def.Table
	key := t.KeyOf(r.def.Row(rec))
	if err := r.notifier.Notify(ctx, queue.NewRecordChangedEvent(t.Name, action, key, rec)); err != nil {
		log.Printf("notify %s %s: %v", t.Name, action, err)
	}
}
