package repository

import "context"

// Reader looks records up by key or by exact column values.
type Reader interface {
	// Get returns the row with the given primary key or ErrNotFound.
	Get(ctx context.Context, t *Table, key Row) (Row, error)
	// List returns the rows whose columns equal every value in filter,
	// ordered by primary key.  A nil filter lists the whole table.
	List(ctx context.Context, t *Table, filter Row) ([]Row, error)
}

// Tx is a unit of work.  Nothing written through it is visible to other
// readers until Commit succeeds; Rollback after Commit is a no-op.
type Tx interface {
	Reader
	// Insert stores row and returns it as persisted, including a generated
	// key for serial tables.
	Insert(ctx context.Context, t *Table, row Row) (Row, error)
	// Update sets the columns in set on the row identified by key.
	Update(ctx context.Context, t *Table, key, set Row) error
	// Delete removes the row identified by key and, through the foreign
	// keys, every row depending on it.
	Delete(ctx context.Context, t *Table, key Row) error
	Commit() error
	Rollback() error
}

// Store is the persistent record store.  Reads outside a transaction see
// the latest committed state.
type Store interface {
	Reader
	Begin(ctx context.Context) (Tx, error)
	Ping(ctx context.Context) error
}
