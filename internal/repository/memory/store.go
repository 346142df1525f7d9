// Package memory is an in-process implementation of repository.Store.  It
// enforces the same keys, unique constraints, foreign keys and cascades as
// the SQL schema, which makes it suitable for tests and for running the
// server without a database (DB_DRIVER=memory).
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/iliyamo/event-records/internal/repository"
)

type state struct {
	rows map[string][]repository.Row
	next map[string]int64
}

func (s state) clone() state {
	out := state{
		rows: make(map[string][]repository.Row, len(s.rows)),
		next: make(map[string]int64, len(s.next)),
	}
	for name, rows := range s.rows {
		cp := make([]repository.Row, len(rows))
		for i, r := range rows {
			cp[i] = r.Clone()
		}
		out.rows[name] = cp
	}
	for name, n := range s.next {
		out.next[name] = n
	}
	return out
}

// Store keeps every table in memory.  Writers are serialised: Begin waits
// until the previous transaction commits or rolls back, and works on a
// private copy that replaces the shared state on Commit.
type Store struct {
	mu     sync.RWMutex
	writer chan struct{}
	tables []*repository.Table
	state  state
}

// New returns an empty store for the given tables (repository.Tables when
// none are given).
func New(tables ...*repository.Table) *Store {
	if len(tables) == 0 {
		tables = repository.Tables
	}
	s := &Store{
		writer: make(chan struct{}, 1),
		tables: tables,
		state:  state{rows: map[string][]repository.Row{}, next: map[string]int64{}},
	}
	for _, t := range tables {
		s.state.next[t.Name] = 1
	}
	return s
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Get(_ context.Context, t *repository.Table, key repository.Row) (repository.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return get(s.state, t, key)
}

func (s *Store) List(_ context.Context, t *repository.Table, filter repository.Row) ([]repository.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return list(s.state, t, filter)
}

// Begin blocks until no other transaction is open or ctx is done.
func (s *Store) Begin(ctx context.Context) (repository.Tx, error) {
	select {
	case s.writer <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	s.mu.RLock()
	snapshot := s.state.clone()
	s.mu.RUnlock()
	return &tx{store: s, state: snapshot}, nil
}

type tx struct {
	store *Store
	state state
	done  bool
}

func (x *tx) Get(_ context.Context, t *repository.Table, key repository.Row) (repository.Row, error) {
	return get(x.state, t, key)
}

func (x *tx) List(_ context.Context, t *repository.Table, filter repository.Row) ([]repository.Row, error) {
	return list(x.state, t, filter)
}

func (x *tx) Insert(_ context.Context, t *repository.Table, row repository.Row) (repository.Row, error) {
	if x.done {
		return nil, errTxDone
	}
	if err := checkColumns(t, row); err != nil {
		return nil, err
	}
	r := row.Clone()
	if t.Serial {
		r[t.Key[0]] = x.state.next[t.Name]
	}
	if err := x.checkRefs(t, r); err != nil {
		return nil, err
	}
	if err := x.checkUnique(t, r, -1); err != nil {
		return nil, err
	}
	if t.Serial {
		x.state.next[t.Name]++
	}
	x.state.rows[t.Name] = append(x.state.rows[t.Name], r)
	return r.Clone(), nil
}

func (x *tx) Update(_ context.Context, t *repository.Table, key, set repository.Row) error {
	if x.done {
		return errTxDone
	}
	if err := checkColumns(t, set); err != nil {
		return err
	}
	i := indexOf(x.state, t, key)
	if i < 0 {
		return repository.ErrNotFound
	}
	r := x.state.rows[t.Name][i].Clone()
	for k, v := range set {
		r[k] = v
	}
	if err := x.checkRefs(t, r); err != nil {
		return err
	}
	if err := x.checkUnique(t, r, i); err != nil {
		return err
	}
	x.state.rows[t.Name][i] = r
	return nil
}

func (x *tx) Delete(_ context.Context, t *repository.Table, key repository.Row) error {
	if x.done {
		return errTxDone
	}
	i := indexOf(x.state, t, key)
	if i < 0 {
		return repository.ErrNotFound
	}
	x.remove(t, i)
	return nil
}

// remove deletes row i of t and everything referencing it.
func (x *tx) remove(t *repository.Table, i int) {
	rows := x.state.rows[t.Name]
	victim := rows[i]
	x.state.rows[t.Name] = append(rows[:i:i], rows[i+1:]...)
	if len(t.Key) != 1 {
		return
	}
	id := victim[t.Key[0]]
	for _, child := range x.store.tables {
		for _, ref := range child.Refs {
			if ref.Table != t {
				continue
			}
			for j := len(x.state.rows[child.Name]) - 1; j >= 0; j-- {
				// A nested cascade may already have shortened the slice.
				if j >= len(x.state.rows[child.Name]) {
					continue
				}
				if repository.Equal(x.state.rows[child.Name][j][ref.Column], id) {
					x.remove(child, j)
				}
			}
		}
	}
}

func (x *tx) Commit() error {
	if x.done {
		return errTxDone
	}
	x.store.mu.Lock()
	x.store.state = x.state
	x.store.mu.Unlock()
	x.finish()
	return nil
}

func (x *tx) Rollback() error {
	if !x.done {
		x.finish()
	}
	return nil
}

func (x *tx) finish() {
	x.done = true
	<-x.store.writer
}

func (x *tx) checkRefs(t *repository.Table, r repository.Row) error {
	for _, ref := range t.Refs {
		if indexOf(x.state, ref.Table, repository.Row{ref.Table.Key[0]: r[ref.Column]}) < 0 {
			return fmt.Errorf("%w: %s.%s", repository.ErrForeignKey, t.Name, ref.Column)
		}
	}
	return nil
}

// checkUnique ignores row index self, the row being updated.
func (x *tx) checkUnique(t *repository.Table, r repository.Row, self int) error {
	keys := append([]repository.Unique{{Name: t.Name + "_pkey", Columns: t.Key}}, t.Uniques...)
	for _, u := range keys {
		filter := make(repository.Row, len(u.Columns))
		for _, c := range u.Columns {
			filter[c] = r[c]
		}
		for i, other := range x.state.rows[t.Name] {
			if i != self && other.Matches(filter) {
				return fmt.Errorf("%w: %s", repository.ErrDuplicate, u.Name)
			}
		}
	}
	return nil
}

var errTxDone = errors.New("memory: transaction has already been committed or rolled back")

func get(s state, t *repository.Table, key repository.Row) (repository.Row, error) {
	i := indexOf(s, t, key)
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	return s.rows[t.Name][i].Clone(), nil
}

func list(s state, t *repository.Table, filter repository.Row) ([]repository.Row, error) {
	if err := checkColumns(t, filter); err != nil {
		return nil, err
	}
	var out []repository.Row
	for _, r := range s.rows[t.Name] {
		if r.Matches(filter) {
			out = append(out, r.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return keyLess(t, out[i], out[j]) })
	return out, nil
}

func indexOf(s state, t *repository.Table, key repository.Row) int {
	filter := t.KeyOf(key)
	for i, r := range s.rows[t.Name] {
		if r.Matches(filter) {
			return i
		}
	}
	return -1
}

func keyLess(t *repository.Table, a, b repository.Row) bool {
	for _, k := range t.Key {
		x, y := a.Int(k), b.Int(k)
		if x != y {
			return x < y
		}
	}
	return false
}

func checkColumns(t *repository.Table, r repository.Row) error {
	for k := range r {
		if _, ok := t.Column(k); !ok {
			return fmt.Errorf("%w: %s.%s", repository.ErrUnknownColumn, t.Name, k)
		}
	}
	return nil
}
