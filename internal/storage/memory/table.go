package memory

import (
	"slices"
	"sync"
	"sync/atomic"
)

// table is an id-keyed collection for one entity kind. Ids come from an
// atomic counter so allocation never races, and every read hands out a
// clone so callers cannot mutate stored state.
type table[T any] struct {
	mu    sync.RWMutex
	next  atomic.Int64
	rows  map[int64]T
	idOf  func(T) int64
	clone func(T) T
}

func newTable[T any](idOf func(T) int64, clone func(T) T) *table[T] {
	return &table[T]{
		rows:  make(map[int64]T),
		idOf:  idOf,
		clone: clone,
	}
}

// insert allocates the next id and stores build(id). check runs against
// every existing row under the write lock; a non-nil result aborts the insert.
func (t *table[T]) insert(build func(id int64) T, check func(existing, candidate T) error) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	candidate := build(0)
	if check != nil {
		for _, row := range t.rows {
			if err := check(row, candidate); err != nil {
				var zero T
				return zero, err
			}
		}
	}

	row := build(t.next.Add(1))
	t.rows[t.idOf(row)] = row
	return t.clone(row), nil
}

func (t *table[T]) get(id int64) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	row, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, false
	}
	return t.clone(row), true
}

// find returns the first row, by id, matching pred.
func (t *table[T]) find(pred func(T) bool) (T, bool) {
	rows := t.list(pred)
	if len(rows) == 0 {
		var zero T
		return zero, false
	}
	return rows[0], true
}

// update applies mutate to a copy of the row and stores it. check runs
// against every other row with the mutated copy before it is committed.
func (t *table[T]) update(id int64, mutate func(*T), check func(other, updated T) error) (T, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var zero T
	row, ok := t.rows[id]
	if !ok {
		return zero, false, nil
	}

	updated := t.clone(row)
	mutate(&updated)
	if check != nil {
		for otherID, other := range t.rows {
			if otherID == id {
				continue
			}
			if err := check(other, updated); err != nil {
				return zero, true, err
			}
		}
	}

	t.rows[id] = updated
	return t.clone(updated), true, nil
}

func (t *table[T]) delete(id int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	return true
}

// list returns clones of the rows matching pred in ascending id order.
func (t *table[T]) list(pred func(T) bool) []T {
	t.mu.RLock()
	out := make([]T, 0, len(t.rows))
	for _, row := range t.rows {
		if pred == nil || pred(row) {
			out = append(out, t.clone(row))
		}
	}
	t.mu.RUnlock()

	slices.SortFunc(out, func(a, b T) int {
		return int(t.idOf(a) - t.idOf(b))
	})
	return out
}
