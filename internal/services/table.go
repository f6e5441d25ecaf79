package services

import (
	"maps"
	"slices"
	"sync"
)

// table is an in-memory collection of rows keyed by auto-incremented ids.
// Rows are returned by value so callers never share state with the table.
type table[T any] struct {
	mu     sync.RWMutex
	rows   map[int]T
	nextID int
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[int]T), nextID: 1}
}

// insert stores the row built by create. create runs under the table lock
// and may reject the row by returning an error; the id is then not used.
func (t *table[T]) insert(create func(id int, rows []T) (T, error)) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	row, err := create(t.nextID, t.sorted())
	if err != nil {
		var zero T
		return zero, err
	}
	t.rows[t.nextID] = row
	t.nextID++
	return row, nil
}

func (t *table[T]) get(id int) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	row, ok := t.rows[id]
	return row, ok
}

// update replaces row id with the result of change, which sees all other
// rows as well.
func (t *table[T]) update(id int, change func(row T, rows []T) (T, error)) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	row, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	row, err := change(row, t.sorted())
	if err != nil {
		var zero T
		return zero, err
	}
	t.rows[id] = row
	return row, nil
}

func (t *table[T]) delete(id int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	return true
}

// list returns rows in insertion order.
func (t *table[T]) list() []T {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.sorted()
}

func (t *table[T]) sorted() []T {
	ids := slices.Sorted(maps.Keys(t.rows))
	rows := make([]T, len(ids))
	for i, id := range ids {
		rows[i] = t.rows[id]
	}
	return rows
}

// Page is one window of a listing.
type Page[T any] struct {
	Items   []T
	Total   int
	Limit   int
	Offset  int
	HasMore bool
}

// Paginate cuts items[offset:offset+limit], clamped to the slice bounds.
func Paginate[T any](items []T, limit, offset int) Page[T] {
	total := len(items)
	start := min(max(offset, 0), total)
	end := min(start+max(limit, 0), total)

	return Page[T]{
		Items:   append(make([]T, 0, end-start), items[start:end]...),
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: offset+limit < total,
	}
}
