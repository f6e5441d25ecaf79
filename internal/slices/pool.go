package slices

import "sync"

// SlicePool recycles slices of T so that hot read loops do not allocate a
// fresh buffer for every message.
type SlicePool[T any] struct {
	pool sync.Pool
}

// NewSlicePool creates a pool whose new slices have the given capacity.
func NewSlicePool[T any](capacity int) *SlicePool[T] {
	return &SlicePool[T]{
		pool: sync.Pool{
			New: func() any {
				s := make([]T, 0, capacity)
				return &s
			},
		},
	}
}

// Get returns a slice of the given length. Its contents are unspecified.
func (p *SlicePool[T]) Get(length int) *[]T {
	s := p.pool.Get().(*[]T)
	if cap(*s) < length {
		*s = make([]T, length)
	} else {
		*s = (*s)[:length]
	}
	return s
}

// Put returns s to the pool. The caller must not use s afterwards.
func (p *SlicePool[T]) Put(s *[]T) {
	*s = (*s)[:0]
	p.pool.Put(s)
}
