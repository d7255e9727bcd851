// Package pool provides typed wrappers around sync.Pool.
package pool

import "sync"

// Pool is a typed sync.Pool.
type Pool[T any] struct {
	pool  sync.Pool
	reset func(T)
}

// New creates a pool that allocates with newFn. reset, when not nil, is
// called on every value handed back through Put.
func New[T any](newFn func() T, reset func(T)) *Pool[T] {
	return &Pool[T]{
		pool: sync.Pool{
			New: func() any { return newFn() },
		},
		reset: reset,
	}
}

// Get returns a pooled or newly allocated value.
func (p *Pool[T]) Get() T {
	v, _ := p.pool.Get().(T)
	return v
}

// Put hands v back to the pool.
func (p *Pool[T]) Put(v T) {
	if p.reset != nil {
		p.reset(v)
	}
	p.pool.Put(v)
}
