package pool

import (
	"sync"

	"github.com/arloliu/recfmt/errs"
)

// Recyclable is implemented by wrappers managed through an ObjectPool.
type Recyclable interface {
	// Destroyed reports whether the wrapper has been destroyed and may be
	// recycled.
	Destroyed() bool
}

// ObjectPool is a LIFO recycler for long-lived wrappers, shared by all users
// of one engine.
//
// Unlike sync.Pool it never drops entries and it keeps a registration count,
// so the engine can detect leaked wrappers on shutdown. All operations are
// serialized by an internal mutex; shard per engine when contention matters.
type ObjectPool[T Recyclable] struct {
	mu         sync.Mutex
	free       []T
	registered int
}

// NewObjectPool creates an empty object pool.
func NewObjectPool[T Recyclable]() *ObjectPool[T] {
	return &ObjectPool[T]{}
}

// Pop detaches and returns the most recently recycled wrapper.
// The second result is false when the pool is empty.
func (p *ObjectPool[T]) Pop() (T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.free) == 0 {
		var zero T
		return zero, false
	}

	last := len(p.free) - 1
	obj := p.free[last]
	var zero T
	p.free[last] = zero
	p.free = p.free[:last]

	return obj, true
}

// Add registers a freshly allocated wrapper with the pool. Registration is
// bookkeeping only; the wrapper enters the free list through GC.
func (p *ObjectPool[T]) Add() {
	p.mu.Lock()
	p.registered++
	p.mu.Unlock()
}

// GC returns a destroyed wrapper to the free list.
func (p *ObjectPool[T]) GC(obj T) error {
	if !obj.Destroyed() {
		return errs.ErrNotDestroyed
	}

	p.mu.Lock()
	p.free = append(p.free, obj)
	p.mu.Unlock()

	return nil
}

// Live returns the number of registered wrappers not currently in the free
// list. A non-zero value at engine shutdown indicates leaked wrappers.
func (p *ObjectPool[T]) Live() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.registered - len(p.free)
}

// Drain empties the pool and returns the freed wrapper count. After Drain the
// pool is empty but remains usable; engines call it once, on shutdown.
func (p *ObjectPool[T]) Drain() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(p.free)
	p.free = nil
	p.registered -= n

	return n
}
