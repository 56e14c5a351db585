// Package optimistic implements the snapshot, apply, restore protocol used
// for UI state that is changed locally before the backend confirms it.
package optimistic

import "sync"

// Value holds a locally authoritative copy of a remote field.
type Value[T any] struct {
	mu  sync.Mutex
	cur T
	seq uint64
}

// Mutation records one optimistic change: the value before it, the value it
// applied, and its position in the change sequence.
type Mutation[T any] struct {
	Prev T
	Next T
	seq  uint64
}

// New returns a Value initialised to v.
func New[T any](v T) *Value[T] {
	return &Value[T]{cur: v}
}

// Get returns the current local value.
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cur
}

// Set overwrites the value without creating a mutation. Outstanding
// mutations become superseded.
func (v *Value[T]) Set(x T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cur = x
	v.seq++
}

// Apply snapshots the current value and replaces it with next.
func (v *Value[T]) Apply(next T) Mutation[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	m := Mutation[T]{Prev: v.cur, Next: next}
	v.cur = next
	v.seq++
	m.seq = v.seq
	return m
}

// Latest reports whether m is the most recent change to v.
func (v *Value[T]) Latest(m Mutation[T]) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return m.seq == v.seq
}

// Rollback restores m.Prev if m is still the most recent change. It returns
// false and leaves the value alone when a later change has been applied.
func (v *Value[T]) Rollback(m Mutation[T]) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if m.seq != v.seq {
		return false
	}
	v.cur = m.Prev
	v.seq++
	return true
}
