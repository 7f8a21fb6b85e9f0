// Package entity holds the connected-session data model: servers, their
// channels and queries, and the users within them. It replaces the original
// client's intrusive circular linked lists and AVL trees with generation-
// checked handles over flat stores, and casefold-aware ordered maps keyed by
// a server's advertised CASEMAPPING.
package entity

import "github.com/rs/xid"

// Handle references a value held in a Store. idx is the value's slot; gen
// must match the slot's current generation for the handle to resolve,
// which is what lets a Store recognize and reject a handle to a value that
// has since been freed and its slot reused.
type Handle[T any] struct {
	idx uint32
	gen xid.ID
}

// Zero reports whether h is the zero Handle, which never resolves to a
// value in any Store.
func (h Handle[T]) Zero() bool {
	return h.idx == 0 && h.gen.IsZero()
}

type slot[T any] struct {
	value T
	gen   xid.ID
	used  bool
}

// Store holds a growable collection of values of type T behind generation-
// checked Handles. The zero value is ready to use.
type Store[T any] struct {
	slots []slot[T]
	free  []uint32
}

// Add inserts value and returns a Handle to it, reusing a freed slot when
// one is available.
func (s *Store[T]) Add(value T) Handle[T] {
	gen := xid.New()

	if n := len(s.free); n > 0 {
		idx := s.free[n-1]
		s.free = s.free[:n-1]
		s.slots[idx] = slot[T]{value: value, gen: gen, used: true}
		return Handle[T]{idx: idx, gen: gen}
	}

	idx := uint32(len(s.slots))
	s.slots = append(s.slots, slot[T]{value: value, gen: gen, used: true})
	return Handle[T]{idx: idx, gen: gen}
}

// Get resolves h to its value, reporting false if h is stale or invalid.
func (s *Store[T]) Get(h Handle[T]) (T, bool) {
	var zero T
	if int(h.idx) >= len(s.slots) {
		return zero, false
	}
	sl := &s.slots[h.idx]
	if !sl.used || sl.gen != h.gen {
		return zero, false
	}
	return sl.value, true
}

// Set overwrites the value at h, reporting false if h is stale or invalid.
func (s *Store[T]) Set(h Handle[T], value T) bool {
	if int(h.idx) >= len(s.slots) {
		return false
	}
	sl := &s.slots[h.idx]
	if !sl.used || sl.gen != h.gen {
		return false
	}
	sl.value = value
	return true
}

// Delete frees h's slot for reuse, reporting false if h was already stale
// or invalid.
func (s *Store[T]) Delete(h Handle[T]) bool {
	if int(h.idx) >= len(s.slots) {
		return false
	}
	sl := &s.slots[h.idx]
	if !sl.used || sl.gen != h.gen {
		return false
	}
	var zero T
	sl.value = zero
	sl.used = false
	s.free = append(s.free, h.idx)
	return true
}

// Len reports the number of live (non-deleted) values in the Store.
func (s *Store[T]) Len() int {
	return len(s.slots) - len(s.free)
}

// Range calls fn for every live value in the Store, in slot order. It stops
// early if fn returns false.
func (s *Store[T]) Range(fn func(Handle[T], T) bool) {
	for i := range s.slots {
		sl := &s.slots[i]
		if !sl.used {
			continue
		}
		if !fn(Handle[T]{idx: uint32(i), gen: sl.gen}, sl.value) {
			return
		}
	}
}
