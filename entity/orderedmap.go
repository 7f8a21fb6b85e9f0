package entity

import "github.com/rirc-go/rirc/casefold"

// OrderedMap is a sorted association of nicknames or channel names to
// values of type V, ordered and looked up under a single injected
// casefold.CaseMapping comparator. It replaces the AVL tree the original
// client balances per user list and the splay tree it balances per channel
// list: a Go slice kept sorted by binary-search insertion serves both
// lookup patterns without the original's per-node rebalancing.
type OrderedMap[V any] struct {
	cmp     casefold.CaseMapping
	entries []mapEntry[V]
}

type mapEntry[V any] struct {
	key   string
	value V
}

// NewOrderedMap returns an empty OrderedMap comparing keys under cmp.
func NewOrderedMap[V any](cmp casefold.CaseMapping) *OrderedMap[V] {
	return &OrderedMap[V]{cmp: cmp}
}

// search returns the index of key if present, and the insertion index
// otherwise.
func (m *OrderedMap[V]) search(key string) (idx int, found bool) {
	lo, hi := 0, len(m.entries)
	for lo < hi {
		mid := (lo + hi) / 2
		c := m.cmp.Compare(m.entries[mid].key, key)
		switch {
		case c == 0:
			return mid, true
		case c < 0:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return lo, false
}

// Get returns the value stored under key, reporting whether it was found.
func (m *OrderedMap[V]) Get(key string) (V, bool) {
	var zero V
	idx, found := m.search(key)
	if !found {
		return zero, false
	}
	return m.entries[idx].value, true
}

// Add inserts key with value, reporting false without modifying m if key
// is already present (mirroring user_list_add's USER_ERR_DUPLICATE check).
func (m *OrderedMap[V]) Add(key string, value V) bool {
	idx, found := m.search(key)
	if found {
		return false
	}
	m.entries = append(m.entries, mapEntry[V]{})
	copy(m.entries[idx+1:], m.entries[idx:])
	m.entries[idx] = mapEntry[V]{key: key, value: value}
	return true
}

// Set inserts or overwrites the value stored under key.
func (m *OrderedMap[V]) Set(key string, value V) {
	idx, found := m.search(key)
	if found {
		m.entries[idx].value = value
		return
	}
	m.entries = append(m.entries, mapEntry[V]{})
	copy(m.entries[idx+1:], m.entries[idx:])
	m.entries[idx] = mapEntry[V]{key: key, value: value}
}

// Delete removes key, reporting whether it was present.
func (m *OrderedMap[V]) Delete(key string) bool {
	idx, found := m.search(key)
	if !found {
		return false
	}
	m.entries = append(m.entries[:idx], m.entries[idx+1:]...)
	return true
}

// Rename moves the value stored under oldKey to newKey, preserving it.
// It reports false, leaving m unchanged, if oldKey is absent or newKey is
// already taken (mirroring user_list_rpl's duplicate/not-found checks).
func (m *OrderedMap[V]) Rename(oldKey, newKey string) bool {
	value, ok := m.Get(oldKey)
	if !ok {
		return false
	}
	if _, taken := m.Get(newKey); taken {
		return false
	}
	m.Delete(oldKey)
	m.Set(newKey, value)
	return true
}

// Len reports the number of entries in m.
func (m *OrderedMap[V]) Len() int {
	return len(m.entries)
}

// Range calls fn for every entry in ascending key order. It stops early if
// fn returns false.
func (m *OrderedMap[V]) Range(fn func(key string, value V) bool) {
	for _, e := range m.entries {
		if !fn(e.key, e.value) {
			return
		}
	}
}
