// Package ordered provides collections that remember insertion order.
package ordered

type entry[K comparable, V any] struct {
	key K
	val V
}

// Map associates keys with values and iterates in the order in which
// keys were first stored. Deterministic iteration keeps output that
// lists map contents (for example diagnostics enumerating the symbols
// of a scope) stable from run to run.
type Map[K comparable, V any] struct {
	index   map[K]int
	entries []entry[K, V]
}

// NewMap returns a new ordered map.
func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{index: make(map[K]int)}
}

// Store a key,value pair. Storing an existing key replaces its value
// but keeps its original position.
func (m *Map[K, V]) Store(k K, v V) {
	if i, in := m.index[k]; in {
		m.entries[i].val = v
		return
	}
	m.index[k] = len(m.entries)
	m.entries = append(m.entries, entry[K, V]{key: k, val: v})
}

// Load returns a value given a key.
func (m *Map[K, V]) Load(k K) (V, bool) {
	i, ok := m.index[k]
	if !ok {
		var zero V
		return zero, false
	}
	return m.entries[i].val, true
}

// Iter returns an iterator to range over the elements of the map.
func (m *Map[K, V]) Iter() func(func(K, V) bool) {
	return func(yield func(K, V) bool) {
		for _, e := range m.entries {
			if !yield(e.key, e.val) {
				break
			}
		}
	}
}

// Keys returns an iterator to range over the keys of the map.
func (m *Map[K, V]) Keys() func(func(K) bool) {
	return func(yield func(K) bool) {
		for _, e := range m.entries {
			if !yield(e.key) {
				break
			}
		}
	}
}

// Values returns an iterator to range over the values of the map.
func (m *Map[K, V]) Values() func(func(V) bool) {
	return func(yield func(V) bool) {
		for _, e := range m.entries {
			if !yield(e.val) {
				break
			}
		}
	}
}

// Clone creates a new map with the same keys and values.
// This is a shallow clone.
func (m *Map[K, V]) Clone() *Map[K, V] {
	r := NewMap[K, V]()
	for k, v := range m.Iter() {
		r.Store(k, v)
	}
	return r
}

// Size returns the number of elements in the map.
func (m *Map[K, V]) Size() int {
	return len(m.entries)
}
