package raw

import (
	"fmt"
	"reflect"
	"sort"
)

// Map is a string-keyed mapping that keeps insertion order.
// The zero value is an empty map ready to use.
type Map struct {
	keys   []string
	values map[string]any
}

// NewMap creates an empty Map.
func NewMap() *Map {
	return &Map{values: make(map[string]any)}
}

// Set stores value under key. Existing keys keep their position.
func (m *Map) Set(key string, value any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}

	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}

	m.values[key] = value
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}

	v, ok := m.values[key]
	return v, ok
}

// Delete removes key, keeping the order of the remaining keys.
func (m *Map) Delete(key string) {
	if _, exists := m.values[key]; !exists {
		return
	}

	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}

	return append([]string(nil), m.keys...)
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}

	return len(m.keys)
}

// Entry is a single key/value pair of a map-like raw value. Key is not
// necessarily a string when the value came from an arbitrary Go map.
type Entry struct {
	Key   any
	Value any
}

// Entries returns the entries of a map-like value: a *Map in insertion order, or
// any Go map with its keys sorted by their textual form.
func Entries(v any) ([]Entry, bool) {
	switch m := v.(type) {
	case nil:
		return nil, false
	case *Map:
		if m == nil {
			return nil, false
		}
		entries := make([]Entry, 0, m.Len())
		for _, k := range m.keys {
			entries = append(entries, Entry{Key: k, Value: m.values[k]})
		}
		return entries, true
	case Map:
		return Entries(&m)
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return nil, false
	}

	entries := make([]Entry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		entries = append(entries, Entry{Key: iter.Key().Interface(), Value: iter.Value().Interface()})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return fmt.Sprint(entries[i].Key) < fmt.Sprint(entries[j].Key)
	})

	return entries, true
}

// Elements returns the elements of a sequence-like value. Strings are not sequences.
func Elements(v any) ([]any, bool) {
	switch s := v.(type) {
	case nil:
		return nil, false
	case []any:
		return s, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}

	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}

	return out, true
}
