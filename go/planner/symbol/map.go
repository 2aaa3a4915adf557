/*
Copyright 2026 The Vitess Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package symbol

import "strings"

type entry struct {
	key, value Symbol
}

// Map is a symbol to symbol mapping that compares keys structurally and
// remembers insertion order. The zero value and a nil *Map are empty maps;
// only Put and PutAll need a non-nil receiver.
type Map struct {
	entries []entry
	index   map[uint64][]int
}

// NewMap returns an empty map with room for size entries.
func NewMap(size int) *Map {
	return &Map{
		entries: make([]entry, 0, size),
		index:   make(map[uint64][]int, size),
	}
}

func (m *Map) find(key Symbol) (int, bool) {
	if m == nil {
		return 0, false
	}
	for _, idx := range m.index[Hash(key)] {
		if Equals(m.entries[idx].key, key) {
			return idx, true
		}
	}
	return 0, false
}

// Get returns the value stored under key. Unknown keys report false.
func (m *Map) Get(key Symbol) (Symbol, bool) {
	idx, ok := m.find(key)
	if !ok {
		return nil, false
	}
	return m.entries[idx].value, true
}

func (m *Map) Contains(key Symbol) bool {
	_, ok := m.find(key)
	return ok
}

// Put stores value under key, replacing an earlier value in place.
func (m *Map) Put(key, value Symbol) {
	if idx, ok := m.find(key); ok {
		m.entries[idx].value = value
		return
	}
	if m.index == nil {
		m.index = map[uint64][]int{}
	}
	h := Hash(key)
	m.index[h] = append(m.index[h], len(m.entries))
	m.entries = append(m.entries, entry{key: key, value: value})
}

// PutAll copies all entries of other into m. Entries of other win on collision.
func (m *Map) PutAll(other *Map) {
	other.ForEach(func(k, v Symbol) {
		m.Put(k, v)
	})
}

func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// ForEach visits the entries in insertion order.
func (m *Map) ForEach(fn func(key, value Symbol)) {
	if m == nil {
		return
	}
	for _, e := range m.entries {
		fn(e.key, e.value)
	}
}

func (m *Map) Keys() []Symbol {
	keys := make([]Symbol, 0, m.Len())
	m.ForEach(func(k, _ Symbol) {
		keys = append(keys, k)
	})
	return keys
}

// Clone returns a copy that can be modified without affecting m.
func (m *Map) Clone() *Map {
	res := NewMap(m.Len())
	res.PutAll(m)
	return res
}

// Equal returns true if both maps hold the same entries, regardless of order.
func (m *Map) Equal(other *Map) bool {
	if m.Len() != other.Len() {
		return false
	}
	for _, e := range m.entriesOrNil() {
		v, ok := other.Get(e.key)
		if !ok || !Equals(v, e.value) {
			return false
		}
	}
	return true
}

func (m *Map) entriesOrNil() []entry {
	if m == nil {
		return nil
	}
	return m.entries
}

func (m *Map) String() string {
	var b strings.Builder
	b.WriteString("{")
	m.ForEach(func(k, v Symbol) {
		if b.Len() > 1 {
			b.WriteString(", ")
		}
		b.WriteString(k.String())
		b.WriteString(": ")
		b.WriteString(v.String())
	})
	b.WriteString("}")
	return b.String()
}

// Set is an insertion-ordered set of symbols.
type Set struct {
	m Map
}

// NewSet returns a set holding the distinct symbols in their first-seen order.
func NewSet(symbols ...Symbol) *Set {
	s := &Set{}
	for _, sym := range symbols {
		s.Add(sym)
	}
	return s
}

// Add adds sym and returns true if it was not in the set yet.
func (s *Set) Add(sym Symbol) bool {
	if s.m.Contains(sym) {
		return false
	}
	s.m.Put(sym, sym)
	return true
}

func (s *Set) Contains(sym Symbol) bool {
	return s.m.Contains(sym)
}

func (s *Set) Len() int {
	return s.m.Len()
}

// Slice returns the members in insertion order.
func (s *Set) Slice() []Symbol {
	return s.m.Keys()
}
