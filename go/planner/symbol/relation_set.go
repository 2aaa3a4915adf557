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

import (
	"fmt"
	"math/bits"
	"strings"
)

// RelationID identifies an analyzed relation within a statement.
type RelationID int

// RelationSet is an immutable set of relation ids.
// It is stored as a string of bytes so it can be compared with == and used as a map key.
// Trailing zero bytes are always trimmed, so equal sets have equal representations.
type RelationSet string

// EmptyRelationSet contains no relations.
const EmptyRelationSet RelationSet = ""

// SingleRelation returns the set that only contains id.
func SingleRelation(id RelationID) RelationSet {
	if id < 0 {
		panic(fmt.Sprintf("BUG: negative relation id %d", id))
	}
	buf := make([]byte, int(id)/8+1)
	buf[int(id)/8] = 1 << (uint(id) % 8)
	return RelationSet(buf)
}

// NewRelationSet returns the set containing all the given ids.
func NewRelationSet(ids ...RelationID) RelationSet {
	var res RelationSet
	for _, id := range ids {
		res = res.Merge(SingleRelation(id))
	}
	return res
}

func trimmed(buf []byte) RelationSet {
	n := len(buf)
	for n > 0 && buf[n-1] == 0 {
		n--
	}
	return RelationSet(buf[:n])
}

// Merge returns the union of both sets.
func (s RelationSet) Merge(other RelationSet) RelationSet {
	long, short := s, other
	if len(short) > len(long) {
		long, short = short, long
	}
	buf := []byte(long)
	for i := 0; i < len(short); i++ {
		buf[i] |= short[i]
	}
	return RelationSet(buf)
}

// Remove returns the ids of s that are not in other.
func (s RelationSet) Remove(other RelationSet) RelationSet {
	buf := []byte(s)
	for i := 0; i < len(buf) && i < len(other); i++ {
		buf[i] &^= other[i]
	}
	return trimmed(buf)
}

// IsSolvedBy returns true if every id of s is contained in other.
func (s RelationSet) IsSolvedBy(other RelationSet) bool {
	if len(s) > len(other) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i]&^other[i] != 0 {
			return false
		}
	}
	return true
}

// IsOverlapping returns true if at least one id is in both sets.
func (s RelationSet) IsOverlapping(other RelationSet) bool {
	for i := 0; i < len(s) && i < len(other); i++ {
		if s[i]&other[i] != 0 {
			return true
		}
	}
	return false
}

// Contains returns true if id is in the set.
func (s RelationSet) Contains(id RelationID) bool {
	idx := int(id) / 8
	if id < 0 || idx >= len(s) {
		return false
	}
	return s[idx]&(1<<(uint(id)%8)) != 0
}

func (s RelationSet) IsEmpty() bool {
	return len(s) == 0
}

// Len returns the number of ids in the set.
func (s RelationSet) Len() int {
	n := 0
	for i := 0; i < len(s); i++ {
		n += bits.OnesCount8(s[i])
	}
	return n
}

// ForEach calls fn for every id in ascending order.
func (s RelationSet) ForEach(fn func(id RelationID)) {
	for i := 0; i < len(s); i++ {
		b := s[i]
		for b != 0 {
			bit := bits.TrailingZeros8(b)
			fn(RelationID(i*8 + bit))
			b &^= 1 << bit
		}
	}
}

// IDs returns the ids in ascending order.
func (s RelationSet) IDs() []RelationID {
	ids := make([]RelationID, 0, s.Len())
	s.ForEach(func(id RelationID) {
		ids = append(ids, id)
	})
	return ids
}

func (s RelationSet) String() string {
	var b strings.Builder
	b.WriteString("RelationSet{")
	first := true
	s.ForEach(func(id RelationID) {
		if !first {
			b.WriteString(",")
		}
		first = false
		fmt.Fprintf(&b, "%d", id)
	})
	b.WriteString("}")
	return b.String()
}
