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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRelation struct {
	id   RelationID
	name string
}

func (f fakeRelation) ID() RelationID { return f.id }
func (f fakeRelation) Name() string   { return f.name }

var (
	x = &Reference{Relation: 1, Table: "doc.t1", Column: "x", Type: Integer}
	y = &Reference{Relation: 1, Table: "doc.t1", Column: "y", Type: Integer}
)

func TestEquals(t *testing.T) {
	tcases := []struct {
		name  string
		a, b  Symbol
		equal bool
	}{{
		name:  "same reference, different pointer",
		a:     x,
		b:     &Reference{Relation: 1, Table: "doc.t1", Column: "x", Type: Integer},
		equal: true,
	}, {
		name: "different column",
		a:    x,
		b:    y,
	}, {
		name: "same column name in another relation",
		a:    x,
		b:    &Reference{Relation: 2, Table: "doc.t2", Column: "x", Type: Integer},
	}, {
		name:  "functions compare their arguments",
		a:     NewFunction("add", Integer, x, y),
		b:     NewFunction("add", Integer, x, y),
		equal: true,
	}, {
		name: "argument order matters",
		a:    NewFunction("add", Integer, x, y),
		b:    NewFunction("add", Integer, y, x),
	}, {
		name:  "ints are widened",
		a:     NewLiteral(1),
		b:     NewLiteral(int64(1)),
		equal: true,
	}, {
		name: "literal type matters",
		a:    NewLiteral(int32(1)),
		b:    NewLiteral(int64(1)),
	}, {
		name:  "fields by relation and index",
		a:     &Field{Relation: 3, Index: 0, Name: "xx"},
		b:     &Field{Relation: 3, Index: 0, Name: "renamed"},
		equal: true,
	}, {
		name:  "select symbols by relation",
		a:     &SelectSymbol{Relation: fakeRelation{id: 4, name: "sq"}},
		b:     &SelectSymbol{Relation: fakeRelation{id: 4, name: "other"}},
		equal: true,
	}, {
		name: "literal versus reference",
		a:    NewLiteral("x"),
		b:    x,
	}}
	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.equal, Equals(tc.a, tc.b))
			assert.Equal(t, tc.equal, Equals(tc.b, tc.a))
			if tc.equal {
				assert.Equal(t, Hash(tc.a), Hash(tc.b))
			}
		})
	}
}

func TestFuncArg(t *testing.T) {
	assert.True(t, NewLiteral(1).CanBeCasted())
	assert.False(t, x.CanBeCasted())
	assert.False(t, NewFunction("add", Long, x, y).CanBeCasted())
	assert.Equal(t, Long, NewFunction("add", Long, x, y).ValueType())
	assert.Equal(t, String, NewLiteral("a").ValueType())
}

func TestString(t *testing.T) {
	assert.Equal(t, "add(doc.t1.x, 'it''s')", NewFunction("add", String, x, NewLiteral("it's")).String())
	assert.Equal(t, "tt.xx", (&Field{RelationName: "tt", Name: "xx"}).String())
	assert.Equal(t, "INPUT(2)", (&InputColumn{Index: 2}).String())
	assert.Equal(t, "$__sq7", (&ParameterSymbol{Key: "__sq7"}).String())
	assert.Equal(t, "NULL", NewLiteral(nil).String())
}

func TestBindKey(t *testing.T) {
	sel := &SelectSymbol{Relation: fakeRelation{id: 12, name: "sq"}}
	assert.Equal(t, "__sq12", sel.BindKey())
}

func TestRewrite(t *testing.T) {
	add := NewFunction("add", Integer, x, y)
	gt := NewFunction("op_>", Boolean, add, NewLiteral(10))

	unchanged := Rewrite(gt, func(Symbol) (Symbol, bool) { return nil, false })
	assert.Same(t, gt, unchanged)

	replaced := Rewrite(gt, func(s Symbol) (Symbol, bool) {
		if Equals(s, y) {
			return x, true
		}
		return nil, false
	})
	assert.Equal(t, "op_>(add(doc.t1.x, doc.t1.x), 10)", replaced.String())
	// the untouched literal is shared
	assert.Same(t, gt.Args[1], replaced.(*Function).Args[1])
}

func TestDependencies(t *testing.T) {
	f := &Field{Relation: 5, Index: 0}
	sel := &SelectSymbol{Relation: fakeRelation{id: 9}}
	deps := Dependencies(NewFunction("add", Integer, x, f), sel)
	assert.Equal(t, NewRelationSet(1, 5), deps)
}

func TestAggregates(t *testing.T) {
	count := NewAggregate("count", Long, x)
	sum := NewAggregate("sum", Long, y)
	exprs := []Symbol{NewFunction("add", Long, count, sum), count, x}
	require.True(t, ContainsAggregate(exprs...))
	assert.False(t, ContainsAggregate(x, y))
	aggs := Aggregates(exprs...)
	require.Len(t, aggs, 2)
	assert.True(t, Equals(count, aggs[0]))
	assert.True(t, Equals(sum, aggs[1]))
}

func TestSelectSymbolsAreDeduplicated(t *testing.T) {
	a := &SelectSymbol{Relation: fakeRelation{id: 3}}
	b := &SelectSymbol{Relation: fakeRelation{id: 4}}
	found := SelectSymbols(NewFunction("op_=", Boolean, x, b), a, b)
	require.Len(t, found, 2)
	assert.Same(t, b, found[0])
	assert.Same(t, a, found[1])
}

func TestAnd(t *testing.T) {
	assert.Nil(t, And(nil, nil))
	assert.Same(t, x, And(nil, x))
	assert.Equal(t, "and(doc.t1.x, doc.t1.y)", And(x, y).String())
}
