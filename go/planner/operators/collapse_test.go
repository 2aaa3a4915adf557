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

package operators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yiguolei/crate/go/planner/relations"
	"github.com/yiguolei/crate/go/planner/symbol"
)

func TestTryCollapse(t *testing.T) {
	collect := CreateCollect(t1, nil)
	tcases := []struct {
		name string
		tmpl Template
		used []symbol.Symbol
		want string
	}{{
		name: "filter into collect",
		tmpl: CreateFilter(collect, gt(x, lit(1))),
		used: []symbol.Symbol{x},
		want: "Collect doc.t1 [doc.t1.x] where op_>(doc.t1.x, 1)\n",
	}, {
		name: "stacked filters into collect",
		tmpl: CreateFilter(CreateFilter(collect, gt(x, lit(1))), gt(y, lit(2))),
		used: []symbol.Symbol{x},
		want: "Collect doc.t1 [doc.t1.x, doc.t1.y] where and(op_>(doc.t1.x, 1), op_>(doc.t1.y, 2))\n",
	}, {
		name: "always true filter",
		tmpl: CreateOrder(CreateFilter(collect, symbol.True()), relations.NewOrderBy(x)),
		used: []symbol.Symbol{x},
		want: "Order doc.t1.x ASC\n└── Collect doc.t1 [doc.t1.x]\n",
	}, {
		name: "limits",
		tmpl: CreateLimit(CreateLimit(collect, lit(10), lit(2)), lit(5), lit(3)),
		used: []symbol.Symbol{x},
		want: "Limit limit 5 offset 5\n└── Collect doc.t1 [doc.t1.x]\n",
	}, {
		name: "outer limit past inner rows",
		tmpl: CreateLimit(CreateLimit(collect, lit(4), nil), lit(10), lit(6)),
		used: []symbol.Symbol{x},
		want: "Limit limit 0 offset 6\n└── Collect doc.t1 [doc.t1.x]\n",
	}, {
		name: "limit with parameter is kept",
		tmpl: CreateLimit(CreateLimit(collect, lit(4), nil), &symbol.ParameterSymbol{Key: "1", Type: symbol.Long}, nil),
		used: []symbol.Symbol{x},
		want: "Limit limit $1\n└── Limit limit 4\n    └── Collect doc.t1 [doc.t1.x]\n",
	}, {
		name: "order over order",
		tmpl: CreateOrder(CreateOrder(collect, relations.NewOrderBy(x)), relations.NewOrderBy(y)),
		used: []symbol.Symbol{x},
		want: "Order doc.t1.y ASC\n└── Collect doc.t1 [doc.t1.x, doc.t1.y]\n",
	}, {
		name: "filter below aggregate",
		tmpl: CreateAggregate(CreateFilter(collect, gt(x, lit(1))), []symbol.Symbol{x}, nil),
		want: "Aggregate group by doc.t1.x\n└── Collect doc.t1 [doc.t1.x] where op_>(doc.t1.x, 1)\n",
	}, {
		name: "both sides of a join",
		tmpl: CreateJoin(CreateFilter(collect, gt(x, lit(1))), CreateFilter(CreateCollect(t2, nil), symbol.True()),
			symbol.SingleRelation(1), symbol.SingleRelation(3), relations.CrossJoin, nil),
		used: []symbol.Symbol{x, z},
		want: "Join CROSS\n├── Collect doc.t1 [doc.t1.x] where op_>(doc.t1.x, 1)\n└── Collect doc.t2 [doc.t2.z]\n",
	}}
	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			op := resolve(t, tc.tmpl, tc.used...)
			collapsed := TryCollapse(op)
			assert.Equal(t, tc.want, ToTree(collapsed))
			assert.Equal(t, op.Outputs(), collapsed.Outputs())

			again := TryCollapse(collapsed)
			assert.Same(t, collapsed, again, "collapsing twice must not change the plan")
		})
	}
}

func TestTryCollapseNoOp(t *testing.T) {
	rel := xxyy(nil)
	tcases := []struct {
		name string
		tmpl Template
		used []symbol.Symbol
	}{
		{name: "collect", tmpl: CreateCollect(t1, gt(x, lit(1))), used: []symbol.Symbol{x}},
		{name: "order", tmpl: CreateOrder(CreateCollect(t1, nil), relations.NewOrderBy(y)), used: []symbol.Symbol{x}},
		{name: "boundary", tmpl: CreateBoundary(CreateCollect(t1, nil), rel), used: fields(rel, "xx")},
		{name: "filter over boundary", tmpl: CreateFilter(CreateBoundary(CreateCollect(t1, nil), rel), gt(fields(rel, "yy")[0], lit(0))), used: fields(rel, "xx")},
	}
	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			op := resolve(t, tc.tmpl, tc.used...)
			assert.Same(t, op, TryCollapse(op))
		})
	}
}

func TestTryCollapseBelowBoundary(t *testing.T) {
	rel := xxyy(nil)
	tmpl := CreateBoundary(CreateFilter(CreateCollect(t1, nil), gt(x, lit(1))), rel)
	op := resolve(t, tmpl, fields(rel, "xx", "yy")...)

	collapsed := TryCollapse(op)
	require.NotSame(t, op, collapsed)
	b, ok := collapsed.(*Boundary)
	require.True(t, ok)
	_, ok = b.Source.(*Collect)
	assert.True(t, ok, "the filter should be merged into the collect")

	assert.Equal(t, op.Outputs(), b.Outputs())
	assert.True(t, op.ExpressionMapping().Equal(b.ExpressionMapping()))
	assert.Same(t, rel, b.Relation)
	assert.Same(t, collapsed, TryCollapse(collapsed))
}

func TestMergeFilters(t *testing.T) {
	rel := xxyy(nil)
	yy := fields(rel, "yy")[0]
	xx := fields(rel, "xx")[0]
	boundary := resolve(t, CreateBoundary(CreateCollect(t1, nil), rel), xx, yy)

	inner := &Filter{unaryOperator: unaryOperator{Source: boundary}, Query: gt(xx, lit(1))}
	outer := &Filter{unaryOperator: unaryOperator{Source: inner}, Query: gt(yy, lit(2))}

	merged := TryCollapse(outer)
	f, ok := merged.(*Filter)
	require.True(t, ok)
	assert.Same(t, boundary, f.Source)
	assert.Equal(t, "and(op_>(tt.xx, 1), op_>(tt.yy, 2))", f.Query.String())
}

func TestTryCollapseUnknownOperator(t *testing.T) {
	unknown := &unknownOperator{}
	assert.Same(t, unknown, TryCollapse(unknown))

	filter := &Filter{unaryOperator: unaryOperator{Source: unknown}, Query: gt(x, lit(1))}
	assert.Same(t, filter, TryCollapse(filter))

	rel := xxyy(nil)
	own, err := fieldMapping(rel)
	require.NoError(t, err)
	boundary := newBoundary(unknown, rel, fields(rel, "xx"), own)
	assert.Same(t, boundary, TryCollapse(boundary))
}

func TestBoundaryCollapseKeepsColumns(t *testing.T) {
	widen := func(op LogicalPlan) LogicalPlan {
		if f, ok := op.(*Filter); ok {
			if c, ok := f.Source.(*Collect); ok {
				return &Collect{Table: c.Table, Where: f.Query, outputs: []symbol.Symbol{x, y}, estimatedRows: c.estimatedRows}
			}
		}
		return op
	}
	rel := xxyy(nil)
	tmpl := CreateBoundary(CreateFilter(CreateCollect(t1, nil), gt(x, lit(1))), rel)

	tcases := []struct {
		name      string
		rule      rule
		collapses bool
	}{
		{name: "same columns", rule: mergeFilterIntoCollect, collapses: true},
		{name: "more columns", rule: widen, collapses: false},
	}
	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			saved := collapseRules
			t.Cleanup(func() { collapseRules = saved })
			collapseRules = []struct {
				name string
				fn   rule
			}{{tc.name, tc.rule}}

			op := resolve(t, tmpl, fields(rel, "xx")...)
			collapsed := TryCollapse(op)
			if !tc.collapses {
				assert.Same(t, op, collapsed)
				return
			}
			require.NotSame(t, op, collapsed)
			assert.Equal(t, op.Outputs(), collapsed.Outputs())
			assert.Equal(t, "Boundary tt\n└── Collect doc.t1 [doc.t1.x] where op_>(doc.t1.x, 1)\n", ToTree(collapsed))
		})
	}
}

type unknownOperator struct {
	Collect
}
