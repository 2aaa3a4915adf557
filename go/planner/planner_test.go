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

package planner

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/mocktracer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"

	"github.com/yiguolei/crate/go/planerrors"
	"github.com/yiguolei/crate/go/planner/engine"
	"github.com/yiguolei/crate/go/planner/operators"
	"github.com/yiguolei/crate/go/planner/relations"
	"github.com/yiguolei/crate/go/planner/stats"
	"github.com/yiguolei/crate/go/planner/symbol"
	"github.com/yiguolei/crate/go/test/utils"
)

var (
	t1 = relations.NewTableRelation(1, relations.TableIdent{Name: "t1"},
		relations.Column{Name: "x", Type: symbol.Integer},
		relations.Column{Name: "y", Type: symbol.Integer})
	t2 = relations.NewTableRelation(3, relations.TableIdent{Name: "t2"},
		relations.Column{Name: "z", Type: symbol.Integer})

	x = t1.Columns()[0]
	y = t1.Columns()[1]
	z = t2.Columns()[0]
)

func add(a, b symbol.Symbol) symbol.Symbol {
	return symbol.NewFunction("add", symbol.Integer, a, b)
}

func gt(a, b symbol.Symbol) symbol.Symbol {
	return symbol.NewFunction("op_>", symbol.Boolean, a, b)
}

func eq(a, b symbol.Symbol) symbol.Symbol {
	return symbol.NewFunction("op_=", symbol.Boolean, a, b)
}

func testStats() *stats.TableStats {
	ts := stats.New(0)
	ts.Update(t1.Ident, stats.Stats{NumDocs: 100, SizeInBytes: 6400})
	return ts
}

func newTestPlanner(cfg Config) (*Planner, *Metrics) {
	metrics := NewMetrics(prometheus.NewRegistry())
	return New(cfg, testStats(), metrics), metrics
}

// SELECT x + x AS xx, y FROM t1 WHERE x > 1 ORDER BY y LIMIT 10
func simpleSelect() *relations.QueriedTable {
	return relations.NewQueriedTable(2, "tt", t1, &relations.QuerySpec{
		Outputs: []symbol.Symbol{add(x, x), y},
		Where:   gt(x, symbol.NewLiteral(1)),
		OrderBy: relations.NewOrderBy(y),
		Limit:   symbol.NewLiteral(10),
	}, "xx", "y")
}

func TestPlanSimpleSelect(t *testing.T) {
	p, metrics := newTestPlanner(DefaultConfig())
	rel := simpleSelect()
	stmt, err := p.Plan(context.Background(), rel)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, stmt.JobID)
	assert.Equal(t, relations.FieldSymbols(rel), stmt.Outputs)
	assert.Equal(t, len(stmt.Outputs), stmt.Physical.NumColumns())

	wantLogical := `Boundary tt
└── Limit limit 10
    └── Order doc.t1.y ASC
        └── Collect doc.t1 [doc.t1.x, doc.t1.y] where op_>(doc.t1.x, 1)
`
	assert.Equal(t, wantLogical, operators.ToTree(stmt.Logical))

	wantPhysical := `Eval (Exprs=[add(INPUT(0), INPUT(0)), INPUT(1)])
└── Limit (Count=10)
    └── Sort (Order=INPUT(1) ASC)
        └── Collect doc.t1 (Columns=[doc.t1.x, doc.t1.y], EstimatedRows=100, Limit=10, Order=doc.t1.y ASC, Where=op_>(doc.t1.x, 1))
`
	assert.Equal(t, wantPhysical, engine.ToTree(stmt.Physical))

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.statements))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.collapsed))
	assert.Equal(t, 0, testutil.CollectAndCount(metrics.errors))
}

func TestPlanWithoutCollapse(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Collapse = false
	p, metrics := newTestPlanner(cfg)
	stmt, err := p.Plan(context.Background(), simpleSelect())
	require.NoError(t, err)

	want := `Eval (Exprs=[add(INPUT(0), INPUT(0)), INPUT(1)])
└── Limit (Count=10)
    └── Sort (Order=INPUT(1) ASC)
        └── Filter (Predicate=op_>(INPUT(0), 1))
            └── Collect doc.t1 (Columns=[doc.t1.x, doc.t1.y], EstimatedRows=100, Order=doc.t1.y ASC)
`
	assert.Equal(t, want, engine.ToTree(stmt.Physical))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.collapsed))
}

func TestPlanPageSizeHint(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PageSizeHint = 500
	p, _ := newTestPlanner(cfg)
	rel := relations.NewQueriedTable(2, "tt", t1, &relations.QuerySpec{Outputs: []symbol.Symbol{x}}, "x")
	stmt, err := p.Plan(context.Background(), rel)
	require.NoError(t, err)
	assert.Equal(t, "Collect doc.t1 (Columns=[doc.t1.x], EstimatedRows=100, PageSizeHint=500)\n", engine.ToTree(stmt.Physical))
}

func TestPlanAggregate(t *testing.T) {
	// SELECT y, count(x) FROM t1 GROUP BY y HAVING count(x) > 1 ORDER BY count(x) DESC
	count := symbol.NewAggregate("count", symbol.Long, x)
	order := relations.NewOrderBy(count)
	order.Reverse[0] = true
	rel := relations.NewQueriedTable(2, "tt", t1, &relations.QuerySpec{
		Outputs: []symbol.Symbol{y, count},
		GroupBy: []symbol.Symbol{y},
		Having:  gt(count, symbol.NewLiteral(1)),
		OrderBy: order,
	}, "y", "cnt")

	p, _ := newTestPlanner(DefaultConfig())
	stmt, err := p.Plan(context.Background(), rel)
	require.NoError(t, err)

	want := `Sort (Order=INPUT(1) DESC)
└── Filter (Predicate=op_>(INPUT(1), 1))
    └── Aggregate Grouped (Aggregates=[count(INPUT(1))], GroupKeys=[INPUT(0)])
        └── Collect doc.t1 (Columns=[doc.t1.y, doc.t1.x], EstimatedRows=100)
`
	assert.Equal(t, want, engine.ToTree(stmt.Physical))
}

func TestPlanJoinWithSubSelect(t *testing.T) {
	// SELECT tt.xx, t2.z FROM (SELECT x + x AS xx FROM t1) tt JOIN t2 ON tt.xx = t2.z
	tt := relations.NewQueriedTable(2, "tt", t1, &relations.QuerySpec{Outputs: []symbol.Symbol{add(x, x)}}, "xx")
	xx := tt.Fields()[0]
	rel := relations.NewQueriedSelect(5, "q",
		[]relations.AnalyzedRelation{tt, t2},
		[]relations.JoinPair{{Type: relations.InnerJoin, Condition: eq(xx, z)}},
		&relations.QuerySpec{Outputs: []symbol.Symbol{xx, z}},
		"xx", "z")

	p, _ := newTestPlanner(DefaultConfig())
	stmt, err := p.Plan(context.Background(), rel)
	require.NoError(t, err)

	want := `Join INNER (Condition=op_=(INPUT(0), INPUT(1)))
├── Eval (Exprs=[add(INPUT(0), INPUT(0))])
│   └── Collect doc.t1 (Columns=[doc.t1.x], EstimatedRows=100)
└── Collect doc.t2 (Columns=[doc.t2.z])
`
	assert.Equal(t, want, engine.ToTree(stmt.Physical))
	assert.Equal(t, int64(-1), stmt.Logical.NumExpectedRows())
	assert.Len(t, stmt.Logical.BaseTables(), 2)
}

func TestPlanUncorrelatedSubquery(t *testing.T) {
	defer utils.EnsureNoLeaks(t)
	// SELECT x FROM t1 WHERE y = (SELECT max(z) FROM t2)
	sub := relations.NewQueriedTable(4, "sq", t2, &relations.QuerySpec{
		Outputs: []symbol.Symbol{symbol.NewAggregate("max", symbol.Integer, z)},
	}, "m")
	sel := &symbol.SelectSymbol{Relation: sub, ResultType: symbol.SingleValue, Type: symbol.Integer}
	rel := relations.NewQueriedTable(2, "tt", t1, &relations.QuerySpec{
		Outputs: []symbol.Symbol{x},
		Where:   eq(y, sel),
	}, "x")

	p, metrics := newTestPlanner(DefaultConfig())
	stmt, err := p.Plan(context.Background(), rel)
	require.NoError(t, err)

	want := `MultiPhase (BindKeys=[__sq4], ResultTypes=[SingleValue])
├── Eval (Exprs=[INPUT(0)])
│   └── Collect doc.t1 (Columns=[doc.t1.x, doc.t1.y], EstimatedRows=100, Where=op_=(doc.t1.y, $__sq4))
└── Limit (Count=2)
    └── Aggregate Scalar (Aggregates=[max(INPUT(0))])
        └── Collect doc.t2 (Columns=[doc.t2.z])
`
	assert.Equal(t, want, engine.ToTree(stmt.Physical))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.subqueries))
}

func TestPlanSubqueryInJoinCondition(t *testing.T) {
	defer utils.EnsureNoLeaks(t)
	// SELECT x, z FROM t1 JOIN t2 ON x = z + (SELECT max(z) FROM t2)
	sub := relations.NewQueriedTable(8, "sq", t2, &relations.QuerySpec{
		Outputs: []symbol.Symbol{symbol.NewAggregate("max", symbol.Integer, z)},
	}, "m")
	sel := &symbol.SelectSymbol{Relation: sub, ResultType: symbol.SingleValue, Type: symbol.Integer}
	rel := relations.NewQueriedSelect(5, "q",
		[]relations.AnalyzedRelation{t1, t2},
		[]relations.JoinPair{{Type: relations.InnerJoin, Condition: eq(x, add(z, sel))}},
		&relations.QuerySpec{Outputs: []symbol.Symbol{x, z}},
		"x", "z")

	p, metrics := newTestPlanner(DefaultConfig())
	stmt, err := p.Plan(context.Background(), rel)
	require.NoError(t, err)

	mp, ok := stmt.Physical.(*engine.MultiPhase)
	require.True(t, ok, engine.ToTree(stmt.Physical))
	require.Len(t, mp.Dependencies, 1)
	assert.Equal(t, "__sq8", mp.Dependencies[0].BindKey)
	assert.Contains(t, engine.ToTree(mp.Primary), "$__sq8")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.subqueries))
}

func TestPlanCorrelatedSubquery(t *testing.T) {
	// SELECT x FROM t1 WHERE y = (SELECT z FROM t2 WHERE z = t1.x)
	sub := relations.NewQueriedTable(4, "sq", t2, &relations.QuerySpec{
		Outputs: []symbol.Symbol{z},
		Where:   eq(z, x),
	}, "z")
	sel := &symbol.SelectSymbol{Relation: sub, ResultType: symbol.SingleValue, Type: symbol.Integer}
	rel := relations.NewQueriedTable(2, "tt", t1, &relations.QuerySpec{
		Outputs: []symbol.Symbol{x},
		Where:   eq(y, sel),
	}, "x")

	p, metrics := newTestPlanner(DefaultConfig())
	_, err := p.Plan(context.Background(), rel)
	require.Error(t, err)
	assert.True(t, planerrors.IsCorrelatedSubquery(err))
	assert.Equal(t, codes.Unimplemented, planerrors.Code(err))

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.errors.WithLabelValues("Unimplemented")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.subqueries))
}

func TestPlanCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p, metrics := newTestPlanner(DefaultConfig())
	_, err := p.Plan(ctx, simpleSelect())
	require.Error(t, err)
	assert.Equal(t, codes.Canceled, planerrors.Code(err))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.errors.WithLabelValues("Canceled")))
}

func TestPlanTracing(t *testing.T) {
	tracer := mocktracer.New()
	opentracing.SetGlobalTracer(tracer)
	defer opentracing.SetGlobalTracer(opentracing.NoopTracer{})

	p := New(DefaultConfig(), nil, nil)
	stmt, err := p.Plan(context.Background(), simpleSelect())
	require.NoError(t, err)

	spans := tracer.FinishedSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "planner.Plan", spans[0].OperationName)
	assert.Equal(t, "tt", spans[0].Tag("relation"))
	assert.Equal(t, stmt.JobID.String(), spans[0].Tag("job_id"))
}

func TestPlanIsDeterministic(t *testing.T) {
	p, _ := newTestPlanner(DefaultConfig())
	first, err := p.Plan(context.Background(), simpleSelect())
	require.NoError(t, err)
	second, err := p.Plan(context.Background(), simpleSelect())
	require.NoError(t, err)

	assert.NotEqual(t, first.JobID, second.JobID)
	utils.MustMatch(t, first.Physical, second.Physical, "physical plans differ")
	utils.MustMatch(t, first.Outputs, second.Outputs, "outputs differ")
}
