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

// Package planner turns analyzed relations into executable plans.
//
// A statement is planned in three steps: the query spec of the relation is
// described as a chain of operator templates, the chain is resolved into a
// logical plan that only carries the columns somebody reads, and the logical
// plan is collapsed and built into an engine.Plan. Subqueries are planned as
// statements of their own and become dependencies of a multi-phase plan.
package planner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"

	"github.com/yiguolei/crate/go/log"
	"github.com/yiguolei/crate/go/planerrors"
	"github.com/yiguolei/crate/go/planner/engine"
	"github.com/yiguolei/crate/go/planner/operators"
	"github.com/yiguolei/crate/go/planner/plancontext"
	"github.com/yiguolei/crate/go/planner/relations"
	"github.com/yiguolei/crate/go/planner/stats"
	"github.com/yiguolei/crate/go/planner/subquery"
	"github.com/yiguolei/crate/go/planner/symbol"
)

// Planner plans statements. It is safe for concurrent use.
type Planner struct {
	cfg     Config
	stats   *stats.TableStats
	metrics *Metrics
}

// Statement is the result of planning a relation.
type Statement struct {
	JobID    uuid.UUID
	Logical  operators.LogicalPlan
	Physical engine.Plan
	// Outputs are the fields of the relation, in the order of the columns of Physical.
	Outputs []symbol.Symbol
}

// New creates a planner. A nil tableStats plans without row estimates and
// nil metrics are replaced by unregistered ones.
func New(cfg Config, tableStats *stats.TableStats, metrics *Metrics) *Planner {
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Planner{cfg: cfg, stats: tableStats, metrics: metrics}
}

// Plan plans rel as a top level statement.
func (p *Planner) Plan(ctx context.Context, rel relations.QueriedRelation) (*Statement, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "planner.Plan")
	defer span.Finish()
	span.SetTag("relation", rel.Name())

	start := time.Now()
	stmt, err := p.plan(ctx, rel)
	p.metrics.observe(start, err)
	if err != nil {
		ext.Error.Set(span, true)
		span.LogKV("error", err.Error())
		return nil, err
	}
	span.SetTag("job_id", stmt.JobID.String())
	return stmt, nil
}

func (p *Planner) plan(ctx context.Context, rel relations.QueriedRelation) (*Statement, error) {
	if err := ctx.Err(); err != nil {
		return nil, planerrors.Wrapf(err, "planning %s", rel.Name())
	}

	pctx := plancontext.NewPlanningContext(p.stats, nil)
	sp := &statementPlanner{Planner: p, ctx: pctx}
	pctx.Subqueries = subquery.New(sp, p.cfg.SubqueryConcurrency)

	outputs := relations.FieldSymbols(rel)
	logical, err := sp.logicalPlan(rel, outputs)
	if err != nil {
		return nil, err
	}
	physical, err := operators.Build(pctx, logical, engine.NewProjectionBuilder(), operators.NoLimit, 0, nil, p.cfg.PageSizeHint)
	if err != nil {
		return nil, err
	}
	log.DebugS("planned statement", "job_id", pctx.JobID, "relation", rel.Name(), "columns", physical.NumColumns())
	return &Statement{
		JobID:    pctx.JobID,
		Logical:  logical,
		Physical: physical,
		Outputs:  outputs,
	}, nil
}

// statementPlanner plans one statement and the subqueries it uses.
type statementPlanner struct {
	*Planner
	ctx *plancontext.PlanningContext
}

var _ subquery.RelationPlanner = (*statementPlanner)(nil)

// PlanSubSelect plans a subquery. A subquery used as a single value is
// limited to two rows: a second row is an error the executor must detect.
func (sp *statementPlanner) PlanSubSelect(rel relations.QueriedRelation, resultType symbol.ResultType) (engine.Plan, error) {
	sp.metrics.subqueries.Inc()
	logical, err := sp.logicalPlan(rel, relations.FieldSymbols(rel))
	if err != nil {
		return nil, err
	}
	if resultType != symbol.SingleValue {
		return operators.Build(sp.ctx, logical, engine.NewProjectionBuilder(), operators.NoLimit, 0, nil, sp.cfg.PageSizeHint)
	}
	plan, err := operators.Build(sp.ctx, logical, engine.NewProjectionBuilder(), 2, 0, nil, sp.cfg.PageSizeHint)
	if err != nil {
		return nil, err
	}
	return &engine.Limit{Input: plan, Count: symbol.NewLiteral(2)}, nil
}

func (sp *statementPlanner) logicalPlan(rel relations.QueriedRelation, used []symbol.Symbol) (operators.LogicalPlan, error) {
	tmpl, err := sp.template(rel)
	if err != nil {
		return nil, err
	}
	op, err := tmpl.Resolve(operators.ResolveContext{Stats: sp.stats, Used: used})
	if err != nil {
		return nil, err
	}
	if !sp.cfg.Collapse {
		return op, nil
	}
	collapsed := operators.TryCollapse(op)
	if collapsed != op {
		sp.metrics.collapsed.Inc()
	}
	return collapsed, nil
}

// template describes rel as a chain of operators:
// sources, where, aggregation, having, order by, limit and the boundary of rel.
func (sp *statementPlanner) template(rel relations.QueriedRelation) (operators.Template, error) {
	spec := rel.QuerySpec()
	tmpl, err := sp.sourceTemplate(rel)
	if err != nil {
		return nil, err
	}
	if spec.Where != nil {
		tmpl = operators.CreateFilter(tmpl, spec.Where)
	}
	if spec.HasAggregates() {
		tmpl = operators.CreateAggregate(tmpl, spec.GroupBy, spec.Aggregates())
	}
	if spec.Having != nil {
		tmpl = operators.CreateFilter(tmpl, spec.Having)
	}
	if spec.OrderBy != nil {
		tmpl = operators.CreateOrder(tmpl, spec.OrderBy)
	}
	if spec.Limit != nil || spec.Offset != nil {
		tmpl = operators.CreateLimit(tmpl, spec.Limit, spec.Offset)
	}
	return operators.CreateBoundary(tmpl, rel), nil
}

// sourceTemplate reads the sources of rel. Several sources are joined from
// left to right.
func (sp *statementPlanner) sourceTemplate(rel relations.QueriedRelation) (operators.Template, error) {
	sources := rel.Sources()
	if len(sources) == 0 {
		return nil, planerrors.Internal("relation %s has no sources", rel.Name())
	}
	tmpl, err := sp.relationTemplate(sources[0])
	if err != nil {
		return nil, err
	}
	scope := relations.Scope(sources[0])
	sel, _ := rel.(*relations.QueriedSelect)
	for i, src := range sources[1:] {
		right, err := sp.relationTemplate(src)
		if err != nil {
			return nil, err
		}
		pair := relations.JoinPair{Type: relations.CrossJoin}
		if sel != nil {
			pair = sel.JoinPair(i + 1)
		}
		rightScope := relations.Scope(src)
		tmpl = operators.CreateJoin(tmpl, right, scope, rightScope, pair.Type, pair.Condition)
		scope = scope.Merge(rightScope)
	}
	return tmpl, nil
}

func (sp *statementPlanner) relationTemplate(rel relations.AnalyzedRelation) (operators.Template, error) {
	switch rel := rel.(type) {
	case *relations.TableRelation:
		return operators.CreateCollect(rel, nil), nil
	case relations.QueriedRelation:
		return sp.template(rel)
	default:
		return nil, planerrors.Internal("cannot plan relation %s of type %T", rel.Name(), rel)
	}
}
