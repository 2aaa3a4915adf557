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
	"slices"
	"strings"

	"github.com/yiguolei/crate/go/planner/engine"
	"github.com/yiguolei/crate/go/planner/plancontext"
	"github.com/yiguolei/crate/go/planner/rewrite"
	"github.com/yiguolei/crate/go/planner/symbol"
)

// Aggregate groups the rows of its source by GroupKeys and computes
// Aggregates per group. Without group keys it produces a single row.
type Aggregate struct {
	unaryOperator
	GroupKeys  []symbol.Symbol
	Aggregates []symbol.Symbol

	outputs []symbol.Symbol
}

type AggregateTemplate struct {
	Source     Template
	GroupKeys  []symbol.Symbol
	Aggregates []symbol.Symbol
}

var _ LogicalPlan = (*Aggregate)(nil)

func CreateAggregate(source Template, groupKeys, aggregates []symbol.Symbol) *AggregateTemplate {
	return &AggregateTemplate{Source: source, GroupKeys: groupKeys, Aggregates: aggregates}
}

// Resolve ignores the columns used above: after grouping, only the group keys
// and the aggregates exist.
func (t *AggregateTemplate) Resolve(rc ResolveContext) (LogicalPlan, error) {
	used := rewrite.ExtractColumns(slices.Concat(t.GroupKeys, t.Aggregates))
	source, err := t.Source.Resolve(rc.withUsed(used))
	if err != nil {
		return nil, err
	}
	return newAggregate(source, t.GroupKeys, t.Aggregates), nil
}

func newAggregate(source LogicalPlan, groupKeys, aggregates []symbol.Symbol) *Aggregate {
	return &Aggregate{
		unaryOperator: unaryOperator{Source: source},
		GroupKeys:     groupKeys,
		Aggregates:    aggregates,
		outputs:       rewrite.MappedSymbols(slices.Concat(groupKeys, aggregates), source.ExpressionMapping()),
	}
}

// Outputs are the group keys followed by the aggregates.
func (a *Aggregate) Outputs() []symbol.Symbol {
	return a.outputs
}

func (a *Aggregate) NumExpectedRows() int64 {
	if len(a.GroupKeys) == 0 {
		return 1
	}
	return a.Source.NumExpectedRows()
}

func (a *Aggregate) clone(inputs []LogicalPlan) LogicalPlan {
	return newAggregate(inputs[0], a.GroupKeys, a.Aggregates)
}

func (a *Aggregate) ShortDescription() string {
	var parts []string
	if len(a.Aggregates) > 0 {
		parts = append(parts, strings.Join(symbol.Strings(a.Aggregates), ", "))
	}
	if len(a.GroupKeys) > 0 {
		parts = append(parts, "group by "+strings.Join(symbol.Strings(a.GroupKeys), ", "))
	}
	return strings.Join(parts, " ")
}

// build reads all rows of the source, grouping happens on the full input.
func (a *Aggregate) build(ctx *plancontext.PlanningContext, pb *engine.ProjectionBuilder, pageSizeHint int) (engine.Plan, error) {
	source, err := Build(ctx, a.Source, pb, NoLimit, 0, nil, pageSizeHint)
	if err != nil {
		return nil, err
	}
	mapping := a.Source.ExpressionMapping()
	keys, err := pb.InputColumns(a.Source.Outputs(), rewrite.MappedSymbols(a.GroupKeys, mapping)...)
	if err != nil {
		return nil, err
	}
	aggs, err := pb.InputColumns(a.Source.Outputs(), rewrite.MappedSymbols(a.Aggregates, mapping)...)
	if err != nil {
		return nil, err
	}
	return &engine.Aggregate{Input: source, GroupKeys: keys, Aggregates: aggs}, nil
}
