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
	"github.com/yiguolei/crate/go/planner/engine"
	"github.com/yiguolei/crate/go/planner/plancontext"
	"github.com/yiguolei/crate/go/planner/relations"
	"github.com/yiguolei/crate/go/planner/rewrite"
	"github.com/yiguolei/crate/go/planner/symbol"
)

// Filter removes the rows of its source that do not match Query.
type Filter struct {
	unaryOperator
	Query symbol.Symbol
}

type FilterTemplate struct {
	Source Template
	Query  symbol.Symbol
}

var _ LogicalPlan = (*Filter)(nil)

func CreateFilter(source Template, query symbol.Symbol) *FilterTemplate {
	return &FilterTemplate{Source: source, Query: query}
}

func (t *FilterTemplate) Resolve(rc ResolveContext) (LogicalPlan, error) {
	used := union(rc.Used, rewrite.ExtractColumns([]symbol.Symbol{t.Query})...)
	source, err := t.Source.Resolve(rc.withUsed(used))
	if err != nil {
		return nil, err
	}
	return &Filter{unaryOperator: unaryOperator{Source: source}, Query: t.Query}, nil
}

func (f *Filter) clone(inputs []LogicalPlan) LogicalPlan {
	return &Filter{unaryOperator: unaryOperator{Source: inputs[0]}, Query: f.Query}
}

func (f *Filter) ShortDescription() string {
	return f.Query.String()
}

// build discards the limit: the filter decides which rows count towards it.
func (f *Filter) build(ctx *plancontext.PlanningContext, pb *engine.ProjectionBuilder, order *relations.OrderBy, pageSizeHint int) (engine.Plan, error) {
	source, err := Build(ctx, f.Source, pb, NoLimit, 0, order, pageSizeHint)
	if err != nil {
		return nil, err
	}
	query := rewrite.Substitute(f.Source.ExpressionMapping(), f.Query)
	predicate, err := pb.InputColumn(f.Source.Outputs(), query)
	if err != nil {
		return nil, err
	}
	return &engine.Filter{Input: source, Predicate: predicate}, nil
}
