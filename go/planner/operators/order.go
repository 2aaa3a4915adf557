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
)

// Order sorts the rows of its source.
type Order struct {
	unaryOperator
	OrderBy *relations.OrderBy
}

type OrderTemplate struct {
	Source  Template
	OrderBy *relations.OrderBy
}

var _ LogicalPlan = (*Order)(nil)

func CreateOrder(source Template, orderBy *relations.OrderBy) *OrderTemplate {
	return &OrderTemplate{Source: source, OrderBy: orderBy}
}

func (t *OrderTemplate) Resolve(rc ResolveContext) (LogicalPlan, error) {
	used := union(rc.Used, rewrite.ExtractColumns(t.OrderBy.Items)...)
	source, err := t.Source.Resolve(rc.withUsed(used))
	if err != nil {
		return nil, err
	}
	return &Order{unaryOperator: unaryOperator{Source: source}, OrderBy: t.OrderBy}, nil
}

func (o *Order) clone(inputs []LogicalPlan) LogicalPlan {
	return &Order{unaryOperator: unaryOperator{Source: inputs[0]}, OrderBy: o.OrderBy}
}

func (o *Order) ShortDescription() string {
	return o.OrderBy.String()
}

// build replaces the order requested from above with its own. The limit from
// above selects rows in the requested order, so it is only passed on when
// that order is absent or the same as ours.
func (o *Order) build(ctx *plancontext.PlanningContext, pb *engine.ProjectionBuilder, limit, offset int, requested *relations.OrderBy, pageSizeHint int) (engine.Plan, error) {
	order := o.OrderBy.Map(rewrite.Mapper(o.Source.ExpressionMapping()))
	if requested != nil && !requested.Equal(order) && !requested.Equal(o.OrderBy) {
		limit, offset = NoLimit, 0
	}
	source, err := Build(ctx, o.Source, pb, limit, offset, order, pageSizeHint)
	if err != nil {
		return nil, err
	}
	physical, err := pb.OrderBy(o.Source.Outputs(), order)
	if err != nil {
		return nil, err
	}
	return &engine.Sort{Input: source, Order: physical}, nil
}
