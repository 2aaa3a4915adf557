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
	"github.com/yiguolei/crate/go/planerrors"
	"github.com/yiguolei/crate/go/planner/engine"
	"github.com/yiguolei/crate/go/planner/plancontext"
	"github.com/yiguolei/crate/go/planner/relations"
)

// Build compiles the logical plan into a physical plan. The columns of the
// physical plan are the Outputs of op, in order.
//
// limit, offset and order are what the parent will apply to the rows; an
// operator may use them to produce fewer or presorted rows. order is expressed
// in the scope of op's outputs. A pageSizeHint of 0 means no hint.
func Build(
	ctx *plancontext.PlanningContext,
	op LogicalPlan,
	pb *engine.ProjectionBuilder,
	limit, offset int,
	order *relations.OrderBy,
	pageSizeHint int,
) (engine.Plan, error) {
	switch op := op.(type) {
	case *Collect:
		return op.build(pb, limit, offset, order, pageSizeHint), nil
	case *Filter:
		return op.build(ctx, pb, order, pageSizeHint)
	case *Order:
		return op.build(ctx, pb, limit, offset, order, pageSizeHint)
	case *Limit:
		return op.build(ctx, pb, pageSizeHint)
	case *Aggregate:
		return op.build(ctx, pb, pageSizeHint)
	case *Join:
		return op.build(ctx, pb, pageSizeHint)
	case *Boundary:
		return op.build(ctx, pb, limit, offset, order, pageSizeHint)
	default:
		return nil, planerrors.Internal("cannot build logical plan of type %T", op)
	}
}
