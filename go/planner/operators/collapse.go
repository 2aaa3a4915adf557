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
	"fmt"

	"github.com/yiguolei/crate/go/log"
	"github.com/yiguolei/crate/go/planner/symbol"
)

// rule rewrites op into a simpler equivalent. It returns op itself when it
// does not apply.
type rule func(op LogicalPlan) LogicalPlan

var collapseRules = []struct {
	name string
	fn   rule
}{
	{"remove always true filter", removeTrueFilter},
	{"merge filter into collect", mergeFilterIntoCollect},
	{"merge filters", mergeFilters},
	{"merge limits", mergeLimits},
	{"remove shadowed order", removeShadowedOrder},
}

// TryCollapse returns a cheaper equivalent of op. When nothing can be
// simplified, op itself is returned. Operators it does not know are kept as
// they are, together with their inputs.
func TryCollapse(op LogicalPlan) LogicalPlan {
	switch op := op.(type) {
	case *Collect:
		return op
	case *Boundary:
		return op.tryCollapse()
	case *Filter, *Order, *Limit, *Aggregate, *Join:
		return applyRules(collapseInputs(op))
	default:
		log.WarnS("not collapsing unknown logical plan", "type", fmt.Sprintf("%T", op))
		return op
	}
}

// collapseInputs returns a copy of op over its collapsed inputs, or op when
// none of them changed.
func collapseInputs(op LogicalPlan) LogicalPlan {
	inputs := op.Inputs()
	collapsed := make([]LogicalPlan, len(inputs))
	changed := false
	for i, in := range inputs {
		collapsed[i] = TryCollapse(in)
		changed = changed || collapsed[i] != in
	}
	if !changed {
		return op
	}
	return op.clone(collapsed)
}

func applyRules(op LogicalPlan) LogicalPlan {
	for {
		before := op
		for _, r := range collapseRules {
			after := r.fn(op)
			if after != op {
				log.DebugS("collapsed logical plan", "rule", r.name, "before", op.ShortDescription(), "after", after.ShortDescription())
				op = after
			}
		}
		if op == before {
			return op
		}
	}
}

func mergeFilterIntoCollect(op LogicalPlan) LogicalPlan {
	f, ok := op.(*Filter)
	if !ok {
		return op
	}
	c, ok := f.Source.(*Collect)
	if !ok {
		return op
	}
	return c.withWhere(f.Query)
}

func mergeFilters(op LogicalPlan) LogicalPlan {
	outer, ok := op.(*Filter)
	if !ok {
		return op
	}
	inner, ok := outer.Source.(*Filter)
	if !ok {
		return op
	}
	return &Filter{unaryOperator: inner.unaryOperator, Query: symbol.And(inner.Query, outer.Query)}
}

func removeTrueFilter(op LogicalPlan) LogicalPlan {
	f, ok := op.(*Filter)
	if !ok || !symbol.IsLiteralTrue(f.Query) {
		return op
	}
	return f.Source
}

// mergeLimits combines two limits with literal bounds. The outer limit skips
// its offset from the rows the inner one returns.
func mergeLimits(op LogicalPlan) LogicalPlan {
	outer, ok := op.(*Limit)
	if !ok {
		return op
	}
	inner, ok := outer.Source.(*Limit)
	if !ok {
		return op
	}
	outerLimit, outerOffset, ok := outer.literalBounds()
	if !ok {
		return op
	}
	innerLimit, innerOffset, ok := inner.literalBounds()
	if !ok {
		return op
	}
	limit := min(outerLimit, max(innerLimit-outerOffset, 0))
	return &Limit{
		unaryOperator: inner.unaryOperator,
		Limit:         symbol.NewLiteral(limit),
		Offset:        symbol.NewLiteral(innerOffset + outerOffset),
	}
}

func removeShadowedOrder(op LogicalPlan) LogicalPlan {
	outer, ok := op.(*Order)
	if !ok {
		return op
	}
	inner, ok := outer.Source.(*Order)
	if !ok {
		return op
	}
	return &Order{unaryOperator: inner.unaryOperator, OrderBy: outer.OrderBy}
}
