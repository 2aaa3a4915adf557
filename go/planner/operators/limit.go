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

	"github.com/yiguolei/crate/go/planner/engine"
	"github.com/yiguolei/crate/go/planner/plancontext"
	"github.com/yiguolei/crate/go/planner/symbol"
)

// Limit skips Offset rows of its source and returns at most Limit of the rest.
// A nil Limit means all rows, a nil Offset means zero.
type Limit struct {
	unaryOperator
	Limit  symbol.Symbol
	Offset symbol.Symbol
}

type LimitTemplate struct {
	Source        Template
	Limit, Offset symbol.Symbol
}

var _ LogicalPlan = (*Limit)(nil)

func CreateLimit(source Template, limit, offset symbol.Symbol) *LimitTemplate {
	return &LimitTemplate{Source: source, Limit: limit, Offset: offset}
}

func (t *LimitTemplate) Resolve(rc ResolveContext) (LogicalPlan, error) {
	source, err := t.Source.Resolve(rc)
	if err != nil {
		return nil, err
	}
	return &Limit{unaryOperator: unaryOperator{Source: source}, Limit: t.Limit, Offset: t.Offset}, nil
}

func (l *Limit) NumExpectedRows() int64 {
	rows := l.Source.NumExpectedRows()
	limit, ok := symbol.IntValue(l.Limit)
	if !ok {
		return rows
	}
	if rows < 0 || limit < rows {
		return limit
	}
	return rows
}

func (l *Limit) clone(inputs []LogicalPlan) LogicalPlan {
	return &Limit{unaryOperator: unaryOperator{Source: inputs[0]}, Limit: l.Limit, Offset: l.Offset}
}

func (l *Limit) ShortDescription() string {
	limit := "ALL"
	if l.Limit != nil {
		limit = l.Limit.String()
	}
	if l.Offset == nil {
		return fmt.Sprintf("limit %s", limit)
	}
	return fmt.Sprintf("limit %s offset %s", limit, l.Offset)
}

// literalBounds returns the bounds as numbers when both are literals.
func (l *Limit) literalBounds() (limit, offset int64, ok bool) {
	if l.Limit == nil {
		return 0, 0, false
	}
	if limit, ok = symbol.IntValue(l.Limit); !ok {
		return 0, 0, false
	}
	if l.Offset == nil {
		return limit, 0, true
	}
	offset, ok = symbol.IntValue(l.Offset)
	return limit, offset, ok
}

// build asks the source for at most limit+offset rows, skipping is done here.
// An order requested from above applies after the limit, so it is not passed on.
func (l *Limit) build(ctx *plancontext.PlanningContext, pb *engine.ProjectionBuilder, pageSizeHint int) (engine.Plan, error) {
	limit := NoLimit
	if lim, off, ok := l.literalBounds(); ok {
		limit = int(lim + off)
	}
	source, err := Build(ctx, l.Source, pb, limit, 0, nil, pageSizeHint)
	if err != nil {
		return nil, err
	}
	count, err := pb.InputColumn(nil, l.Limit)
	if err != nil {
		return nil, err
	}
	skip, err := pb.InputColumn(nil, l.Offset)
	if err != nil {
		return nil, err
	}
	return &engine.Limit{Input: source, Count: count, Offset: skip}, nil
}
