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

	"github.com/yiguolei/crate/go/planerrors"
	"github.com/yiguolei/crate/go/planner/engine"
	"github.com/yiguolei/crate/go/planner/plancontext"
	"github.com/yiguolei/crate/go/planner/relations"
	"github.com/yiguolei/crate/go/planner/rewrite"
	"github.com/yiguolei/crate/go/planner/symbol"
)

// Join combines the rows of two sources. Its outputs are the outputs of the
// left side followed by the ones of the right side.
type Join struct {
	Left, Right LogicalPlan
	Type        relations.JoinType
	// Condition is nil for cross joins.
	Condition symbol.Symbol

	mapping *symbol.Map
}

// JoinTemplate splits the columns it needs between its sides by the relations each side introduces.
type JoinTemplate struct {
	Left, Right           Template
	LeftScope, RightScope symbol.RelationSet
	Type                  relations.JoinType
	Condition             symbol.Symbol
}

var _ LogicalPlan = (*Join)(nil)

func CreateJoin(left, right Template, leftScope, rightScope symbol.RelationSet, joinType relations.JoinType, condition symbol.Symbol) *JoinTemplate {
	return &JoinTemplate{
		Left:       left,
		Right:      right,
		LeftScope:  leftScope,
		RightScope: rightScope,
		Type:       joinType,
		Condition:  condition,
	}
}

func (t *JoinTemplate) Resolve(rc ResolveContext) (LogicalPlan, error) {
	needed := union(rewrite.ExtractColumns(rc.Used), rewrite.ExtractColumns([]symbol.Symbol{t.Condition})...)
	var leftUsed, rightUsed []symbol.Symbol
	for _, col := range needed {
		deps := symbol.Dependencies(col)
		switch {
		case deps.IsSolvedBy(t.LeftScope):
			leftUsed = append(leftUsed, col)
		case deps.IsSolvedBy(t.RightScope):
			rightUsed = append(rightUsed, col)
		default:
			return nil, planerrors.UnresolvedColumn(col, "join")
		}
	}
	left, err := t.Left.Resolve(rc.withUsed(leftUsed))
	if err != nil {
		return nil, err
	}
	right, err := t.Right.Resolve(rc.withUsed(rightUsed))
	if err != nil {
		return nil, err
	}
	return newJoin(left, right, t.Type, t.Condition), nil
}

func newJoin(left, right LogicalPlan, joinType relations.JoinType, condition symbol.Symbol) *Join {
	mapping := left.ExpressionMapping().Clone()
	mapping.PutAll(right.ExpressionMapping())
	return &Join{Left: left, Right: right, Type: joinType, Condition: condition, mapping: mapping}
}

func (j *Join) Outputs() []symbol.Symbol {
	return slices.Concat(j.Left.Outputs(), j.Right.Outputs())
}

func (j *Join) ExpressionMapping() *symbol.Map {
	return j.mapping
}

func (j *Join) BaseTables() []*relations.TableRelation {
	return slices.Concat(j.Left.BaseTables(), j.Right.BaseTables())
}

// NumExpectedRows is the size of the cross product of both sides.
func (j *Join) NumExpectedRows() int64 {
	l, r := j.Left.NumExpectedRows(), j.Right.NumExpectedRows()
	if l < 0 || r < 0 {
		return -1
	}
	return l * r
}

func (j *Join) Inputs() []LogicalPlan {
	return []LogicalPlan{j.Left, j.Right}
}

func (j *Join) clone(inputs []LogicalPlan) LogicalPlan {
	return newJoin(inputs[0], inputs[1], j.Type, j.Condition)
}

func (j *Join) ShortDescription() string {
	if j.Condition == nil {
		return j.Type.String()
	}
	return j.Type.String() + " " + j.Condition.String()
}

// build builds both sides without limit or order: neither survives the join.
func (j *Join) build(ctx *plancontext.PlanningContext, pb *engine.ProjectionBuilder, pageSizeHint int) (engine.Plan, error) {
	left, err := Build(ctx, j.Left, pb, NoLimit, 0, nil, pageSizeHint)
	if err != nil {
		return nil, err
	}
	right, err := Build(ctx, j.Right, pb, NoLimit, 0, nil, pageSizeHint)
	if err != nil {
		return nil, err
	}
	condition, err := pb.InputColumn(j.Outputs(), rewrite.Substitute(j.mapping, j.Condition))
	if err != nil {
		return nil, err
	}
	return &engine.Join{Left: left, Right: right, Type: j.Type, Condition: condition}, nil
}
