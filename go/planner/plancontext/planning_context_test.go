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

package plancontext

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"

	"github.com/yiguolei/crate/go/planerrors"
	"github.com/yiguolei/crate/go/planner/engine"
	"github.com/yiguolei/crate/go/planner/relations"
	"github.com/yiguolei/crate/go/planner/symbol"
)

type countingPlanner struct {
	calls int
}

func (c *countingPlanner) PlanSubqueries(subqueries []*symbol.SelectSymbol) ([]engine.Dependency, error) {
	c.calls++
	return []engine.Dependency{{BindKey: "__sq9"}}, nil
}

var t1 = relations.NewTableRelation(1, relations.TableIdent{Name: "t1"}, relations.Column{Name: "x"})

func relWithSubquery() relations.QueriedRelation {
	t2 := relations.NewTableRelation(2, relations.TableIdent{Name: "t2"}, relations.Column{Name: "y"})
	sq := relations.NewQueriedTable(9, "sq", t2, &relations.QuerySpec{Outputs: []symbol.Symbol{t2.Columns()[0]}})
	return relations.NewQueriedTable(3, "q", t1, &relations.QuerySpec{Outputs: []symbol.Symbol{&symbol.SelectSymbol{Relation: sq}}})
}

func TestPlanSubqueries(t *testing.T) {
	planner := &countingPlanner{}
	ctx := NewPlanningContext(nil, planner)
	assert.NotEqual(t, uuid.Nil, ctx.JobID)

	deps, err := ctx.PlanSubqueries(relations.NewQueriedTable(3, "q", t1, &relations.QuerySpec{Outputs: []symbol.Symbol{symbol.NewLiteral(1)}}))
	require.NoError(t, err)
	assert.Empty(t, deps)
	assert.Zero(t, planner.calls)

	deps, err = ctx.PlanSubqueries(relWithSubquery())
	require.NoError(t, err)
	require.Len(t, deps, 1)
	assert.Equal(t, 1, planner.calls)
}

func TestPlanSubqueriesWithoutPlanner(t *testing.T) {
	ctx := NewPlanningContext(nil, nil)
	_, err := ctx.PlanSubqueries(relWithSubquery())
	require.Error(t, err)
	assert.Equal(t, codes.Internal, planerrors.Code(err))
}

func TestJobIDsAreUnique(t *testing.T) {
	assert.NotEqual(t, NewPlanningContext(nil, nil).JobID, NewPlanningContext(nil, nil).JobID)
}
