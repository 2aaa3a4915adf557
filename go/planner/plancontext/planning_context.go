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
	"github.com/google/uuid"

	"github.com/yiguolei/crate/go/planerrors"
	"github.com/yiguolei/crate/go/planner/engine"
	"github.com/yiguolei/crate/go/planner/relations"
	"github.com/yiguolei/crate/go/planner/stats"
	"github.com/yiguolei/crate/go/planner/symbol"
)

// SubqueryPlanner turns subqueries into dependencies of a multi-phase plan.
type SubqueryPlanner interface {
	PlanSubqueries(subqueries []*symbol.SelectSymbol) ([]engine.Dependency, error)
}

// PlanningContext is shared by all operators while one statement is compiled.
type PlanningContext struct {
	// JobID identifies the statement; sub-plans share it.
	JobID uuid.UUID
	Stats *stats.TableStats

	// Subqueries is asked for the sub-plans of every relation boundary that has subqueries.
	Subqueries SubqueryPlanner
}

// NewPlanningContext creates a context with a fresh job id.
func NewPlanningContext(tableStats *stats.TableStats, subqueries SubqueryPlanner) *PlanningContext {
	return &PlanningContext{
		JobID:      uuid.New(),
		Stats:      tableStats,
		Subqueries: subqueries,
	}
}

// PlanSubqueries plans the subqueries of rel, including those of its join
// conditions. It returns no dependencies for relations without subqueries.
func (ctx *PlanningContext) PlanSubqueries(rel relations.QueriedRelation) ([]engine.Dependency, error) {
	subqueries := relations.Subqueries(rel)
	if len(subqueries) == 0 {
		return nil, nil
	}
	if ctx.Subqueries == nil {
		return nil, planerrors.Internal("no subquery planner to plan %d subqueries", len(subqueries))
	}
	return ctx.Subqueries.PlanSubqueries(subqueries)
}
