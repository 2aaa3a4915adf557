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

// Package subquery plans the subqueries that a relation uses as expressions.
// Only uncorrelated subqueries are supported: each one is planned on its own
// and executed once, before the plan of the relation that uses it.
package subquery

import (
	"golang.org/x/sync/errgroup"

	"github.com/yiguolei/crate/go/log"
	"github.com/yiguolei/crate/go/planerrors"
	"github.com/yiguolei/crate/go/planner/engine"
	"github.com/yiguolei/crate/go/planner/plancontext"
	"github.com/yiguolei/crate/go/planner/relations"
	"github.com/yiguolei/crate/go/planner/symbol"
)

// RelationPlanner plans a subquery as a statement of its own.
// It must be safe for concurrent use.
type RelationPlanner interface {
	PlanSubSelect(rel relations.QueriedRelation, resultType symbol.ResultType) (engine.Plan, error)
}

// Planner turns subqueries into the dependencies of a multi-phase plan.
type Planner struct {
	relations   RelationPlanner
	concurrency int
}

var _ plancontext.SubqueryPlanner = (*Planner)(nil)

// New creates a planner that compiles at most concurrency subqueries at once.
func New(planner RelationPlanner, concurrency int) *Planner {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Planner{relations: planner, concurrency: concurrency}
}

// PlanSubqueries returns one dependency per subquery, in the given order. A
// correlated subquery fails the whole list before anything is planned.
func (p *Planner) PlanSubqueries(subqueries []*symbol.SelectSymbol) ([]engine.Dependency, error) {
	if len(subqueries) == 0 {
		return nil, nil
	}

	rels := make([]relations.QueriedRelation, len(subqueries))
	for i, sq := range subqueries {
		rel, ok := sq.Relation.(relations.QueriedRelation)
		if !ok {
			return nil, planerrors.Internal("subquery %s is not a queried relation", sq)
		}
		if outer := relations.OuterDependencies(rel); !outer.IsEmpty() {
			return nil, planerrors.CorrelatedSubquery(rel.Name(), outer)
		}
		rels[i] = rel
	}
	log.DebugS("planning subqueries", "count", len(subqueries), "concurrency", p.concurrency)

	deps := make([]engine.Dependency, len(subqueries))
	var g errgroup.Group
	g.SetLimit(p.concurrency)
	for i, sq := range subqueries {
		g.Go(func() error {
			plan, err := p.relations.PlanSubSelect(rels[i], sq.ResultType)
			if err != nil {
				return planerrors.Wrapf(err, "planning subquery %s", rels[i].Name())
			}
			deps[i] = engine.Dependency{Plan: plan, BindKey: sq.BindKey(), ResultType: sq.ResultType}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return deps, nil
}
