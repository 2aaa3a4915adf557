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
	"github.com/yiguolei/crate/go/log"
	"github.com/yiguolei/crate/go/planerrors"
	"github.com/yiguolei/crate/go/planner/engine"
	"github.com/yiguolei/crate/go/planner/plancontext"
	"github.com/yiguolei/crate/go/planner/relations"
	"github.com/yiguolei/crate/go/planner/rewrite"
	"github.com/yiguolei/crate/go/planner/symbol"
)

// Boundary marks where the scope of a queried relation ends. Above it, the
// relation is seen through its fields; below it, through the expressions its
// query spec computes for them.
type Boundary struct {
	unaryOperator
	Relation relations.QueriedRelation

	// used are the symbols the parent asked for, own maps the relation's fields
	// to the outputs of its query spec. Both are kept to recompute the mapping
	// over another source.
	used    []symbol.Symbol
	own     *symbol.Map
	mapping *symbol.Map
	outputs []symbol.Symbol
}

type BoundaryTemplate struct {
	Source   Template
	Relation relations.QueriedRelation
}

var _ LogicalPlan = (*Boundary)(nil)

func CreateBoundary(source Template, relation relations.QueriedRelation) *BoundaryTemplate {
	return &BoundaryTemplate{Source: source, Relation: relation}
}

// Resolve asks the source only for the columns the used fields are computed from.
func (t *BoundaryTemplate) Resolve(rc ResolveContext) (LogicalPlan, error) {
	own, err := fieldMapping(t.Relation)
	if err != nil {
		return nil, err
	}
	mapped := rewrite.MappedSymbols(rc.Used, own)
	columns := rewrite.ExtractColumns(mapped)
	log.DebugS("resolving relation boundary",
		"relation", t.Relation.Name(),
		"used", symbol.Strings(rc.Used),
		"columns", symbol.Strings(columns))

	source, err := t.Source.Resolve(rc.withUsed(columns))
	if err != nil {
		return nil, err
	}
	return newBoundary(source, t.Relation, rc.Used, own), nil
}

// fieldMapping pairs every field of rel with the output at the field's index.
func fieldMapping(rel relations.QueriedRelation) (*symbol.Map, error) {
	fields := rel.Fields()
	outputs := rel.QuerySpec().Outputs
	mapping := symbol.NewMap(len(fields))
	for _, f := range fields {
		if f.Index < 0 || f.Index >= len(outputs) {
			return nil, planerrors.Internal("field %s of %s has index %d, but the relation has %d outputs", f.Name, rel.Name(), f.Index, len(outputs))
		}
		mapping.Put(f, outputs[f.Index])
	}
	return mapping, nil
}

func newBoundary(source LogicalPlan, rel relations.QueriedRelation, used []symbol.Symbol, own *symbol.Map) *Boundary {
	merged := own.Clone()
	merged.PutAll(source.ExpressionMapping())
	return &Boundary{
		unaryOperator: unaryOperator{Source: source},
		Relation:      rel,
		used:          used,
		own:           own,
		mapping:       merged,
		outputs:       rewrite.MappedSymbols(used, merged),
	}
}

// Outputs are the used symbols in the order the parent asked for them.
func (b *Boundary) Outputs() []symbol.Symbol {
	return b.outputs
}

// ExpressionMapping contains the field mapping of the relation and the
// mapping of the source. Entries of the source win.
func (b *Boundary) ExpressionMapping() *symbol.Map {
	return b.mapping
}

func (b *Boundary) clone(inputs []LogicalPlan) LogicalPlan {
	return newBoundary(inputs[0], b.Relation, b.used, b.own)
}

func (b *Boundary) ShortDescription() string {
	return b.Relation.Name()
}

// tryCollapse rebuilds the boundary over the collapsed source. Collapsing
// must not change the columns of the source; if it did, the boundary keeps
// the source it was resolved with.
func (b *Boundary) tryCollapse() LogicalPlan {
	collapsed := TryCollapse(b.Source)
	if collapsed == b.Source {
		return b
	}
	klone := newBoundary(collapsed, b.Relation, b.used, b.own)
	if !symbol.EqualLists(collapsed.Outputs(), b.Source.Outputs()) || !symbol.EqualLists(klone.outputs, b.outputs) {
		log.WarnS("collapsing changed the columns below a relation boundary, keeping the original source",
			"relation", b.Relation.Name(),
			"before", symbol.Strings(b.Source.Outputs()),
			"after", symbol.Strings(collapsed.Outputs()))
		return b
	}
	return klone
}

func (b *Boundary) build(ctx *plancontext.PlanningContext, pb *engine.ProjectionBuilder, limit, offset int, order *relations.OrderBy, pageSizeHint int) (engine.Plan, error) {
	srcMapping := b.Source.ExpressionMapping()
	source, err := Build(ctx, b.Source, pb, limit, offset, order.Map(rewrite.Mapper(srcMapping)), pageSizeHint)
	if err != nil {
		return nil, err
	}

	plan := source
	exprs := rewrite.MappedSymbols(b.outputs, srcMapping)
	if !symbol.EqualLists(exprs, b.Source.Outputs()) {
		projected, err := pb.InputColumns(b.Source.Outputs(), exprs...)
		if err != nil {
			return nil, err
		}
		plan = &engine.Eval{Input: source, Exprs: projected}
	}

	deps, err := ctx.PlanSubqueries(b.Relation)
	if err != nil {
		return nil, err
	}
	return engine.MultiPhaseCreateIfNeeded(plan, deps), nil
}
