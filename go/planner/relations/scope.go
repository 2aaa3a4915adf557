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

package relations

import (
	"github.com/yiguolei/crate/go/planner/symbol"
)

// Scope returns the ids of rel and of every relation it reads from, recursively.
// Subqueries used as expressions are not part of the scope.
func Scope(rel AnalyzedRelation) symbol.RelationSet {
	scope := symbol.SingleRelation(rel.ID())
	if q, ok := rel.(QueriedRelation); ok {
		for _, src := range q.Sources() {
			scope = scope.Merge(Scope(src))
		}
	}
	return scope
}

// Subqueries returns the distinct subquery expressions that rel evaluates
// itself: those of its query spec followed by those of its join conditions.
// Subqueries of source relations are not included.
func Subqueries(rel QueriedRelation) []*symbol.SelectSymbol {
	symbols := rel.QuerySpec().Symbols()
	if sel, ok := rel.(*QueriedSelect); ok {
		for _, pair := range sel.joinPairs {
			if pair.Condition != nil {
				symbols = append(symbols, pair.Condition)
			}
		}
	}
	return symbol.SelectSymbols(symbols...)
}

// OuterDependencies returns the relations that rel references but that are
// not in its scope. A subquery with outer dependencies is correlated.
func OuterDependencies(rel QueriedRelation) symbol.RelationSet {
	spec := rel.QuerySpec()
	deps := symbol.Dependencies(spec.Symbols()...)
	if sel, ok := rel.(*QueriedSelect); ok {
		for _, pair := range sel.joinPairs {
			deps = deps.Merge(symbol.Dependencies(pair.Condition))
		}
	}
	for _, sq := range Subqueries(rel) {
		if nested, ok := sq.Relation.(QueriedRelation); ok {
			deps = deps.Merge(OuterDependencies(nested))
		}
	}
	for _, src := range rel.Sources() {
		if nested, ok := src.(QueriedRelation); ok {
			deps = deps.Merge(OuterDependencies(nested))
		}
	}
	return deps.Remove(Scope(rel))
}
