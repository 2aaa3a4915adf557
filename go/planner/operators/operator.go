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

// Package operators contains the logical operators used to plan queries.
/*
Planning a relation goes through three phases:
1. Templates
   The planner describes the relation as a chain of templates: each template knows
   the parameters of one operator (a predicate, an order by, the relation a boundary
   belongs to) and the template of its source, but not yet which columns it must produce.
2. Resolve
   Resolving the root template with the columns the caller needs materializes the
   operator tree top down. Every operator asks its source for exactly the columns
   it needs itself, so columns nobody reads are never collected. Relation boundaries
   translate the fields of their relation into expressions of the relation's sources
   on the way down and record that translation in their expression mapping.
3. Collapse & Build
   TryCollapse merges operators bottom up where a simpler equivalent exists,
   and Build compiles the tree into an engine.Plan. Expressions are rewritten
   through the source's expression mapping and then bound to input positions.
*/
package operators

import (
	"github.com/yiguolei/crate/go/planner/relations"
	"github.com/yiguolei/crate/go/planner/stats"
	"github.com/yiguolei/crate/go/planner/symbol"
)

type (
	// LogicalPlan is an immutable node of the logical operator tree.
	LogicalPlan interface {
		// Outputs are the expressions this operator produces, in order.
		// They are expressed in the scope of the operator's source, see ExpressionMapping.
		Outputs() []symbol.Symbol

		// ExpressionMapping translates symbols of the scopes above this operator into
		// symbols of the scopes below. It contains the mappings of all inputs.
		ExpressionMapping() *symbol.Map

		// BaseTables are the tables read by this subtree.
		BaseTables() []*relations.TableRelation

		// NumExpectedRows is the estimated row count, or -1 when unknown.
		NumExpectedRows() int64

		Inputs() []LogicalPlan

		ShortDescription() string

		// clone returns a copy of the operator reading from the given inputs
		clone(inputs []LogicalPlan) LogicalPlan
	}

	// Template holds the parameters of an operator until the columns it must
	// produce are known.
	Template interface {
		// Resolve creates the operator. It resolves the source template exactly once.
		Resolve(rc ResolveContext) (LogicalPlan, error)
	}

	// ResolveContext is what a template needs to know to create its operator.
	ResolveContext struct {
		Stats *stats.TableStats
		// Used are the expressions the parent reads from the operator.
		Used []symbol.Symbol
	}

	// unaryOperator implements the accessors that pass through to a single source
	unaryOperator struct {
		Source LogicalPlan
	}
)

// NoLimit is passed to Build when no limit applies.
const NoLimit = -1

func (rc ResolveContext) withUsed(used []symbol.Symbol) ResolveContext {
	return ResolveContext{Stats: rc.Stats, Used: used}
}

func (u unaryOperator) Inputs() []LogicalPlan {
	return []LogicalPlan{u.Source}
}

func (u unaryOperator) Outputs() []symbol.Symbol {
	return u.Source.Outputs()
}

func (u unaryOperator) ExpressionMapping() *symbol.Map {
	return u.Source.ExpressionMapping()
}

func (u unaryOperator) BaseTables() []*relations.TableRelation {
	return u.Source.BaseTables()
}

func (u unaryOperator) NumExpectedRows() int64 {
	return u.Source.NumExpectedRows()
}

// union returns the distinct symbols of both lists in order.
func union(a []symbol.Symbol, b ...symbol.Symbol) []symbol.Symbol {
	set := symbol.NewSet(a...)
	for _, s := range b {
		set.Add(s)
	}
	return set.Slice()
}

// Visit walks the tree top down, parents before their inputs.
func Visit(root LogicalPlan, visitor func(LogicalPlan) error) error {
	queue := []LogicalPlan{root}
	for len(queue) > 0 {
		this := queue[0]
		queue = append(queue[1:], this.Inputs()...)
		if err := visitor(this); err != nil {
			return err
		}
	}
	return nil
}
