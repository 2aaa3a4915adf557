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

package engine

import (
	"github.com/yiguolei/crate/go/planerrors"
	"github.com/yiguolei/crate/go/planner/relations"
	"github.com/yiguolei/crate/go/planner/rewrite"
	"github.com/yiguolei/crate/go/planner/symbol"
)

// ProjectionBuilder converts expressions of the logical plan into expressions
// that read from an input row. It holds no state and may be shared.
type ProjectionBuilder struct{}

func NewProjectionBuilder() *ProjectionBuilder {
	return &ProjectionBuilder{}
}

// inputPositions maps every input symbol to the column it is read from.
// The first occurrence of a duplicated input wins.
func inputPositions(inputs []symbol.Symbol) *symbol.Map {
	m := symbol.NewMap(len(inputs))
	for i, in := range inputs {
		if !m.Contains(in) {
			m.Put(in, &symbol.InputColumn{Index: i, Type: in.ValueType()})
		}
	}
	return m
}

func parameter(sel *symbol.SelectSymbol) *symbol.ParameterSymbol {
	return &symbol.ParameterSymbol{Key: sel.BindKey(), Type: sel.ValueType()}
}

// InputColumns rewrites exprs to read from rows laid out like inputs. The
// largest matching sub-expression is used, so an input `x + 1` serves the
// expression `(x + 1) * 2`. Subquery expressions become parameters. A column
// that is neither an input nor part of one is an error.
func (pb *ProjectionBuilder) InputColumns(inputs []symbol.Symbol, exprs ...symbol.Symbol) ([]symbol.Symbol, error) {
	positions := inputPositions(inputs)
	res := make([]symbol.Symbol, len(exprs))
	for i, expr := range exprs {
		converted := symbol.Rewrite(expr, func(node symbol.Symbol) (symbol.Symbol, bool) {
			if ic, ok := positions.Get(node); ok {
				return ic, true
			}
			if sel, ok := node.(*symbol.SelectSymbol); ok {
				return parameter(sel), true
			}
			return nil, false
		})
		if err := checkResolved(converted, expr); err != nil {
			return nil, err
		}
		res[i] = converted
	}
	return res, nil
}

// InputColumn is InputColumns for a single expression. A nil expression stays nil.
func (pb *ProjectionBuilder) InputColumn(inputs []symbol.Symbol, expr symbol.Symbol) (symbol.Symbol, error) {
	if expr == nil {
		return nil, nil
	}
	res, err := pb.InputColumns(inputs, expr)
	if err != nil {
		return nil, err
	}
	return res[0], nil
}

// OrderBy converts the order by items, keeping the sort directions.
func (pb *ProjectionBuilder) OrderBy(inputs []symbol.Symbol, order *relations.OrderBy) (*relations.OrderBy, error) {
	if order == nil {
		return nil, nil
	}
	items, err := pb.InputColumns(inputs, order.Items...)
	if err != nil {
		return nil, err
	}
	return &relations.OrderBy{Items: items, Reverse: order.Reverse, NullsFirst: order.NullsFirst}, nil
}

// Parameterize replaces the subquery expressions of expr with parameters and
// keeps the columns. It is used for expressions that are evaluated where the
// columns are read.
func (pb *ProjectionBuilder) Parameterize(expr symbol.Symbol) symbol.Symbol {
	return symbol.Rewrite(expr, func(node symbol.Symbol) (symbol.Symbol, bool) {
		if sel, ok := node.(*symbol.SelectSymbol); ok {
			return parameter(sel), true
		}
		return nil, false
	})
}

func checkResolved(converted, original symbol.Symbol) error {
	var missing symbol.Symbol
	symbol.Walk(converted, func(node symbol.Symbol) bool {
		if missing == nil && rewrite.IsColumn(node) {
			missing = node
		}
		return missing == nil
	})
	if missing != nil {
		return planerrors.UnresolvedColumn(missing, original.String())
	}
	return nil
}
