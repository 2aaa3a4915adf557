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
	"slices"
	"strings"

	"github.com/yiguolei/crate/go/planner/symbol"
)

// QuerySpec is the analyzed form of a select. Every clause except Outputs is optional.
type QuerySpec struct {
	Outputs []symbol.Symbol
	Where   symbol.Symbol
	GroupBy []symbol.Symbol
	Having  symbol.Symbol
	OrderBy *OrderBy
	Limit   symbol.Symbol
	Offset  symbol.Symbol
}

// OrderBy is a list of sort keys. Reverse and NullsFirst are aligned with Items.
type OrderBy struct {
	Items      []symbol.Symbol
	Reverse    []bool
	NullsFirst []bool
}

// NewOrderBy sorts ascending on all items with nulls last.
func NewOrderBy(items ...symbol.Symbol) *OrderBy {
	return &OrderBy{
		Items:      items,
		Reverse:    make([]bool, len(items)),
		NullsFirst: make([]bool, len(items)),
	}
}

// Map returns a copy of the order by with every item passed through fn.
func (o *OrderBy) Map(fn func(symbol.Symbol) symbol.Symbol) *OrderBy {
	if o == nil {
		return nil
	}
	items := make([]symbol.Symbol, len(o.Items))
	for i, item := range o.Items {
		items[i] = fn(item)
	}
	return &OrderBy{Items: items, Reverse: o.Reverse, NullsFirst: o.NullsFirst}
}

// Equal reports whether both order bys sort on the same items in the same
// directions. Two nil order bys are equal.
func (o *OrderBy) Equal(other *OrderBy) bool {
	if o == nil || other == nil {
		return o == other
	}
	return symbol.EqualLists(o.Items, other.Items) &&
		slices.Equal(o.Reverse, other.Reverse) &&
		slices.Equal(o.NullsFirst, other.NullsFirst)
}

func (o *OrderBy) String() string {
	if o == nil {
		return ""
	}
	parts := make([]string, len(o.Items))
	for i, item := range o.Items {
		var b strings.Builder
		b.WriteString(item.String())
		if i < len(o.Reverse) && o.Reverse[i] {
			b.WriteString(" DESC")
		} else {
			b.WriteString(" ASC")
		}
		if i < len(o.NullsFirst) && o.NullsFirst[i] {
			b.WriteString(" NULLS FIRST")
		}
		parts[i] = b.String()
	}
	return strings.Join(parts, ", ")
}

// HasAggregates returns true if the spec groups or calls aggregate functions.
func (qs *QuerySpec) HasAggregates() bool {
	if len(qs.GroupBy) > 0 {
		return true
	}
	return symbol.ContainsAggregate(qs.aggregationScope()...)
}

// Aggregates returns the distinct aggregate calls of outputs, having and order by.
func (qs *QuerySpec) Aggregates() []symbol.Symbol {
	return symbol.Aggregates(qs.aggregationScope()...)
}

func (qs *QuerySpec) aggregationScope() []symbol.Symbol {
	res := append([]symbol.Symbol{}, qs.Outputs...)
	if qs.Having != nil {
		res = append(res, qs.Having)
	}
	if qs.OrderBy != nil {
		res = append(res, qs.OrderBy.Items...)
	}
	return res
}

// Symbols returns every expression of the spec in clause order.
func (qs *QuerySpec) Symbols() []symbol.Symbol {
	res := append([]symbol.Symbol{}, qs.Outputs...)
	for _, s := range []symbol.Symbol{qs.Where, qs.Having, qs.Limit, qs.Offset} {
		if s != nil {
			res = append(res, s)
		}
	}
	res = append(res, qs.GroupBy...)
	if qs.OrderBy != nil {
		res = append(res, qs.OrderBy.Items...)
	}
	return res
}

// Subqueries returns the distinct subquery expressions of all clauses, in
// order of appearance. Nested specs are not entered.
func (qs *QuerySpec) Subqueries() []*symbol.SelectSymbol {
	return symbol.SelectSymbols(qs.Symbols()...)
}
