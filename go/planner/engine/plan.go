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

// Package engine contains the physical plans the logical operators compile to.
// Physical plans are descriptions only: expressions above a Collect refer to
// the columns of their input by position (symbol.InputColumn) and subquery
// results by bind key (symbol.ParameterSymbol).
package engine

import (
	"github.com/yiguolei/crate/go/planner/relations"
	"github.com/yiguolei/crate/go/planner/symbol"
)

// NoLimit is used for the limit of plans that return all rows.
const NoLimit = -1

// Plan is a node of a physical plan.
type Plan interface {
	// Inputs returns the input plans of this node
	Inputs() []Plan

	// NumColumns is the number of columns of the rows this node produces
	NumColumns() int

	description() PlanDescription
}

type (
	// Collect reads the given columns from all shards of a table.
	Collect struct {
		Table   string
		Columns []symbol.Symbol
		// Where may contain parameters bound by a MultiPhase plan.
		Where symbol.Symbol

		// Limit and Offset are pushed down to each shard. Limit is NoLimit when unlimited.
		Limit, Offset int
		// Order is only set when each shard can pre-sort its rows.
		Order *relations.OrderBy
		// PageSizeHint is the suggested batch size; 0 means no hint.
		PageSizeHint int

		EstimatedRows int64
	}

	// Filter drops the rows for which Predicate is not true.
	Filter struct {
		Input     Plan
		Predicate symbol.Symbol
	}

	// Eval computes a new row out of every input row.
	Eval struct {
		Input Plan
		Exprs []symbol.Symbol
	}

	// Sort sorts the input rows.
	Sort struct {
		Input Plan
		Order *relations.OrderBy
	}

	// Limit skips Offset rows and returns at most Count of the remaining ones.
	Limit struct {
		Input  Plan
		Count  symbol.Symbol
		Offset symbol.Symbol
	}

	// Join produces rows of the left columns followed by the right columns.
	Join struct {
		Left, Right Plan
		Type        relations.JoinType
		// Condition reads from the concatenated row.
		Condition symbol.Symbol
	}

	// Aggregate groups its input. Without group keys it returns exactly one row.
	Aggregate struct {
		Input      Plan
		GroupKeys  []symbol.Symbol
		Aggregates []symbol.Symbol
	}
)

var (
	_ Plan = (*Collect)(nil)
	_ Plan = (*Filter)(nil)
	_ Plan = (*Eval)(nil)
	_ Plan = (*Sort)(nil)
	_ Plan = (*Limit)(nil)
	_ Plan = (*Join)(nil)
	_ Plan = (*Aggregate)(nil)
	_ Plan = (*MultiPhase)(nil)
)

func (c *Collect) Inputs() []Plan   { return nil }
func (f *Filter) Inputs() []Plan    { return []Plan{f.Input} }
func (e *Eval) Inputs() []Plan      { return []Plan{e.Input} }
func (s *Sort) Inputs() []Plan      { return []Plan{s.Input} }
func (l *Limit) Inputs() []Plan     { return []Plan{l.Input} }
func (j *Join) Inputs() []Plan      { return []Plan{j.Left, j.Right} }
func (a *Aggregate) Inputs() []Plan { return []Plan{a.Input} }

func (c *Collect) NumColumns() int   { return len(c.Columns) }
func (f *Filter) NumColumns() int    { return f.Input.NumColumns() }
func (e *Eval) NumColumns() int      { return len(e.Exprs) }
func (s *Sort) NumColumns() int      { return s.Input.NumColumns() }
func (l *Limit) NumColumns() int     { return l.Input.NumColumns() }
func (j *Join) NumColumns() int      { return j.Left.NumColumns() + j.Right.NumColumns() }
func (a *Aggregate) NumColumns() int { return len(a.GroupKeys) + len(a.Aggregates) }

func (c *Collect) description() PlanDescription {
	other := map[string]any{
		"Columns": symbol.Strings(c.Columns),
	}
	if c.Where != nil {
		other["Where"] = c.Where.String()
	}
	if c.Limit != NoLimit {
		other["Limit"] = c.Limit
	}
	if c.Offset > 0 {
		other["Offset"] = c.Offset
	}
	if c.Order != nil {
		other["Order"] = c.Order.String()
	}
	if c.PageSizeHint > 0 {
		other["PageSizeHint"] = c.PageSizeHint
	}
	if c.EstimatedRows >= 0 {
		other["EstimatedRows"] = c.EstimatedRows
	}
	return PlanDescription{OperatorType: "Collect", Variant: c.Table, Other: other}
}

func (f *Filter) description() PlanDescription {
	return PlanDescription{
		OperatorType: "Filter",
		Other:        map[string]any{"Predicate": f.Predicate.String()},
	}
}

func (e *Eval) description() PlanDescription {
	return PlanDescription{
		OperatorType: "Eval",
		Other:        map[string]any{"Exprs": symbol.Strings(e.Exprs)},
	}
}

func (s *Sort) description() PlanDescription {
	return PlanDescription{
		OperatorType: "Sort",
		Other:        map[string]any{"Order": s.Order.String()},
	}
}

func (l *Limit) description() PlanDescription {
	other := map[string]any{}
	if l.Count != nil {
		other["Count"] = l.Count.String()
	}
	if l.Offset != nil {
		other["Offset"] = l.Offset.String()
	}
	return PlanDescription{OperatorType: "Limit", Other: other}
}

func (j *Join) description() PlanDescription {
	var other map[string]any
	if j.Condition != nil {
		other = map[string]any{"Condition": j.Condition.String()}
	}
	return PlanDescription{OperatorType: "Join", Variant: j.Type.String(), Other: other}
}

func (a *Aggregate) description() PlanDescription {
	variant := "Grouped"
	if len(a.GroupKeys) == 0 {
		variant = "Scalar"
	}
	other := map[string]any{"Aggregates": symbol.Strings(a.Aggregates)}
	if len(a.GroupKeys) > 0 {
		other["GroupKeys"] = symbol.Strings(a.GroupKeys)
	}
	return PlanDescription{OperatorType: "Aggregate", Variant: variant, Other: other}
}
