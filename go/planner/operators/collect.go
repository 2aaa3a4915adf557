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
	"strings"

	"github.com/yiguolei/crate/go/planerrors"
	"github.com/yiguolei/crate/go/planner/engine"
	"github.com/yiguolei/crate/go/planner/relations"
	"github.com/yiguolei/crate/go/planner/rewrite"
	"github.com/yiguolei/crate/go/planner/stats"
	"github.com/yiguolei/crate/go/planner/symbol"
)

// Collect reads columns of a base table, optionally filtered.
type Collect struct {
	Table *relations.TableRelation
	// Where is nil when all rows match.
	Where symbol.Symbol

	outputs       []symbol.Symbol
	estimatedRows int64
}

type CollectTemplate struct {
	Table *relations.TableRelation
	Where symbol.Symbol
}

var _ LogicalPlan = (*Collect)(nil)

func CreateCollect(table *relations.TableRelation, where symbol.Symbol) *CollectTemplate {
	return &CollectTemplate{Table: table, Where: where}
}

// Resolve collects the column leaves of the used expressions. Every leaf must
// be a column of the table.
func (t *CollectTemplate) Resolve(rc ResolveContext) (LogicalPlan, error) {
	cols := rewrite.ExtractColumns(rc.Used)
	for _, col := range cols {
		ref, ok := col.(*symbol.Reference)
		if !ok || ref.Relation != t.Table.ID() {
			return nil, planerrors.UnresolvedColumn(col, t.Table.Name())
		}
	}
	estimate := int64(stats.Unknown)
	if rc.Stats != nil {
		estimate = rc.Stats.NumDocs(t.Table.Ident)
	}
	return &Collect{
		Table:         t.Table,
		Where:         t.Where,
		outputs:       cols,
		estimatedRows: estimate,
	}, nil
}

func (c *Collect) Outputs() []symbol.Symbol {
	return c.outputs
}

// ExpressionMapping is empty, the outputs are the table's own columns.
func (c *Collect) ExpressionMapping() *symbol.Map {
	return nil
}

func (c *Collect) BaseTables() []*relations.TableRelation {
	return []*relations.TableRelation{c.Table}
}

func (c *Collect) NumExpectedRows() int64 {
	return c.estimatedRows
}

func (c *Collect) Inputs() []LogicalPlan {
	return nil
}

func (c *Collect) clone([]LogicalPlan) LogicalPlan {
	klone := *c
	return &klone
}

// withWhere returns a copy that also applies query.
func (c *Collect) withWhere(query symbol.Symbol) *Collect {
	klone := *c
	klone.Where = symbol.And(c.Where, query)
	return &klone
}

func (c *Collect) ShortDescription() string {
	var b strings.Builder
	b.WriteString(c.Table.Name())
	b.WriteString(" [" + strings.Join(symbol.Strings(c.outputs), ", ") + "]")
	if c.Where != nil {
		b.WriteString(" where " + c.Where.String())
	}
	return b.String()
}

func (c *Collect) build(pb *engine.ProjectionBuilder, limit, offset int, order *relations.OrderBy, pageSizeHint int) *engine.Collect {
	plan := &engine.Collect{
		Table:         c.Table.Name(),
		Columns:       c.outputs,
		Where:         pb.Parameterize(c.Where),
		Limit:         limit,
		Offset:        offset,
		PageSizeHint:  pageSizeHint,
		EstimatedRows: c.estimatedRows,
	}
	if c.canPreSort(order) {
		plan.Order = order
	}
	return plan
}

// canPreSort is true when every order by item only reads columns of this table.
func (c *Collect) canPreSort(order *relations.OrderBy) bool {
	if order == nil || len(symbol.SelectSymbols(order.Items...)) > 0 {
		return false
	}
	for _, col := range rewrite.ExtractColumns(order.Items) {
		ref, ok := col.(*symbol.Reference)
		if !ok || ref.Relation != c.Table.ID() {
			return false
		}
	}
	return true
}
