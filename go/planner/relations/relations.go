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

// Package relations holds the output of semantic analysis that the planner
// consumes: base tables, queried relations and their query specs.
package relations

import (
	"fmt"

	"github.com/yiguolei/crate/go/planner/symbol"
)

type (
	// TableIdent names a table inside a schema.
	TableIdent struct {
		Schema, Name string
	}

	// AnalyzedRelation is anything that can appear in a FROM clause.
	AnalyzedRelation interface {
		symbol.Relation
		// Fields are the output columns of the relation, in order.
		Fields() []*symbol.Field
	}

	// QueriedRelation is a relation defined by a query spec.
	QueriedRelation interface {
		AnalyzedRelation
		QuerySpec() *QuerySpec
		// Sources are the relations the query reads from.
		Sources() []AnalyzedRelation
	}

	// TableRelation is a base table.
	TableRelation struct {
		id      symbol.RelationID
		Ident   TableIdent
		columns []*symbol.Reference
	}

	// QueriedTable is a select over exactly one base table.
	QueriedTable struct {
		id     symbol.RelationID
		name   string
		table  *TableRelation
		spec   *QuerySpec
		fields []*symbol.Field
	}

	// QueriedSelect is a select over other relations: sub-selects, views or joins.
	QueriedSelect struct {
		id        symbol.RelationID
		name      string
		sources   []AnalyzedRelation
		joinPairs []JoinPair
		spec      *QuerySpec
		fields    []*symbol.Field
	}

	// JoinPair describes how the source at the same position plus one is joined
	// to the sources before it.
	JoinPair struct {
		Type      JoinType
		Condition symbol.Symbol
	}

	JoinType int8

	// Column is used to declare the columns of a table.
	Column struct {
		Name string
		Type symbol.DataType
	}
)

const (
	CrossJoin JoinType = iota
	InnerJoin
	LeftJoin
	RightJoin
	FullJoin
)

var (
	_ QueriedRelation  = (*QueriedTable)(nil)
	_ QueriedRelation  = (*QueriedSelect)(nil)
	_ AnalyzedRelation = (*TableRelation)(nil)
)

func (t TableIdent) FQN() string {
	if t.Schema == "" {
		return "doc." + t.Name
	}
	return t.Schema + "." + t.Name
}

func (t TableIdent) String() string {
	return t.FQN()
}

func (j JoinType) String() string {
	switch j {
	case CrossJoin:
		return "CROSS"
	case InnerJoin:
		return "INNER"
	case LeftJoin:
		return "LEFT"
	case RightJoin:
		return "RIGHT"
	case FullJoin:
		return "FULL"
	}
	return fmt.Sprintf("JoinType(%d)", int8(j))
}

// NewTableRelation creates a base table with the given columns.
func NewTableRelation(id symbol.RelationID, ident TableIdent, columns ...Column) *TableRelation {
	t := &TableRelation{id: id, Ident: ident}
	for _, col := range columns {
		t.columns = append(t.columns, &symbol.Reference{
			Relation: id,
			Table:    ident.FQN(),
			Column:   col.Name,
			Type:     col.Type,
		})
	}
	return t
}

func (t *TableRelation) ID() symbol.RelationID { return t.id }
func (t *TableRelation) Name() string          { return t.Ident.FQN() }

// Columns returns the references to all columns of the table.
func (t *TableRelation) Columns() []*symbol.Reference {
	return t.columns
}

// Column looks up a column by name.
func (t *TableRelation) Column(name string) (*symbol.Reference, bool) {
	for _, col := range t.columns {
		if col.Column == name {
			return col, true
		}
	}
	return nil, false
}

func (t *TableRelation) Fields() []*symbol.Field {
	fields := make([]*symbol.Field, len(t.columns))
	for i, col := range t.columns {
		fields[i] = &symbol.Field{Relation: t.id, RelationName: t.Name(), Index: i, Name: col.Column, Type: col.Type}
	}
	return fields
}

func newFields(id symbol.RelationID, name string, spec *QuerySpec, names []string) []*symbol.Field {
	fields := make([]*symbol.Field, len(spec.Outputs))
	for i, out := range spec.Outputs {
		fieldName := out.String()
		if i < len(names) && names[i] != "" {
			fieldName = names[i]
		}
		fields[i] = &symbol.Field{Relation: id, RelationName: name, Index: i, Name: fieldName, Type: out.ValueType()}
	}
	return fields
}

// NewQueriedTable creates a select over a single table. The i-th field is named
// after names[i], or after the output expression when no name is given.
func NewQueriedTable(id symbol.RelationID, name string, table *TableRelation, spec *QuerySpec, names ...string) *QueriedTable {
	return &QueriedTable{
		id:     id,
		name:   name,
		table:  table,
		spec:   spec,
		fields: newFields(id, name, spec, names),
	}
}

func (q *QueriedTable) ID() symbol.RelationID       { return q.id }
func (q *QueriedTable) Name() string                { return q.name }
func (q *QueriedTable) Fields() []*symbol.Field     { return q.fields }
func (q *QueriedTable) QuerySpec() *QuerySpec       { return q.spec }
func (q *QueriedTable) Table() *TableRelation       { return q.table }
func (q *QueriedTable) Sources() []AnalyzedRelation { return []AnalyzedRelation{q.table} }

// NewQueriedSelect creates a select over other relations. joinPairs[i] joins
// sources[i+1] to the sources before it; missing pairs are cross joins.
func NewQueriedSelect(id symbol.RelationID, name string, sources []AnalyzedRelation, joinPairs []JoinPair, spec *QuerySpec, names ...string) *QueriedSelect {
	return &QueriedSelect{
		id:        id,
		name:      name,
		sources:   sources,
		joinPairs: joinPairs,
		spec:      spec,
		fields:    newFields(id, name, spec, names),
	}
}

func (q *QueriedSelect) ID() symbol.RelationID       { return q.id }
func (q *QueriedSelect) Name() string                { return q.name }
func (q *QueriedSelect) Fields() []*symbol.Field     { return q.fields }
func (q *QueriedSelect) QuerySpec() *QuerySpec       { return q.spec }
func (q *QueriedSelect) Sources() []AnalyzedRelation { return q.sources }

// JoinPair returns how the source at position idx is joined to the ones before it.
func (q *QueriedSelect) JoinPair(idx int) JoinPair {
	if idx < 1 || idx-1 >= len(q.joinPairs) {
		return JoinPair{Type: CrossJoin}
	}
	return q.joinPairs[idx-1]
}

// FieldSymbols returns the fields of rel as symbols.
func FieldSymbols(rel AnalyzedRelation) []symbol.Symbol {
	fields := rel.Fields()
	res := make([]symbol.Symbol, len(fields))
	for i, f := range fields {
		res[i] = f
	}
	return res
}
