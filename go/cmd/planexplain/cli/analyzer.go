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

package cli

import (
	"fmt"
	"math"
	"strings"

	"google.golang.org/grpc/codes"
	"gopkg.in/yaml.v3"

	"github.com/yiguolei/crate/go/metadata/views"
	"github.com/yiguolei/crate/go/planerrors"
	"github.com/yiguolei/crate/go/planner/relations"
	"github.com/yiguolei/crate/go/planner/symbol"
)

// analyzer turns the query of a fixture into analyzed relations.
type analyzer struct {
	tables map[relations.TableIdent]TableDef
	views  *views.Views
	lastID symbol.RelationID
	// scopes are the sources visible to the expression being analyzed,
	// innermost last.
	scopes []*scope
}

type scope struct {
	sources []source
}

type source struct {
	alias string
	rel   relations.AnalyzedRelation
}

// Analyze returns the relation of the fixture's query.
func Analyze(fx *Fixture) (relations.QueriedRelation, error) {
	stored, err := fx.StoredViews()
	if err != nil {
		return nil, err
	}
	a := &analyzer{tables: map[relations.TableIdent]TableDef{}, views: stored}
	for _, t := range fx.Tables {
		ident := parseIdent(t.Name)
		if _, ok := a.tables[ident]; ok {
			return nil, planerrors.NewErrorf(codes.InvalidArgument, planerrors.BadTableError, "table %s is declared twice", ident)
		}
		a.tables[ident] = t
	}
	name := fx.Query.Name
	if name == "" {
		name = "q"
	}
	return a.query(fx.Query, name)
}

func (a *analyzer) nextID() symbol.RelationID {
	a.lastID++
	return a.lastID
}

func (a *analyzer) query(q *QueryDef, name string) (relations.QueriedRelation, error) {
	id := a.nextID()
	if len(q.From) == 0 {
		return nil, planerrors.Errorf(codes.InvalidArgument, "%s has no sources", name)
	}
	if len(q.Joins) > len(q.From)-1 {
		return nil, planerrors.Errorf(codes.InvalidArgument, "%s has %d joins for %d sources", name, len(q.Joins), len(q.From))
	}

	sc := &scope{}
	for _, from := range q.From {
		src, err := a.source(from)
		if err != nil {
			return nil, err
		}
		for _, other := range sc.sources {
			if other.alias == src.alias {
				return nil, planerrors.NewErrorf(codes.InvalidArgument, planerrors.DupFieldName, "Not unique table/alias: '%s'", src.alias)
			}
		}
		sc.sources = append(sc.sources, src)
	}

	a.scopes = append(a.scopes, sc)
	defer func() { a.scopes = a.scopes[:len(a.scopes)-1] }()

	spec, names, err := a.querySpec(q)
	if err != nil {
		return nil, err
	}

	if len(sc.sources) == 1 {
		if table, ok := sc.sources[0].rel.(*relations.TableRelation); ok {
			return relations.NewQueriedTable(id, name, table, spec, names...), nil
		}
	}
	rels := make([]relations.AnalyzedRelation, len(sc.sources))
	for i, src := range sc.sources {
		rels[i] = src.rel
	}
	pairs := make([]relations.JoinPair, len(sc.sources)-1)
	for i := range pairs {
		pairs[i] = relations.JoinPair{Type: relations.CrossJoin}
		if i >= len(q.Joins) {
			continue
		}
		if pairs[i], err = a.joinPair(q.Joins[i]); err != nil {
			return nil, err
		}
	}
	return relations.NewQueriedSelect(id, name, rels, pairs, spec, names...), nil
}

func (a *analyzer) querySpec(q *QueryDef) (*relations.QuerySpec, []string, error) {
	if len(q.Select) == 0 {
		return nil, nil, planerrors.New(codes.InvalidArgument, "select list is empty")
	}
	spec := &relations.QuerySpec{}
	names := make([]string, len(q.Select))
	for i, item := range q.Select {
		out, err := a.expr(item.Expr)
		if err != nil {
			return nil, nil, err
		}
		spec.Outputs = append(spec.Outputs, out)
		names[i] = outputName(item, out)
	}

	var err error
	if spec.Where, err = a.optionalExpr(q.Where); err != nil {
		return nil, nil, err
	}
	for _, key := range q.GroupBy {
		sym, err := a.expr(key)
		if err != nil {
			return nil, nil, err
		}
		spec.GroupBy = append(spec.GroupBy, sym)
	}
	if spec.Having, err = a.optionalExpr(q.Having); err != nil {
		return nil, nil, err
	}
	if len(q.OrderBy) > 0 {
		spec.OrderBy = &relations.OrderBy{}
		for _, item := range q.OrderBy {
			sym, err := a.expr(item.Expr)
			if err != nil {
				return nil, nil, err
			}
			spec.OrderBy.Items = append(spec.OrderBy.Items, sym)
			spec.OrderBy.Reverse = append(spec.OrderBy.Reverse, item.Desc)
			spec.OrderBy.NullsFirst = append(spec.OrderBy.NullsFirst, item.NullsFirst)
		}
	}
	if spec.Limit, err = a.optionalExpr(q.Limit); err != nil {
		return nil, nil, err
	}
	if spec.Offset, err = a.optionalExpr(q.Offset); err != nil {
		return nil, nil, err
	}
	return spec, names, nil
}

func outputName(item SelectItem, out symbol.Symbol) string {
	if item.Alias != "" {
		return item.Alias
	}
	if item.Expr.Column != "" {
		_, col := splitColumn(item.Expr.Column)
		return col
	}
	return out.String()
}

func (a *analyzer) joinPair(j JoinDef) (relations.JoinPair, error) {
	var pair relations.JoinPair
	switch strings.ToLower(j.Type) {
	case "", "cross":
		pair.Type = relations.CrossJoin
	case "inner":
		pair.Type = relations.InnerJoin
	case "left":
		pair.Type = relations.LeftJoin
	case "right":
		pair.Type = relations.RightJoin
	case "full":
		pair.Type = relations.FullJoin
	default:
		return pair, planerrors.Errorf(codes.InvalidArgument, "unknown join type %q", j.Type)
	}
	cond, err := a.optionalExpr(j.On)
	if err != nil {
		return pair, err
	}
	if pair.Type != relations.CrossJoin && cond == nil {
		return pair, planerrors.Errorf(codes.InvalidArgument, "%s join without condition", pair.Type)
	}
	pair.Condition = cond
	return pair, nil
}

func (a *analyzer) source(from FromDef) (source, error) {
	switch {
	case from.Table != "" && from.View == "" && from.Select == nil:
		ident := parseIdent(from.Table)
		def, ok := a.tables[ident]
		if !ok {
			return source{}, planerrors.NewErrorf(codes.NotFound, planerrors.NoSuchTable, "Table '%s' doesn't exist", ident)
		}
		cols := make([]relations.Column, len(def.Columns))
		for i, col := range def.Columns {
			typ, ok := symbol.ParseDataType(col.Type)
			if !ok {
				return source{}, planerrors.Errorf(codes.InvalidArgument, "column %s.%s has unknown type %q", ident, col.Name, col.Type)
			}
			cols[i] = relations.Column{Name: col.Name, Type: typ}
		}
		return source{alias: aliasOr(from.Alias, ident.Name), rel: relations.NewTableRelation(a.nextID(), ident, cols...)}, nil

	case from.View != "" && from.Table == "" && from.Select == nil:
		ident := parseIdent(from.View)
		rel, err := a.view(ident)
		if err != nil {
			return source{}, err
		}
		return source{alias: aliasOr(from.Alias, ident.Name), rel: rel}, nil

	case from.Select != nil && from.Table == "" && from.View == "":
		if from.Alias == "" {
			return source{}, planerrors.New(codes.InvalidArgument, "every derived table must have its own alias")
		}
		rel, err := a.query(from.Select, from.Alias)
		if err != nil {
			return source{}, err
		}
		return source{alias: from.Alias, rel: rel}, nil
	}
	return source{}, planerrors.New(codes.InvalidArgument, "a source must have exactly one of table, view or select")
}

// view analyzes the stored statement of a view. Views cannot see the
// columns of the query that uses them.
func (a *analyzer) view(ident relations.TableIdent) (relations.QueriedRelation, error) {
	stmt, ok := a.views.Statement(ident)
	if !ok {
		return nil, planerrors.NewErrorf(codes.NotFound, planerrors.NoSuchView, "View '%s' doesn't exist", ident)
	}
	var q QueryDef
	if err := yaml.Unmarshal([]byte(stmt), &q); err != nil {
		return nil, planerrors.Errorf(codes.DataLoss, "view %s: %v", ident, err)
	}
	outer := a.scopes
	a.scopes = nil
	defer func() { a.scopes = outer }()
	return a.query(&q, ident.FQN())
}

func aliasOr(alias, name string) string {
	if alias != "" {
		return alias
	}
	return name
}

func (a *analyzer) optionalExpr(e *Expr) (symbol.Symbol, error) {
	if e == nil {
		return nil, nil
	}
	return a.expr(e)
}

func (a *analyzer) expr(e *Expr) (symbol.Symbol, error) {
	if e == nil {
		return nil, planerrors.New(codes.InvalidArgument, "missing expression")
	}
	switch {
	case e.Column != "":
		return a.column(e.Column)
	case e.Func != "" || e.Agg != "":
		return a.function(e)
	case e.Subquery != nil:
		return a.subquery(e)
	case e.Param != "":
		typ, err := parseType(e.Type, symbol.Undefined)
		if err != nil {
			return nil, err
		}
		return &symbol.ParameterSymbol{Key: e.Param, Type: typ}, nil
	}
	return literal(e.Literal), nil
}

func (a *analyzer) function(e *Expr) (symbol.Symbol, error) {
	args := make([]symbol.Symbol, len(e.Args))
	for i, arg := range e.Args {
		sym, err := a.expr(arg)
		if err != nil {
			return nil, err
		}
		args[i] = sym
	}
	name := e.Func
	if e.Agg != "" {
		name = e.Agg
	}
	typ, err := parseType(e.Type, defaultReturnType(name, args))
	if err != nil {
		return nil, err
	}
	if e.Agg != "" {
		return symbol.NewAggregate(name, typ, args...), nil
	}
	return symbol.NewFunction(name, typ, args...), nil
}

// defaultReturnType is used for functions without a declared type.
func defaultReturnType(name string, args []symbol.Symbol) symbol.DataType {
	switch {
	case strings.HasPrefix(name, "op_"), name == "and", name == "or", name == "not":
		return symbol.Boolean
	case name == "count":
		return symbol.Long
	case len(args) > 0:
		return args[0].ValueType()
	}
	return symbol.Undefined
}

func parseType(name string, def symbol.DataType) (symbol.DataType, error) {
	if name == "" {
		return def, nil
	}
	typ, ok := symbol.ParseDataType(name)
	if !ok {
		return symbol.Undefined, planerrors.Errorf(codes.InvalidArgument, "unknown type %q", name)
	}
	return typ, nil
}

func (a *analyzer) subquery(e *Expr) (symbol.Symbol, error) {
	name := e.Subquery.Name
	if name == "" {
		name = fmt.Sprintf("subquery%d", a.lastID+1)
	}
	rel, err := a.query(e.Subquery, name)
	if err != nil {
		return nil, err
	}
	outputs := rel.QuerySpec().Outputs
	if len(outputs) != 1 {
		return nil, planerrors.NewErrorf(codes.FailedPrecondition, planerrors.OperandColumns, "Operand should contain 1 column(s)")
	}
	resultType := symbol.SingleValue
	if e.Values {
		resultType = symbol.MultipleValues
	}
	return &symbol.SelectSymbol{Relation: rel, ResultType: resultType, Type: outputs[0].ValueType()}, nil
}

// literal converts a value decoded from YAML. Whole numbers become integers.
func literal(v any) symbol.Symbol {
	switch v := v.(type) {
	case int:
		return symbol.NewLiteral(int64(v))
	case uint64:
		if v <= math.MaxInt64 {
			return symbol.NewLiteral(int64(v))
		}
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
			return symbol.NewLiteral(int64(v))
		}
	}
	return symbol.NewLiteral(v)
}

func splitColumn(name string) (qualifier, column string) {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}

// column resolves name, optionally qualified by a source alias, against the
// innermost scope that knows it. Columns of enclosing queries make a
// subquery correlated.
func (a *analyzer) column(name string) (symbol.Symbol, error) {
	qualifier, column := splitColumn(name)
	for i := len(a.scopes) - 1; i >= 0; i-- {
		var found []symbol.Symbol
		for _, src := range a.scopes[i].sources {
			if qualifier != "" && qualifier != src.alias {
				continue
			}
			if sym, ok := lookup(src.rel, column); ok {
				found = append(found, sym)
			}
		}
		switch len(found) {
		case 0:
			continue
		case 1:
			return found[0], nil
		default:
			return nil, planerrors.NewErrorf(codes.InvalidArgument, planerrors.BadFieldError, "Column '%s' is ambiguous", name)
		}
	}
	return nil, planerrors.NewErrorf(codes.NotFound, planerrors.BadFieldError, "Unknown column '%s'", name)
}

func lookup(rel relations.AnalyzedRelation, column string) (symbol.Symbol, bool) {
	if table, ok := rel.(*relations.TableRelation); ok {
		ref, ok := table.Column(column)
		if !ok {
			return nil, false
		}
		return ref, true
	}
	for _, f := range rel.Fields() {
		if f.Name == column {
			return f, true
		}
	}
	return nil, false
}
