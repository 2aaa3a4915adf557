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

// Package symbol contains the expression model shared by the analyzer and the
// planner: literals, column references, relation fields, function calls and
// subquery expressions, together with structural equality, hashing and an
// insertion-ordered symbol map used for expression mappings.
package symbol

import (
	"fmt"
	"strings"
)

type (
	// FuncArg is anything that can be passed as an argument to a function.
	FuncArg interface {
		// ValueType is the type the argument evaluates to.
		ValueType() DataType
		// CanBeCasted reports whether the argument may be implicitly converted
		// to another type when resolving function signatures.
		CanBeCasted() bool
	}

	// Symbol is an immutable expression tree node.
	// Symbols are compared structurally, see Equals.
	Symbol interface {
		FuncArg
		fmt.Stringer
		symbol()
	}

	// Relation is the part of an analyzed relation a SelectSymbol needs to know about.
	Relation interface {
		ID() RelationID
		Name() string
	}

	// Literal is a constant value.
	Literal struct {
		Value any
		Type  DataType
	}

	// Reference points to a column of a base table.
	Reference struct {
		Relation RelationID
		// Table is the fully qualified name of the table.
		Table  string
		Column string
		Type   DataType
	}

	// Field is a positional output column of an analyzed relation.
	Field struct {
		Relation RelationID
		// RelationName is only used for display.
		RelationName string
		Index        int
		Name         string
		Type         DataType
	}

	// Function is a scalar or aggregate function call. Operators are functions too.
	Function struct {
		Name       string
		Args       []Symbol
		ReturnType DataType
		Aggregate  bool
	}

	// SelectSymbol is a subquery used as an expression.
	SelectSymbol struct {
		Relation   Relation
		ResultType ResultType
		Type       DataType
	}

	// InputColumn reads the value at Index of the input row. Only physical plans use it.
	InputColumn struct {
		Index int
		Type  DataType
	}

	// ParameterSymbol is a value bound at execution time under Key.
	ParameterSymbol struct {
		Key  string
		Type DataType
	}
)

var (
	_ Symbol = (*Literal)(nil)
	_ Symbol = (*Reference)(nil)
	_ Symbol = (*Field)(nil)
	_ Symbol = (*Function)(nil)
	_ Symbol = (*SelectSymbol)(nil)
	_ Symbol = (*InputColumn)(nil)
	_ Symbol = (*ParameterSymbol)(nil)
)

func (*Literal) symbol()         {}
func (*Reference) symbol()       {}
func (*Field) symbol()           {}
func (*Function) symbol()        {}
func (*SelectSymbol) symbol()    {}
func (*InputColumn) symbol()     {}
func (*ParameterSymbol) symbol() {}

// NewLiteral creates a literal and infers its type from the Go value.
// Go ints are widened to int64 so that equal values compare equal.
func NewLiteral(v any) *Literal {
	switch v := v.(type) {
	case nil:
		return &Literal{Type: Undefined}
	case bool:
		return &Literal{Value: v, Type: Boolean}
	case int:
		return &Literal{Value: int64(v), Type: Long}
	case int32:
		return &Literal{Value: int64(v), Type: Integer}
	case int64:
		return &Literal{Value: v, Type: Long}
	case float64:
		return &Literal{Value: v, Type: Double}
	case string:
		return &Literal{Value: v, Type: String}
	}
	return &Literal{Value: fmt.Sprint(v), Type: Object}
}

// True is the literal boolean true.
func True() *Literal { return &Literal{Value: true, Type: Boolean} }

// IsLiteralTrue returns true when s is the boolean literal true.
func IsLiteralTrue(s Symbol) bool {
	lit, ok := s.(*Literal)
	return ok && lit.Type == Boolean && lit.Value == true
}

// IntValue returns the integral value of s when it is an integer literal.
func IntValue(s Symbol) (int64, bool) {
	lit, ok := s.(*Literal)
	if !ok {
		return 0, false
	}
	v, ok := lit.Value.(int64)
	return v, ok
}

// NewFunction creates a scalar function call.
func NewFunction(name string, returnType DataType, args ...Symbol) *Function {
	return &Function{Name: name, Args: args, ReturnType: returnType}
}

// NewAggregate creates an aggregate function call.
func NewAggregate(name string, returnType DataType, args ...Symbol) *Function {
	return &Function{Name: name, Args: args, ReturnType: returnType, Aggregate: true}
}

// And combines the two predicates. A nil side is ignored.
func And(a, b Symbol) Symbol {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return NewFunction("and", Boolean, a, b)
}

// BindKey is the key under which the result of the subquery is bound.
func (s *SelectSymbol) BindKey() string {
	return fmt.Sprintf("__sq%d", s.Relation.ID())
}

func (l *Literal) ValueType() DataType         { return l.Type }
func (r *Reference) ValueType() DataType       { return r.Type }
func (f *Field) ValueType() DataType           { return f.Type }
func (f *Function) ValueType() DataType        { return f.ReturnType }
func (s *SelectSymbol) ValueType() DataType    { return s.Type }
func (c *InputColumn) ValueType() DataType     { return c.Type }
func (p *ParameterSymbol) ValueType() DataType { return p.Type }

// Only literals can be converted while resolving a function signature.
func (*Literal) CanBeCasted() bool         { return true }
func (*Reference) CanBeCasted() bool       { return false }
func (*Field) CanBeCasted() bool           { return false }
func (*Function) CanBeCasted() bool        { return false }
func (*SelectSymbol) CanBeCasted() bool    { return false }
func (*InputColumn) CanBeCasted() bool     { return false }
func (*ParameterSymbol) CanBeCasted() bool { return false }

func (l *Literal) String() string {
	switch v := l.Value.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	}
	return fmt.Sprint(l.Value)
}

func (r *Reference) String() string {
	if r.Table == "" {
		return r.Column
	}
	return r.Table + "." + r.Column
}

func (f *Field) String() string {
	if f.RelationName == "" {
		return f.Name
	}
	return f.RelationName + "." + f.Name
}

func (f *Function) String() string {
	args := make([]string, 0, len(f.Args))
	for _, arg := range f.Args {
		args = append(args, arg.String())
	}
	return f.Name + "(" + strings.Join(args, ", ") + ")"
}

func (s *SelectSymbol) String() string {
	return "SelectSymbol{" + s.Relation.Name() + "}"
}

func (c *InputColumn) String() string {
	return fmt.Sprintf("INPUT(%d)", c.Index)
}

func (p *ParameterSymbol) String() string {
	return "$" + p.Key
}

// Strings renders a list of symbols.
func Strings(symbols []Symbol) []string {
	res := make([]string, 0, len(symbols))
	for _, s := range symbols {
		res = append(res, s.String())
	}
	return res
}
