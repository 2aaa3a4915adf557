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

package symbol

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Equals compares two symbols structurally.
func Equals(a, b Symbol) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch a := a.(type) {
	case *Literal:
		b, ok := b.(*Literal)
		return ok && a.Type == b.Type && literalValuesEqual(a.Value, b.Value)
	case *Reference:
		b, ok := b.(*Reference)
		return ok && a.Relation == b.Relation && a.Column == b.Column
	case *Field:
		b, ok := b.(*Field)
		return ok && a.Relation == b.Relation && a.Index == b.Index
	case *Function:
		b, ok := b.(*Function)
		return ok && a.Name == b.Name && a.Aggregate == b.Aggregate && EqualLists(a.Args, b.Args)
	case *SelectSymbol:
		b, ok := b.(*SelectSymbol)
		return ok && a.Relation.ID() == b.Relation.ID() && a.ResultType == b.ResultType
	case *InputColumn:
		b, ok := b.(*InputColumn)
		return ok && a.Index == b.Index
	case *ParameterSymbol:
		b, ok := b.(*ParameterSymbol)
		return ok && a.Key == b.Key
	}
	panic(fmt.Sprintf("BUG: unknown symbol %T", a))
}

func literalValuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if !reflect.TypeOf(a).Comparable() || !reflect.TypeOf(b).Comparable() {
		return fmt.Sprint(a) == fmt.Sprint(b)
	}
	return a == b
}

// EqualLists compares two lists of symbols position by position.
func EqualLists(a, b []Symbol) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equals(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Hash returns a hash of s that is equal for symbols that are Equals.
func Hash(s Symbol) uint64 {
	d := xxhash.New()
	writeKey(d, s)
	return d.Sum64()
}

// writeKey writes the parts of s that take part in Equals.
func writeKey(d *xxhash.Digest, s Symbol) {
	switch s := s.(type) {
	case nil:
		_, _ = d.WriteString("nil;")
	case *Literal:
		_, _ = d.WriteString("lit:")
		_, _ = d.WriteString(s.Type.String())
		_, _ = d.WriteString(fmt.Sprintf(":%T:%v;", s.Value, s.Value))
	case *Reference:
		_, _ = d.WriteString("ref:")
		_, _ = d.WriteString(strconv.Itoa(int(s.Relation)))
		_, _ = d.WriteString(":" + s.Column + ";")
	case *Field:
		_, _ = d.WriteString("field:")
		_, _ = d.WriteString(strconv.Itoa(int(s.Relation)))
		_, _ = d.WriteString(":" + strconv.Itoa(s.Index) + ";")
	case *Function:
		_, _ = d.WriteString("fn:" + s.Name + ":" + strconv.FormatBool(s.Aggregate) + "(")
		for _, arg := range s.Args {
			writeKey(d, arg)
		}
		_, _ = d.WriteString(");")
	case *SelectSymbol:
		_, _ = d.WriteString("select:" + strconv.Itoa(int(s.Relation.ID())) + ":" + s.ResultType.String() + ";")
	case *InputColumn:
		_, _ = d.WriteString("input:" + strconv.Itoa(s.Index) + ";")
	case *ParameterSymbol:
		_, _ = d.WriteString("param:" + s.Key + ";")
	default:
		panic(fmt.Sprintf("BUG: unknown symbol %T", s))
	}
}
