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

package rewrite

import (
	"github.com/yiguolei/crate/go/planner/symbol"
)

// Substitute replaces every sub-expression of s that is a key of mapping with
// its value. Matching is top-down: once a node is replaced, the replacement is
// not looked at again. Symbols without a match are returned unchanged, so this
// never fails.
func Substitute(mapping *symbol.Map, s symbol.Symbol) symbol.Symbol {
	if mapping.Len() == 0 {
		return s
	}
	return symbol.Rewrite(s, func(node symbol.Symbol) (symbol.Symbol, bool) {
		return mapping.Get(node)
	})
}

// Mapper returns a function that substitutes using mapping.
func Mapper(mapping *symbol.Map) func(symbol.Symbol) symbol.Symbol {
	return func(s symbol.Symbol) symbol.Symbol {
		return Substitute(mapping, s)
	}
}

// MappedSymbols substitutes every symbol of the list, keeping the order.
func MappedSymbols(symbols []symbol.Symbol, mapping *symbol.Map) []symbol.Symbol {
	res := make([]symbol.Symbol, len(symbols))
	for i, s := range symbols {
		res[i] = Substitute(mapping, s)
	}
	return res
}

// IsColumn returns true for the leaves that read a column: base table
// references and relation fields.
func IsColumn(s symbol.Symbol) bool {
	switch s.(type) {
	case *symbol.Reference, *symbol.Field:
		return true
	}
	return false
}

// ExtractColumns returns the distinct column leaves of the symbols in the
// order they are first seen. Subquery expressions are not entered, their
// columns belong to another scope.
func ExtractColumns(symbols []symbol.Symbol) []symbol.Symbol {
	cols := &symbol.Set{}
	for _, s := range symbols {
		symbol.Walk(s, func(node symbol.Symbol) bool {
			if IsColumn(node) {
				cols.Add(node)
			}
			return true
		})
	}
	return cols.Slice()
}
