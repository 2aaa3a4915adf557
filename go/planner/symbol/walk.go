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

// Walk visits s and its arguments in pre-order. When visit returns false the
// children of the current node are skipped. The relation behind a SelectSymbol
// is a different scope and is never entered.
func Walk(s Symbol, visit func(Symbol) bool) {
	if s == nil || !visit(s) {
		return
	}
	if fn, ok := s.(*Function); ok {
		for _, arg := range fn.Args {
			Walk(arg, visit)
		}
	}
}

// Rewrite rebuilds s top-down. For every node pre is called first; if it
// reports true the returned symbol replaces the node and is not visited again.
// Otherwise the arguments of the node are rewritten. Nodes whose subtree did
// not change are returned as is.
func Rewrite(s Symbol, pre func(Symbol) (Symbol, bool)) Symbol {
	if s == nil {
		return nil
	}
	if res, ok := pre(s); ok {
		return res
	}
	fn, ok := s.(*Function)
	if !ok {
		return s
	}
	var args []Symbol
	for i, arg := range fn.Args {
		newArg := Rewrite(arg, pre)
		if args == nil && newArg != arg {
			args = make([]Symbol, len(fn.Args))
			copy(args, fn.Args[:i])
		}
		if args != nil {
			args[i] = newArg
		}
	}
	if args == nil {
		return fn
	}
	return &Function{Name: fn.Name, Args: args, ReturnType: fn.ReturnType, Aggregate: fn.Aggregate}
}

// Dependencies returns the relations the column leaves of s belong to.
func Dependencies(symbols ...Symbol) RelationSet {
	var deps RelationSet
	for _, s := range symbols {
		Walk(s, func(node Symbol) bool {
			switch node := node.(type) {
			case *Reference:
				deps = deps.Merge(SingleRelation(node.Relation))
			case *Field:
				deps = deps.Merge(SingleRelation(node.Relation))
			}
			return true
		})
	}
	return deps
}

// SelectSymbols returns the distinct subquery expressions in the given symbols, in order of appearance.
func SelectSymbols(symbols ...Symbol) []*SelectSymbol {
	var res []*SelectSymbol
	seen := &Set{}
	for _, s := range symbols {
		Walk(s, func(node Symbol) bool {
			if sel, ok := node.(*SelectSymbol); ok && seen.Add(sel) {
				res = append(res, sel)
			}
			return true
		})
	}
	return res
}

// ContainsAggregate returns true if any of the symbols contains an aggregate function call.
func ContainsAggregate(symbols ...Symbol) bool {
	found := false
	for _, s := range symbols {
		Walk(s, func(node Symbol) bool {
			if fn, ok := node.(*Function); ok && fn.Aggregate {
				found = true
			}
			return !found
		})
	}
	return found
}

// Aggregates returns the distinct aggregate calls of the symbols, outermost only.
func Aggregates(symbols ...Symbol) []Symbol {
	set := &Set{}
	for _, s := range symbols {
		Walk(s, func(node Symbol) bool {
			if fn, ok := node.(*Function); ok && fn.Aggregate {
				set.Add(fn)
				return false
			}
			return true
		})
	}
	return set.Slice()
}
