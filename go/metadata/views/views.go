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

// Package views stores the definitions of views. A Views value is never
// modified; every change returns a new one.
package views

import (
	"maps"
	"slices"

	"github.com/yiguolei/crate/go/planner/relations"
)

// Type is the name views are stored under in the cluster metadata.
const Type = "views"

// Views maps the fully qualified name of a view to its statement.
type Views struct {
	stmts map[string]string
}

// RemoveResult is the outcome of Remove.
type RemoveResult struct {
	Updated *Views
	// Missing are the names that were not views, in the order they were given.
	Missing []relations.TableIdent
}

// New returns an empty set of views.
func New() *Views {
	return newViews(nil)
}

func newViews(stmts map[string]string) *Views {
	if stmts == nil {
		stmts = map[string]string{}
	}
	return &Views{stmts: stmts}
}

// AddOrReplace returns a copy of prev with the view name set to stmt. prev may be nil.
func AddOrReplace(prev *Views, name relations.TableIdent, stmt string) *Views {
	stmts := map[string]string{}
	if prev != nil {
		stmts = maps.Clone(prev.stmts)
	}
	stmts[name.FQN()] = stmt
	return newViews(stmts)
}

// Remove returns a copy of v without the given views.
func (v *Views) Remove(names []relations.TableIdent) RemoveResult {
	stmts := maps.Clone(v.stmts)
	var missing []relations.TableIdent
	for _, name := range names {
		fqn := name.FQN()
		if _, ok := stmts[fqn]; !ok {
			missing = append(missing, name)
			continue
		}
		delete(stmts, fqn)
	}
	return RemoveResult{Updated: newViews(stmts), Missing: missing}
}

func (v *Views) Contains(fqn string) bool {
	_, ok := v.stmts[fqn]
	return ok
}

// Names returns the fully qualified names of all views, sorted.
func (v *Views) Names() []string {
	names := make([]string, 0, len(v.stmts))
	for name := range v.stmts {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Statement returns the statement of the view name.
func (v *Views) Statement(name relations.TableIdent) (string, bool) {
	stmt, ok := v.stmts[name.FQN()]
	return stmt, ok
}

func (v *Views) Len() int {
	return len(v.stmts)
}

func (v *Views) Equal(other *Views) bool {
	return maps.Equal(v.stmts, other.stmts)
}
