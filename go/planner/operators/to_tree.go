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
	"fmt"
	"reflect"

	"github.com/xlab/treeprint"
)

// ToTree returns the operator tree in a readable form:
//
//	Boundary v
//	└── Filter op_>(doc.t.x, 1)
//	    └── Collect doc.t [doc.t.x]
func ToTree(op LogicalPlan) string {
	tree := asTree(op, nil)
	return tree.String()
}

func asTree(op LogicalPlan, root treeprint.Tree) treeprint.Tree {
	txt := describe(op)
	var branch treeprint.Tree
	if root == nil {
		branch = treeprint.NewWithRoot(txt)
	} else {
		branch = root.AddBranch(txt)
	}
	for _, in := range op.Inputs() {
		asTree(in, branch)
	}
	return branch
}

func describe(op LogicalPlan) string {
	name := reflect.TypeOf(op).Elem().Name()
	if desc := op.ShortDescription(); desc != "" {
		return fmt.Sprintf("%s %s", name, desc)
	}
	return name
}
