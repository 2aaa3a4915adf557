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

package engine

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xlab/treeprint"
	"golang.org/x/exp/slices"
)

// PlanDescription is used to create a serializable representation of the Plan tree
type PlanDescription struct {
	OperatorType string            `json:"OperatorType"`
	Variant      string            `json:"Variant,omitempty"`
	Other        map[string]any    `json:"Other,omitempty"`
	Inputs       []PlanDescription `json:"Inputs,omitempty"`
}

// PlanToDescription transforms a plan tree into a corresponding PlanDescription tree
func PlanToDescription(in Plan) PlanDescription {
	this := in.description()
	for _, input := range in.Inputs() {
		this.Inputs = append(this.Inputs, PlanToDescription(input))
	}
	return this
}

// ToJSON renders the plan as indented JSON. Map keys are sorted by encoding/json.
func ToJSON(in Plan) (string, error) {
	out, err := json.MarshalIndent(PlanToDescription(in), "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// ToTree renders the plan as an indented tree, one node per line.
func ToTree(in Plan) string {
	return asTree(PlanToDescription(in), nil).String()
}

func asTree(descr PlanDescription, root treeprint.Tree) treeprint.Tree {
	var branch treeprint.Tree
	if root == nil {
		branch = treeprint.NewWithRoot(descr.label())
	} else {
		branch = root.AddBranch(descr.label())
	}
	for _, child := range descr.Inputs {
		asTree(child, branch)
	}
	return branch
}

func (pd PlanDescription) label() string {
	var b strings.Builder
	b.WriteString(pd.OperatorType)
	if pd.Variant != "" {
		b.WriteString(" " + pd.Variant)
	}
	if len(pd.Other) == 0 {
		return b.String()
	}
	keys := make([]string, 0, len(pd.Other))
	for k := range pd.Other {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+formatValue(pd.Other[k]))
	}
	b.WriteString(" (" + strings.Join(parts, ", ") + ")")
	return b.String()
}

// formatValue renders lists comma separated, the way expressions print their arguments.
func formatValue(v any) string {
	if list, ok := v.([]string); ok {
		return "[" + strings.Join(list, ", ") + "]"
	}
	return fmt.Sprintf("%v", v)
}
