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
	"github.com/yiguolei/crate/go/planner/symbol"
)

// Dependency is a sub-plan whose result is bound under BindKey before the
// primary plan of a MultiPhase runs.
type Dependency struct {
	Plan       Plan
	BindKey    string
	ResultType symbol.ResultType
}

// MultiPhase runs its dependencies first, in order, and stores each result in
// a bind variable that the primary plan reads through parameter symbols.
type MultiPhase struct {
	Primary      Plan
	Dependencies []Dependency
}

// MultiPhaseCreateIfNeeded wraps primary only when there are dependencies.
func MultiPhaseCreateIfNeeded(primary Plan, dependencies []Dependency) Plan {
	if len(dependencies) == 0 {
		return primary
	}
	return &MultiPhase{Primary: primary, Dependencies: dependencies}
}

// Inputs returns the primary plan followed by the dependency plans
func (mp *MultiPhase) Inputs() []Plan {
	inputs := make([]Plan, 0, len(mp.Dependencies)+1)
	inputs = append(inputs, mp.Primary)
	for _, dep := range mp.Dependencies {
		inputs = append(inputs, dep.Plan)
	}
	return inputs
}

func (mp *MultiPhase) NumColumns() int {
	return mp.Primary.NumColumns()
}

func (mp *MultiPhase) description() PlanDescription {
	bindKeys := make([]string, 0, len(mp.Dependencies))
	resultTypes := make([]string, 0, len(mp.Dependencies))
	for _, dep := range mp.Dependencies {
		bindKeys = append(bindKeys, dep.BindKey)
		resultTypes = append(resultTypes, dep.ResultType.String())
	}
	return PlanDescription{
		OperatorType: "MultiPhase",
		Other: map[string]any{
			"BindKeys":    bindKeys,
			"ResultTypes": resultTypes,
		},
	}
}
