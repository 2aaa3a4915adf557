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

package planerrors

// State is error state
type State int

// All the error states
const (
	Undefined State = iota

	// invalid argument
	BadFieldError
	BadTableError
	DupFieldName
	WrongValue

	// failed precondition
	WrongNumberOfColumnsInSelect
	OperandColumns

	// not found
	NoSuchTable
	UnknownTable
	NoSuchView

	// unimplemented
	NotSupportedYet
	CorrelatedSubqueryNotSupported

	// internal
	PlannerBug

	// No state should be added below NumOfStates
	NumOfStates
)

var stateNames = [...]string{
	Undefined:                      "Undefined",
	BadFieldError:                  "BadFieldError",
	BadTableError:                  "BadTableError",
	DupFieldName:                   "DupFieldName",
	WrongValue:                     "WrongValue",
	WrongNumberOfColumnsInSelect:   "WrongNumberOfColumnsInSelect",
	OperandColumns:                 "OperandColumns",
	NoSuchTable:                    "NoSuchTable",
	UnknownTable:                   "UnknownTable",
	NoSuchView:                     "NoSuchView",
	NotSupportedYet:                "NotSupportedYet",
	CorrelatedSubqueryNotSupported: "CorrelatedSubqueryNotSupported",
	PlannerBug:                     "PlannerBug",
}

func (s State) String() string {
	if s >= 0 && s < NumOfStates {
		return stateNames[s]
	}
	return "State(?)"
}
