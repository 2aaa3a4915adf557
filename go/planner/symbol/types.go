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

import "fmt"

// DataType is the value type a symbol evaluates to.
type DataType int8

const (
	Undefined DataType = iota
	Boolean
	Integer
	Long
	Double
	String
	Object
)

var dataTypeNames = map[DataType]string{
	Undefined: "undefined",
	Boolean:   "boolean",
	Integer:   "integer",
	Long:      "long",
	Double:    "double",
	String:    "string",
	Object:    "object",
}

func (t DataType) String() string {
	if name, ok := dataTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("DataType(%d)", int8(t))
}

// ParseDataType maps a type name back to its DataType.
func ParseDataType(name string) (DataType, bool) {
	for t, n := range dataTypeNames {
		if n == name {
			return t, true
		}
	}
	return Undefined, false
}

// IsNumeric returns true for the integral and floating point types.
func (t DataType) IsNumeric() bool {
	switch t {
	case Integer, Long, Double:
		return true
	}
	return false
}

// ResultType describes what a subquery expression yields.
type ResultType int8

const (
	// SingleValue subqueries must produce at most one row with one column.
	SingleValue ResultType = iota
	// MultipleValues subqueries produce a single column with any number of rows.
	MultipleValues
)

func (r ResultType) String() string {
	switch r {
	case SingleValue:
		return "SingleValue"
	case MultipleValues:
		return "MultipleValues"
	}
	return fmt.Sprintf("ResultType(%d)", int8(r))
}
