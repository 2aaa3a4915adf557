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

import (
	"fmt"

	"google.golang.org/grpc/codes"
)

// CorrelatedSubquery is returned for a subquery that references columns of an enclosing query.
func CorrelatedSubquery(relation string, outer fmt.Stringer) error {
	return NewErrorf(codes.Unimplemented, CorrelatedSubqueryNotSupported,
		"correlated subquery %s is not supported: it references outer relations %s", relation, outer)
}

// UnresolvedColumn is returned when a column cannot be produced by the relation that should provide it.
func UnresolvedColumn(column fmt.Stringer, relation string) error {
	return NewErrorf(codes.NotFound, BadFieldError, "Unknown column '%s' in '%s'", column, relation)
}

// Internal is returned when an invariant of the planner does not hold.
func Internal(format string, args ...any) error {
	return NewErrorf(codes.Internal, PlannerBug, "BUG: "+format, args...)
}

// IsCorrelatedSubquery reports whether err was caused by a correlated subquery.
func IsCorrelatedSubquery(err error) bool {
	return ErrState(err) == CorrelatedSubqueryNotSupported
}
