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

package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"google.golang.org/grpc/codes"

	"github.com/yiguolei/crate/go/metadata/views"
	"github.com/yiguolei/crate/go/planerrors"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRoot()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestPlanTree(t *testing.T) {
	out, err := execute(t, "plan", "--fixture", "testdata/simple.yaml")
	require.NoError(t, err)

	want := `Logical plan:
Boundary tt
└── Limit limit 10
    └── Order doc.t1.y ASC
        └── Collect doc.t1 [doc.t1.x, doc.t1.y] where op_>(doc.t1.x, 1)

Physical plan:
Eval (Exprs=[add(INPUT(0), INPUT(0)), INPUT(1)])
└── Limit (Count=10)
    └── Sort (Order=INPUT(1) ASC)
        └── Collect doc.t1 (Columns=[doc.t1.x, doc.t1.y], EstimatedRows=100, Limit=10, Order=doc.t1.y ASC, Where=op_>(doc.t1.x, 1))

Estimated rows: 10
Table doc.t1: 100 rows, 6.4 kB
`
	assert.Equal(t, want, out)
}

func TestPlanWithoutCollapse(t *testing.T) {
	out, err := execute(t, "plan", "--fixture", "testdata/simple.yaml", "--collapse=false")
	require.NoError(t, err)
	assert.Contains(t, out, "        └── Filter (Predicate=op_>(INPUT(0), 1))\n")
}

func TestPlanConfigFromEnv(t *testing.T) {
	t.Setenv("PLANNER_PAGE_SIZE_HINT", "250")
	out, err := execute(t, "plan", "--fixture", "testdata/simple.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "PageSizeHint=250")
}

func TestPlanJSON(t *testing.T) {
	out, err := execute(t, "plan", "--fixture", "testdata/simple.yaml", "--format", "json")
	require.NoError(t, err)

	require.True(t, gjson.Valid(out))
	assert.Equal(t, "Eval", gjson.Get(out, "physical.OperatorType").String())
	assert.Equal(t, "Collect", gjson.Get(out, "physical.Inputs.0.Inputs.0.Inputs.0.OperatorType").String())
	assert.Equal(t, int64(10), gjson.Get(out, "estimatedRows").Int())
	assert.Len(t, gjson.Get(out, "jobId").String(), 36)
}

func TestPlanView(t *testing.T) {
	out, err := execute(t, "plan", "--fixture", "testdata/views.yaml")
	require.NoError(t, err)

	assert.Contains(t, out, `Join INNER (Condition=op_=(INPUT(0), INPUT(1)))
├── Eval (Exprs=[add(INPUT(0), INPUT(0))])
│   └── Collect doc.t1 (Columns=[doc.t1.x], EstimatedRows=100)
└── Collect doc.t2 (Columns=[doc.t2.z])
`)
	assert.Contains(t, out, "Estimated rows: unknown\n")
	assert.Contains(t, out, "Table doc.t1: 100 rows, 0 B\n")
	assert.Contains(t, out, "Table doc.t2: no statistics\n")
}

func TestPlanSubquery(t *testing.T) {
	out, err := execute(t, "plan", "--fixture", "testdata/subquery.yaml")
	require.NoError(t, err)

	assert.Contains(t, out, `MultiPhase (BindKeys=[__sq3], ResultTypes=[SingleValue])
├── Eval (Exprs=[INPUT(0)])
│   └── Collect doc.t1 (Columns=[doc.t1.x, doc.t1.y], EstimatedRows=100, Where=op_=(doc.t1.y, $__sq3))
└── Limit (Count=2)
    └── Aggregate Scalar (Aggregates=[max(INPUT(0))])
        └── Collect doc.t2 (Columns=[doc.t2.z])
`)
}

func TestPlanErrors(t *testing.T) {
	tcases := []struct {
		name string
		args []string
		code codes.Code
	}{
		{name: "correlated subquery", args: []string{"plan", "--fixture", "testdata/correlated.yaml"}, code: codes.Unimplemented},
		{name: "no fixture", args: []string{"plan"}, code: codes.InvalidArgument},
		{name: "bad format", args: []string{"plan", "--fixture", "testdata/simple.yaml", "--format", "xml"}, code: codes.InvalidArgument},
		{name: "bad config", args: []string{"plan", "--fixture", "testdata/simple.yaml", "--subquery-concurrency", "0"}, code: codes.InvalidArgument},
		{name: "bad views format", args: []string{"views", "--fixture", "testdata/views.yaml", "--format", "xml"}, code: codes.InvalidArgument},
	}
	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := execute(t, tc.args...)
			require.Error(t, err)
			assert.Equal(t, tc.code, planerrors.Code(err), err.Error())
		})
	}
}

func TestViewsJSON(t *testing.T) {
	out, err := execute(t, "views", "--fixture", "testdata/views.yaml")
	require.NoError(t, err)

	stored, err := views.ParseJSON([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, []string{"doc.v1"}, stored.Names())

	fx, err := LoadFixture("testdata/views.yaml")
	require.NoError(t, err)
	want, err := fx.StoredViews()
	require.NoError(t, err)
	assert.True(t, want.Equal(stored))
}

func TestViewsBinary(t *testing.T) {
	out, err := execute(t, "views", "--fixture", "testdata/views.yaml", "--format", "binary")
	require.NoError(t, err)
	// one view named doc.v1
	assert.True(t, bytes.HasPrefix([]byte(out), []byte("00000000  01 06 64 6f 63 2e 76 31")), out)
}
