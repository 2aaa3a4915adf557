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
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"google.golang.org/grpc/codes"

	"github.com/yiguolei/crate/go/planerrors"
	"github.com/yiguolei/crate/go/planner"
	"github.com/yiguolei/crate/go/planner/engine"
	"github.com/yiguolei/crate/go/planner/operators"
	"github.com/yiguolei/crate/go/planner/relations"
	"github.com/yiguolei/crate/go/planner/stats"
)

func newPlanCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan --fixture <file> [--format tree|json]",
		Short: "Plans the query of a fixture and prints the logical and the physical plan.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.planFormat, "format", "tree", "output format: tree or json")
	return cmd
}

type planOutput struct {
	JobID         string                 `json:"jobId"`
	Logical       string                 `json:"logical"`
	Physical      engine.PlanDescription `json:"physical"`
	EstimatedRows int64                  `json:"estimatedRows"`
}

func runPlan(ctx context.Context, w io.Writer, opts *options) error {
	if opts.planFormat != "tree" && opts.planFormat != "json" {
		return planerrors.Errorf(codes.InvalidArgument, "unknown format %q, expected tree or json", opts.planFormat)
	}
	fx, err := loadFixture(opts)
	if err != nil {
		return err
	}
	rel, err := Analyze(fx)
	if err != nil {
		return err
	}

	tableStats := stats.New(opts.planner.StatsTTL)
	tableStats.UpdateAll(fx.Stats())
	stmt, err := planner.New(opts.planner, tableStats, nil).Plan(ctx, rel)
	if err != nil {
		return err
	}

	if opts.planFormat == "json" {
		data, err := json.MarshalIndent(planOutput{
			JobID:         stmt.JobID.String(),
			Logical:       operators.ToTree(stmt.Logical),
			Physical:      engine.PlanToDescription(stmt.Physical),
			EstimatedRows: stmt.Logical.NumExpectedRows(),
		}, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	}

	fmt.Fprintf(w, "Logical plan:\n%s\n", operators.ToTree(stmt.Logical))
	fmt.Fprintf(w, "Physical plan:\n%s\n", engine.ToTree(stmt.Physical))
	fmt.Fprintf(w, "Estimated rows: %s\n", rows(stmt.Logical.NumExpectedRows()))
	for _, table := range distinctTables(stmt.Logical.BaseTables()) {
		s, ok := tableStats.Get(table)
		if !ok {
			fmt.Fprintf(w, "Table %s: no statistics\n", table)
			continue
		}
		fmt.Fprintf(w, "Table %s: %s rows, %s\n", table, rows(s.NumDocs), humanize.Bytes(uint64(max(s.SizeInBytes, 0))))
	}
	return nil
}

func loadFixture(opts *options) (*Fixture, error) {
	if opts.fixture == "" {
		return nil, planerrors.New(codes.InvalidArgument, "--fixture is required")
	}
	return LoadFixture(opts.fixture)
}

func rows(n int64) string {
	if n < 0 {
		return "unknown"
	}
	return humanize.Comma(n)
}

func distinctTables(tables []*relations.TableRelation) []relations.TableIdent {
	var res []relations.TableIdent
	seen := map[relations.TableIdent]bool{}
	for _, t := range tables {
		if !seen[t.Ident] {
			seen[t.Ident] = true
			res = append(res, t.Ident)
		}
	}
	return res
}
