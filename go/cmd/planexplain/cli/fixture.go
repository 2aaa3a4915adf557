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
	"errors"
	"io"
	"os"
	"strings"

	"google.golang.org/grpc/codes"
	"gopkg.in/yaml.v3"

	"github.com/yiguolei/crate/go/metadata/views"
	"github.com/yiguolei/crate/go/planerrors"
	"github.com/yiguolei/crate/go/planner/relations"
	"github.com/yiguolei/crate/go/planner/stats"
)

type (
	// Fixture describes the catalog and the query to plan.
	//
	//	tables:
	//	- name: t1
	//	  rows: 100
	//	  columns: [{name: x, type: integer}]
	//	query:
	//	  name: q
	//	  from: [{table: t1}]
	//	  select: [{expr: {column: x}}]
	Fixture struct {
		Tables []TableDef `yaml:"tables"`
		Views  []ViewDef  `yaml:"views,omitempty"`
		Query  *QueryDef  `yaml:"query"`
	}

	// TableDef declares a table. Tables without rows have no statistics.
	TableDef struct {
		Name        string      `yaml:"name"`
		Rows        int64       `yaml:"rows,omitempty"`
		SizeInBytes int64       `yaml:"sizeInBytes,omitempty"`
		Columns     []ColumnDef `yaml:"columns"`
	}

	ColumnDef struct {
		Name string `yaml:"name"`
		Type string `yaml:"type"`
	}

	ViewDef struct {
		Name  string    `yaml:"name"`
		Query *QueryDef `yaml:"query"`
	}

	// QueryDef is a select. Joins[i] joins From[i+1] to the sources before it;
	// sources without a join are cross joined.
	QueryDef struct {
		Name    string       `yaml:"name,omitempty"`
		From    []FromDef    `yaml:"from"`
		Joins   []JoinDef    `yaml:"joins,omitempty"`
		Select  []SelectItem `yaml:"select"`
		Where   *Expr        `yaml:"where,omitempty"`
		GroupBy []*Expr      `yaml:"groupBy,omitempty"`
		Having  *Expr        `yaml:"having,omitempty"`
		OrderBy []OrderItem  `yaml:"orderBy,omitempty"`
		Limit   *Expr        `yaml:"limit,omitempty"`
		Offset  *Expr        `yaml:"offset,omitempty"`
	}

	// FromDef reads from exactly one of a table, a view or a sub-select.
	FromDef struct {
		Table  string    `yaml:"table,omitempty"`
		View   string    `yaml:"view,omitempty"`
		Select *QueryDef `yaml:"select,omitempty"`
		Alias  string    `yaml:"alias,omitempty"`
	}

	JoinDef struct {
		Type string `yaml:"type"`
		On   *Expr  `yaml:"on,omitempty"`
	}

	SelectItem struct {
		Expr  *Expr  `yaml:"expr"`
		Alias string `yaml:"alias,omitempty"`
	}

	OrderItem struct {
		Expr       *Expr `yaml:"expr"`
		Desc       bool  `yaml:"desc,omitempty"`
		NullsFirst bool  `yaml:"nullsFirst,omitempty"`
	}

	// Expr is an expression. Exactly one of Column, Literal, Func, Agg,
	// Subquery or Param is set.
	Expr struct {
		Column  string  `yaml:"column,omitempty"`
		Literal any     `yaml:"literal,omitempty"`
		Func    string  `yaml:"func,omitempty"`
		Agg     string  `yaml:"agg,omitempty"`
		Args    []*Expr `yaml:"args,omitempty"`
		Type    string  `yaml:"type,omitempty"`
		// Subquery is used as a single value unless Values is set.
		Subquery *QueryDef `yaml:"subquery,omitempty"`
		Values   bool      `yaml:"values,omitempty"`
		Param    string    `yaml:"param,omitempty"`
	}
)

// LoadFixture reads and validates the fixture at path.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseFixture(data)
}

// ParseFixture decodes a fixture with YAML 1.2 rules, so a column named y or
// on stays a string. Unknown keys are rejected.
func ParseFixture(data []byte) (*Fixture, error) {
	var fx Fixture
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil && !errors.Is(err, io.EOF) {
		return nil, planerrors.Errorf(codes.InvalidArgument, "invalid fixture: %v", err)
	}
	if fx.Query == nil {
		return nil, planerrors.New(codes.InvalidArgument, "invalid fixture: no query")
	}
	return &fx, nil
}

// Stats returns the statistics of the tables that declare rows.
func (fx *Fixture) Stats() map[relations.TableIdent]stats.Stats {
	res := make(map[relations.TableIdent]stats.Stats)
	for _, t := range fx.Tables {
		if t.Rows > 0 {
			res[parseIdent(t.Name)] = stats.Stats{NumDocs: t.Rows, SizeInBytes: t.SizeInBytes}
		}
	}
	return res
}

// StoredViews returns the views of the fixture. The statement of a view is
// its query in YAML.
func (fx *Fixture) StoredViews() (*views.Views, error) {
	stored := views.New()
	for _, v := range fx.Views {
		if v.Query == nil {
			return nil, planerrors.Errorf(codes.InvalidArgument, "view %s has no query", v.Name)
		}
		stmt, err := yaml.Marshal(v.Query)
		if err != nil {
			return nil, err
		}
		stored = views.AddOrReplace(stored, parseIdent(v.Name), string(stmt))
	}
	return stored, nil
}

// parseIdent splits "schema.name". The schema defaults to doc.
func parseIdent(name string) relations.TableIdent {
	if schema, table, ok := strings.Cut(name, "."); ok {
		return relations.TableIdent{Schema: schema, Name: table}
	}
	return relations.TableIdent{Schema: "doc", Name: name}
}
