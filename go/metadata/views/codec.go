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

package views

import (
	"encoding/json"

	"github.com/tidwall/gjson"
	"google.golang.org/grpc/codes"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/yiguolei/crate/go/planerrors"
)

// MarshalBinary encodes the views as a varint count followed by the name and
// statement of every view as length prefixed strings. Views are written in
// name order.
func (v *Views) MarshalBinary() ([]byte, error) {
	buf := protowire.AppendVarint(nil, uint64(len(v.stmts)))
	for _, name := range v.Names() {
		buf = protowire.AppendString(buf, name)
		buf = protowire.AppendString(buf, v.stmts[name])
	}
	return buf, nil
}

func (v *Views) UnmarshalBinary(data []byte) error {
	count, n := protowire.ConsumeVarint(data)
	if n < 0 {
		return corrupt(protowire.ParseError(n), "reading view count")
	}
	data = data[n:]
	// every view takes at least two bytes
	if count > uint64(len(data)/2) {
		return planerrors.Errorf(codes.DataLoss, "corrupt views: %d views in %d bytes", count, len(data))
	}
	stmts := make(map[string]string, count)
	for i := uint64(0); i < count; i++ {
		name, n := protowire.ConsumeString(data)
		if n < 0 {
			return corrupt(protowire.ParseError(n), "reading name of view %d", i)
		}
		data = data[n:]
		stmt, n := protowire.ConsumeString(data)
		if n < 0 {
			return corrupt(protowire.ParseError(n), "reading statement of view %s", name)
		}
		data = data[n:]
		stmts[name] = stmt
	}
	if len(data) > 0 {
		return planerrors.Errorf(codes.DataLoss, "corrupt views: %d trailing bytes", len(data))
	}
	v.stmts = stmts
	return nil
}

func corrupt(err error, format string, args ...any) error {
	return planerrors.Wrapf(planerrors.New(codes.DataLoss, err.Error()), format, args...)
}

type jsonView struct {
	Stmt string `json:"stmt"`
}

// MarshalJSON writes the views as
//
//	{"views": {"doc.v1": {"stmt": "select x from t1"}}}
func (v *Views) MarshalJSON() ([]byte, error) {
	out := make(map[string]jsonView, len(v.stmts))
	for name, stmt := range v.stmts {
		out[name] = jsonView{Stmt: stmt}
	}
	return json.Marshal(map[string]any{Type: out})
}

// ParseJSON reads views written by MarshalJSON. A document without a views
// key has no views. Entries without a statement are skipped.
func ParseJSON(data []byte) (*Views, error) {
	if !gjson.ValidBytes(data) {
		return nil, planerrors.New(codes.InvalidArgument, "failed to parse views, invalid json")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, planerrors.New(codes.InvalidArgument, "failed to parse views, expected an object")
	}
	views := root.Get(Type)
	if !views.Exists() {
		return newViews(nil), nil
	}
	if !views.IsObject() {
		return nil, planerrors.Errorf(codes.InvalidArgument, "failed to parse views, expected an object, got %s", views.Type)
	}
	stmts := map[string]string{}
	var err error
	views.ForEach(func(name, view gjson.Result) bool {
		if !view.IsObject() {
			err = planerrors.Errorf(codes.InvalidArgument, "failed to parse view %s, expected an object", name.String())
			return false
		}
		if stmt := view.Get("stmt"); stmt.Exists() {
			stmts[name.String()] = stmt.String()
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return newViews(stmts), nil
}
