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
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, "no error"))
	assert.NoError(t, Wrapf(nil, "no error %d", 1))
}

func TestWrap(t *testing.T) {
	tests := []struct {
		err         error
		message     string
		wantMessage string
		wantCode    codes.Code
	}{
		{io.EOF, "read error", "read error: EOF", codes.Unknown},
		{New(codes.AlreadyExists, "oops"), "client error", "client error: oops", codes.AlreadyExists},
		{context.Canceled, "stopped", "stopped: context canceled", codes.Canceled},
	}

	for _, tt := range tests {
		got := Wrap(tt.err, tt.message)
		assert.EqualError(t, got, tt.wantMessage)
		assert.Equal(t, tt.wantCode, Code(got))
	}
}

func TestWrapfKeepsState(t *testing.T) {
	err := UnresolvedColumn(fakeName("x"), "doc.t1")
	wrapped := Wrapf(err, "planning %s", "q1")
	assert.EqualError(t, wrapped, "planning q1: Unknown column 'x' in 'doc.t1'")
	assert.Equal(t, codes.NotFound, Code(wrapped))
	assert.Equal(t, BadFieldError, ErrState(wrapped))
	assert.Same(t, err, RootCause(wrapped))
}

func TestCode(t *testing.T) {
	assert.Equal(t, codes.OK, Code(nil))
	assert.Equal(t, codes.Unknown, Code(errors.New("generic")))
	assert.Equal(t, codes.DeadlineExceeded, Code(fmt.Errorf("late: %w", context.DeadlineExceeded)))
	assert.Equal(t, codes.InvalidArgument, Code(Errorf(codes.InvalidArgument, "bad %s", "input")))
	assert.Equal(t, Undefined, ErrState(errors.New("generic")))
}

func TestCorrelatedSubquery(t *testing.T) {
	err := CorrelatedSubquery("sq", fakeName("RelationSet{1}"))
	assert.True(t, IsCorrelatedSubquery(err))
	assert.True(t, IsCorrelatedSubquery(Wrap(err, "outer")))
	assert.False(t, IsCorrelatedSubquery(Internal("oops")))
	assert.Equal(t, codes.Unimplemented, Code(err))
	assert.Contains(t, err.Error(), "RelationSet{1}")
}

func TestInternal(t *testing.T) {
	err := Internal("missing %d", 3)
	assert.EqualError(t, err, "BUG: missing 3")
	assert.Equal(t, codes.Internal, Code(err))
	assert.Equal(t, "PlannerBug", ErrState(err).String())
}

func TestGRPCRoundTrip(t *testing.T) {
	err := NewErrorf(codes.NotFound, NoSuchTable, "table %s not found", "t1")
	grpcErr := ToGRPC(err)
	s, ok := status.FromError(grpcErr)
	require.True(t, ok)
	assert.Equal(t, codes.NotFound, s.Code())

	back := FromGRPC(grpcErr)
	assert.Equal(t, codes.NotFound, Code(back))
	assert.EqualError(t, back, "table t1 not found")

	assert.NoError(t, ToGRPC(nil))
	assert.NoError(t, FromGRPC(nil))
	assert.Equal(t, codes.Unknown, Code(FromGRPC(io.EOF)))
}

func TestTruncateError(t *testing.T) {
	long := New(codes.Internal, strings.Repeat("a", 10000))
	s, _ := status.FromError(ToGRPC(long))
	assert.Less(t, len(s.Message()), 8*1024)
	assert.Contains(t, s.Message(), "truncated")
}

type fakeName string

func (f fakeName) String() string { return string(f) }
