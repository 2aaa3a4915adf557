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

// Package planerrors provides the errors returned by the planner.
//
// Every error carries a code from the gRPC code space, which tells callers
// how to treat the failure (a caller mistake, an unsupported construct, a bug),
// and optionally a State that identifies the exact condition:
//
//	err := planerrors.NewErrorf(codes.NotFound, planerrors.BadFieldError, "Unknown column '%s'", name)
//
// Wrap and Wrapf add context to an error while keeping its code and state:
//
//	return planerrors.Wrapf(err, "planning %s", rel.Name())
//
// Code and ErrState walk the chain of wrapped errors. Errors that were not
// created by this package have code Unknown unless they are context errors.
package planerrors

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
)

type planError struct {
	code  codes.Code
	state State
	msg   string
}

func (e *planError) Error() string {
	return e.msg
}

type wrapped struct {
	msg   string
	cause error
}

func (w *wrapped) Error() string {
	return w.msg + ": " + w.cause.Error()
}

func (w *wrapped) Unwrap() error {
	return w.cause
}

// New returns an error with the supplied message and code.
func New(code codes.Code, message string) error {
	return &planError{code: code, msg: message}
}

// Errorf formats according to a format specifier and returns an error with the code.
func Errorf(code codes.Code, format string, args ...any) error {
	return &planError{code: code, msg: fmt.Sprintf(format, args...)}
}

// NewErrorf is like Errorf but also records a State.
func NewErrorf(code codes.Code, state State, format string, args ...any) error {
	return &planError{code: code, state: state, msg: fmt.Sprintf(format, args...)}
}

// Wrap returns an error annotating err with message. If err is nil, Wrap returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &wrapped{msg: message, cause: err}
}

// Wrapf returns an error annotating err with the format specifier. If err is nil, Wrapf returns nil.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &wrapped{msg: fmt.Sprintf(format, args...), cause: err}
}

// Code returns the code of the innermost error that has one.
func Code(err error) codes.Code {
	if err == nil {
		return codes.OK
	}
	var pe *planError
	if errors.As(err, &pe) {
		return pe.code
	}
	switch {
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	}
	return codes.Unknown
}

// ErrState returns the State of err, or Undefined.
func ErrState(err error) State {
	var pe *planError
	if errors.As(err, &pe) {
		return pe.state
	}
	return Undefined
}

// RootCause returns the innermost error of the chain.
func RootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}
