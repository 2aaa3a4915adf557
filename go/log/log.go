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

// Package log is the logging front end of the planner.
//
// Messages go to glog unless --log-fmt is set on the command line, in which
// case they are written as structured slog records to stderr. Call sites always
// use the key/value style of slog:
//
//	log.DebugS("collapsed operator", "operator", name, "rule", rule)
package log

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"github.com/golang/glog"
	"github.com/spf13/pflag"

	"github.com/yiguolei/crate/go/utils"
)

// Flush ensures any pending I/O is written.
var Flush = glog.Flush

var (
	logFormat = "json"
	logLevel  = "info"

	// structured is set once slog has been installed as the backend.
	structured atomic.Bool
)

// RegisterFlags installs the logging flags on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	utils.SetFlagStringVar(fs, &logFormat, "log-fmt", logFormat, "structured logging output: json or logfmt; glog is used when unset")
	utils.SetFlagStringVar(fs, &logLevel, "log-level", logLevel, "minimum structured logging level: debug, info, warn or error")
}

// Init switches to structured logging if --log-fmt was given on fs.
func Init(fs *pflag.FlagSet) error {
	if fs == nil {
		return nil
	}
	if f := fs.Lookup("log-fmt"); f == nil || !f.Changed {
		return nil
	}
	level, err := parseLevel(logLevel)
	if err != nil {
		return err
	}
	handler, err := newHandler(logFormat, &slog.HandlerOptions{AddSource: true, Level: level})
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(handler))
	structured.Store(true)
	return nil
}

func parseLevel(level string) (slog.Level, error) {
	var l slog.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		l = slog.LevelDebug
	case "info":
		l = slog.LevelInfo
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		return l, fmt.Errorf("invalid log-level %q: expected debug, info, warn or error", level)
	}
	return l, nil
}

func newHandler(format string, opts *slog.HandlerOptions) (slog.Handler, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return slog.NewJSONHandler(os.Stderr, opts), nil
	case "logfmt":
		return slog.NewTextHandler(os.Stderr, opts), nil
	}
	return nil, fmt.Errorf("invalid log-fmt %q: expected json or logfmt", format)
}

// SetLogger installs logger as the structured backend and returns a function
// that restores the previous state. Used by tests to capture output.
func SetLogger(logger *slog.Logger) func() {
	if logger == nil {
		return func() {}
	}
	prevStructured := structured.Load()
	prevDefault := slog.Default()
	slog.SetDefault(logger)
	structured.Store(true)
	return func() {
		slog.SetDefault(prevDefault)
		structured.Store(prevStructured)
	}
}
