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

package log

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/golang/glog"
)

// callerSkip skips runtime.Callers, emit and the exported wrapper.
const callerSkip = 3

func emit(level slog.Level, msg string, args ...any) {
	if !structured.Load() {
		toGlog(level, msg, args)
		return
	}
	logger := slog.Default()
	ctx := context.Background()
	if !logger.Enabled(ctx, level) {
		return
	}
	var pcs [1]uintptr
	runtime.Callers(callerSkip, pcs[:])
	record := slog.NewRecord(time.Now(), level, msg, pcs[0])
	record.Add(args...)
	_ = logger.Handler().Handle(ctx, record)
}

// toGlog prints the message followed by the key/value pairs. It is one frame
// deeper than runtime.Callers in emit, so the same skip count applies.
func toGlog(level slog.Level, msg string, args []any) {
	const depth = callerSkip
	line := append([]any{msg}, args...)
	switch {
	case level < slog.LevelInfo:
		if glog.V(1) {
			glog.InfoDepth(depth, line...)
		}
	case level < slog.LevelWarn:
		glog.InfoDepth(depth, line...)
	case level < slog.LevelError:
		glog.WarningDepth(depth, line...)
	default:
		glog.ErrorDepth(depth, line...)
	}
}

// Enabled reports whether a message at level would be written.
// Without structured logging, debug messages need glog verbosity 1.
func Enabled(level slog.Level) bool {
	if structured.Load() {
		return slog.Default().Enabled(context.Background(), level)
	}
	if level < slog.LevelInfo {
		return bool(glog.V(1))
	}
	return true
}

func DebugS(msg string, args ...any) { emit(slog.LevelDebug, msg, args...) }
func InfoS(msg string, args ...any)  { emit(slog.LevelInfo, msg, args...) }
func WarnS(msg string, args ...any)  { emit(slog.LevelWarn, msg, args...) }
func ErrorS(msg string, args ...any) { emit(slog.LevelError, msg, args...) }
