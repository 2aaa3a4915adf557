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

package utils

import (
	"testing"
	"time"

	"go.uber.org/goleak"
)

// EnsureNoLeaks checks for goroutine leaks and fails the test if any are found.
func EnsureNoLeaks(t testing.TB) {
	if t.Failed() {
		return
	}
	if err := ensureNoGoroutines(); err != nil {
		t.Fatal(err)
	}
}

// GetLeaks checks for goroutine leaks and returns an error if any are found.
// One use case is in TestMain()s to ensure that all tests are cleaned up.
func GetLeaks() error {
	return ensureNoGoroutines()
}

func ensureNoGoroutines() error {
	var ignored = []goleak.Option{
		goleak.IgnoreTopFunction("github.com/golang/glog.(*fileSink).flushDaemon"),
		goleak.IgnoreTopFunction("github.com/golang/glog.(*loggingT).flushDaemon"),
		goleak.IgnoreTopFunction("github.com/patrickmn/go-cache.(*janitor).Run"),
		goleak.IgnoreTopFunction("testing.tRunner.func1"),
	}

	var err error
	for i := 0; i < 5; i++ {
		err = goleak.Find(ignored...)
		if err == nil {
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return err
}
