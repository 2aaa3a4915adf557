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

// Package utils contains helpers to register flags consistently.
//
// Flags are always registered with dashes. When a name is passed with
// underscores, the underscored spelling is registered as a hidden, deprecated
// alias of the dashed flag so older command lines keep working.
package utils

import (
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// flagVariants returns the dashed and underscored spellings of name.
func flagVariants(name string) (dashed, underscored string) {
	return strings.ReplaceAll(name, "_", "-"), strings.ReplaceAll(name, "-", "_")
}

func setFlagVar[T any](fs *pflag.FlagSet, p *T, name string, def T, usage string,
	setFunc func(fs *pflag.FlagSet, p *T, name string, def T, usage string)) {
	dashed, underscored := flagVariants(name)
	setFunc(fs, p, dashed, def, usage)
	if strings.Contains(name, "_") {
		addAlias(fs, dashed, underscored, usage)
	}
}

func addAlias(fs *pflag.FlagSet, dashed, underscored, usage string) {
	f := fs.Lookup(dashed)
	fs.Var(f.Value, underscored, usage)
	_ = fs.MarkHidden(underscored)
	_ = fs.MarkDeprecated(underscored, "use --"+dashed+" instead")
}

func SetFlagIntVar(fs *pflag.FlagSet, p *int, name string, def int, usage string) {
	setFlagVar(fs, p, name, def, usage, (*pflag.FlagSet).IntVar)
}

func SetFlagBoolVar(fs *pflag.FlagSet, p *bool, name string, def bool, usage string) {
	setFlagVar(fs, p, name, def, usage, (*pflag.FlagSet).BoolVar)
}

func SetFlagStringVar(fs *pflag.FlagSet, p *string, name string, def string, usage string) {
	setFlagVar(fs, p, name, def, usage, (*pflag.FlagSet).StringVar)
}

func SetFlagDurationVar(fs *pflag.FlagSet, p *time.Duration, name string, def time.Duration, usage string) {
	setFlagVar(fs, p, name, def, usage, (*pflag.FlagSet).DurationVar)
}

// SetFlagVar registers a flag backed by a custom pflag.Value.
func SetFlagVar(fs *pflag.FlagSet, value pflag.Value, name, usage string) {
	dashed, underscored := flagVariants(name)
	fs.Var(value, dashed, usage)
	if strings.Contains(name, "_") {
		addAlias(fs, dashed, underscored, usage)
	}
}
