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

// Package cli implements the planexplain commands.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/yiguolei/crate/go/log"
	"github.com/yiguolei/crate/go/planner"
)

// Root is the planexplain command.
var Root = NewRoot()

type options struct {
	configFile  string
	fixture     string
	planFormat  string
	viewsFormat string
	planner     planner.Config
}

// NewRoot creates the root command with all subcommands attached.
func NewRoot() *cobra.Command {
	opts := &options{planner: planner.DefaultConfig()}
	root := &cobra.Command{
		Use:           "planexplain",
		Short:         "Plans the query of a fixture and explains the result.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := log.Init(cmd.Flags()); err != nil {
				return err
			}
			cfg, err := planner.LoadConfig(cmd.Flags(), opts.configFile)
			if err != nil {
				return err
			}
			opts.planner = cfg
			return nil
		},
	}

	fs := root.PersistentFlags()
	log.RegisterFlags(fs)
	opts.planner.RegisterFlags(fs)
	fs.StringVar(&opts.configFile, "config", "", "optional planner configuration file (yaml, json or toml)")
	fs.StringVar(&opts.fixture, "fixture", "", "YAML file with the tables, views and query to plan")

	root.AddCommand(newPlanCommand(opts), newViewsCommand(opts))
	return root
}
