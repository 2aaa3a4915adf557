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
	"encoding/hex"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"google.golang.org/grpc/codes"

	"github.com/yiguolei/crate/go/planerrors"
)

func newViewsCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "views --fixture <file> [--format json|binary]",
		Short: "Prints the views of a fixture the way they are stored.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runViews(cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.viewsFormat, "format", "json", "output format: json or binary")
	return cmd
}

func runViews(w io.Writer, opts *options) error {
	fx, err := loadFixture(opts)
	if err != nil {
		return err
	}
	stored, err := fx.StoredViews()
	if err != nil {
		return err
	}
	switch opts.viewsFormat {
	case "json":
		data, err := stored.MarshalJSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	case "binary":
		data, err := stored.MarshalBinary()
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(w, hex.Dump(data))
		return err
	}
	return planerrors.Errorf(codes.InvalidArgument, "unknown format %q, expected json or binary", opts.viewsFormat)
}
