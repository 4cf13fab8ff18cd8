// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package resolve

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"daml.com/x/artifacts/pkg/builtincommand"
	"daml.com/x/artifacts/pkg/config"
	"daml.com/x/artifacts/pkg/graph"
	"daml.com/x/artifacts/pkg/render"
	"daml.com/x/artifacts/pkg/resolution"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
)

var ErrUnresolvedNodes = errors.New("some graph nodes failed to resolve")

// GraphFlag is the graph file flag shared by every command walking a graph
func GraphFlag(cmd *cobra.Command, path *string) {
	cmd.Flags().StringVarP(path, "file", "f", "", "(required) path to the resolution graph")
	_ = cmd.MarkFlagRequired("file")
}

// GraphError passes on the error of a graph that couldn't be walked. Coded errors say what's wrong with the
// graph file, usage isn't printed for them.
func GraphError(cmd *cobra.Command, err error) error {
	var resErr *resolution.ResolutionError
	if errors.As(err, &resErr) {
		cmd.SilenceUsage = true
	}
	return err
}

// CheckFailures prints the errors of failed nodes to stderr and reports whether any failed
func CheckFailures(cmd *cobra.Command, report *resolution.Report) error {
	failed := report.Failed()
	if len(failed) == 0 {
		return nil
	}
	cmd.PrintErr(render.Errors(report))
	cmd.SilenceUsage = true
	return fmt.Errorf("%w: %s", ErrUnresolvedNodes, strings.Join(failed, ", "))
}

func Cmd(config *config.Config) *cobra.Command {
	var graphPath string
	var fetch bool

	cmd := &cobra.Command{
		Use:   string(builtincommand.Resolve) + " [node...]",
		Short: "select the artifacts of every node of a resolution graph",
		Long: `select the artifacts of every node of a resolution graph

	the resolution report is printed as yaml. Nodes that fail to resolve are listed in
	the report with their error, and make the command exit with a non-zero status.
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := graph.ResolveFile(cmd.Context(), config, graphPath, graph.WalkOptions{Fetch: fetch, Nodes: args})
			if err != nil {
				return GraphError(cmd, err)
			}

			bytes, err := yaml.Marshal(report)
			if err != nil {
				slog.ErrorContext(cmd.Context(), "failed to marshal resolution report", "error", err)
				return err
			}
			cmd.Print(string(bytes))
			return CheckFailures(cmd, report)
		},
	}

	GraphFlag(cmd, &graphPath)
	cmd.Flags().BoolVar(&fetch, "fetch", false, "also materialize the files of the selected variants")
	return cmd
}
