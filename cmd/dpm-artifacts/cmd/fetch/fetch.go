// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package fetch

import (
	"slices"

	"daml.com/x/artifacts/cmd/dpm-artifacts/cmd/resolve"
	"daml.com/x/artifacts/pkg/builtincommand"
	"daml.com/x/artifacts/pkg/config"
	"daml.com/x/artifacts/pkg/graph"
	"daml.com/x/artifacts/pkg/render"
	"github.com/fatih/color"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func Cmd(config *config.Config) *cobra.Command {
	var graphPath string

	cmd := &cobra.Command{
		Use:   string(builtincommand.Fetch) + " [node...]",
		Short: "materialize the files of graph nodes, all of them by default",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := graph.ResolveFile(cmd.Context(), config, graphPath, graph.WalkOptions{Fetch: true, Nodes: args})
			if err != nil {
				return resolve.GraphError(cmd, err)
			}

			names := lo.Keys(report.Nodes)
			slices.Sort(names)
			for _, name := range names {
				node := report.Nodes[name]
				if node.Failed() {
					continue
				}
				cmd.Println(color.New(color.Bold).Sprint(name))
				cmd.Print(render.Files(node.Files))
			}
			return resolve.CheckFailures(cmd, report)
		},
	}

	resolve.GraphFlag(cmd, &graphPath)
	return cmd
}
