// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package variants

import (
	"daml.com/x/artifacts/cmd/dpm-artifacts/cmd/resolve"
	"daml.com/x/artifacts/pkg/builtincommand"
	"daml.com/x/artifacts/pkg/config"
	"daml.com/x/artifacts/pkg/graph"
	"daml.com/x/artifacts/pkg/render"
	"github.com/spf13/cobra"
)

func Cmd(config *config.Config) *cobra.Command {
	var graphPath string
	var conflicts bool

	cmd := &cobra.Command{
		Use:   string(builtincommand.Variants) + " <node>",
		Short: "show the variants selected for a graph node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := graph.ResolveFile(cmd.Context(), config, graphPath, graph.WalkOptions{Nodes: args})
			if err != nil {
				return resolve.GraphError(cmd, err)
			}
			if err := resolve.CheckFailures(cmd, report); err != nil {
				return err
			}

			cmd.Println(render.Variants(report.Nodes[args[0]]))
			if conflicts && len(report.Conflicts) > 0 {
				cmd.Println(render.Conflicts(report.Conflicts))
			}
			return nil
		},
	}

	resolve.GraphFlag(cmd, &graphPath)
	cmd.Flags().BoolVar(&conflicts, "conflicts", false, "also show the capability conflicts of the selected variants")
	return cmd
}
