// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package repos

import (
	"daml.com/x/artifacts/pkg/builtincommand"
	"daml.com/x/artifacts/pkg/config"
	"daml.com/x/artifacts/pkg/render"
	"github.com/spf13/cobra"
)

func Cmd(config *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   string(builtincommand.Repos),
		Short: "list the configured repositories, in lookup order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(config.Repositories) == 0 {
				cmd.PrintErrln("no repositories configured")
				return nil
			}
			cmd.Println(render.Repositories(config.Repositories))
			return nil
		},
	}
}
