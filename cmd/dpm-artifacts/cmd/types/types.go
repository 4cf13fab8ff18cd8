// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"slices"

	"daml.com/x/artifacts/pkg/artifacttype"
	"daml.com/x/artifacts/pkg/builtincommand"
	"daml.com/x/artifacts/pkg/config"
	"github.com/spf13/cobra"
)

func Cmd(config *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   string(builtincommand.Types),
		Short: "list the registered artifact types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := artifacttype.New(config.ArtifactTypes...)
			if err != nil {
				return err
			}
			names := registry.Types()
			slices.Sort(names)
			for _, n := range names {
				cmd.Println(n)
			}
			return nil
		},
	}
}
