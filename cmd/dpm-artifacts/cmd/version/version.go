// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"daml.com/x/artifacts/pkg/builtincommand"
	"daml.com/x/artifacts/pkg/config"
	"daml.com/x/artifacts/pkg/version"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
)

func Cmd(_ *config.Config) *cobra.Command {
	var userAgent bool

	cmd := &cobra.Command{
		Use:   string(builtincommand.Version),
		Short: "show build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if userAgent {
				cmd.Println(config.UserAgent())
				return nil
			}
			bytes, err := yaml.Marshal(version.Get())
			if err != nil {
				return err
			}
			cmd.Print(string(bytes))
			return nil
		},
	}

	cmd.Flags().BoolVar(&userAgent, "user-agent", false, "print the user agent sent to registries instead")
	return cmd
}
