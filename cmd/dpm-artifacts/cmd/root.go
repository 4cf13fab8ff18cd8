// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"strings"

	"daml.com/x/artifacts/cmd/dpm-artifacts/cmd/fetch"
	"daml.com/x/artifacts/cmd/dpm-artifacts/cmd/repos"
	"daml.com/x/artifacts/cmd/dpm-artifacts/cmd/resolve"
	"daml.com/x/artifacts/cmd/dpm-artifacts/cmd/types"
	"daml.com/x/artifacts/cmd/dpm-artifacts/cmd/variants"
	versionCmd "daml.com/x/artifacts/cmd/dpm-artifacts/cmd/version"
	"daml.com/x/artifacts/pkg/builtincommand"
	"daml.com/x/artifacts/pkg/cli"
	"daml.com/x/artifacts/pkg/config"
	"daml.com/x/artifacts/pkg/logging"
	"daml.com/x/artifacts/pkg/version"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
)

const (
	Name = "dpm-artifacts"

	resolutionGroupId = "resolution"
	configGroupId     = "config"
)

func RootCmd(ctx context.Context, app *cli.App) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   Name,
		Short: "select and fetch the artifacts of a resolved dependency graph",
	}

	defer app.SetOutputStreams(cmd)

	if len(app.OsArgs) == 0 {
		return nil, fmt.Errorf("cli.App.OsArgs must contain at least one entry similar to os.Args")
	}
	cmd.SetArgs(shorthand(app.OsArgs))

	cmd.AddGroup(&cobra.Group{
		ID:    resolutionGroupId,
		Title: "Resolution Commands",
	})
	cmd.AddGroup(&cobra.Group{
		ID:    configGroupId,
		Title: "Configuration Commands",
	})

	if err := logging.InitLogging(); err != nil {
		return nil, err
	}

	cfg, err := config.Get()
	if err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirs(); err != nil {
		return nil, err
	}

	cmd.AddCommand(
		withGroup(resolve.Cmd(cfg), resolutionGroupId),
		withGroup(variants.Cmd(cfg), resolutionGroupId),
		withGroup(fetch.Cmd(cfg), resolutionGroupId),
		withGroup(repos.Cmd(cfg), configGroupId),
		withGroup(types.Cmd(cfg), configGroupId),
		withGroup(versionCmd.Cmd(cfg), configGroupId),
	)

	v, err := yaml.Marshal(version.Get())
	if err != nil {
		return nil, err
	}
	cmd.Version = string(v)
	cmd.SetVersionTemplate("{{.Version}}")

	return cmd, nil
}

func withGroup(cmd *cobra.Command, group string) *cobra.Command {
	cmd.GroupID = group
	return cmd
}

// a lone graph file argument is short for "resolve -f <graph>"
func shorthand(osArgs []string) []string {
	args := osArgs[1:]
	if len(args) == 1 && !builtincommand.IsBuiltinCommand(osArgs) &&
		(strings.HasSuffix(args[0], ".yaml") || strings.HasSuffix(args[0], ".yml")) {
		return []string{string(builtincommand.Resolve), "-f", args[0]}
	}
	return args
}
