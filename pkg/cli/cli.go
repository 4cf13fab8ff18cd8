// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// App is the process environment a command tree runs in
type App struct {
	Stderr, Stdout, Stdin *os.File
	// must contain at least one argument, namely the binary name, similar to os.Args
	OsArgs []string
}

func (a *App) SetOutputStreams(cmd *cobra.Command) {
	cmd.SetOut(a.Stdout)
	cmd.SetErr(a.Stderr)
	cmd.SetIn(a.Stdin)

	lo.ForEach(cmd.Commands(), func(sub *cobra.Command, _ int) {
		a.SetOutputStreams(sub)
	})
}
