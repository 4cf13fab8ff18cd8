// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"daml.com/x/artifacts/cmd/dpm-artifacts/cmd"
	"daml.com/x/artifacts/pkg/cli"
)

func main() {
	ctx, cancelFn := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer cancelFn()

	app := cli.App{
		Stderr: os.Stderr,
		Stdout: os.Stdout,
		Stdin:  os.Stdin,
		OsArgs: os.Args,
	}
	root, err := cmd.RootCmd(ctx, &app)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
