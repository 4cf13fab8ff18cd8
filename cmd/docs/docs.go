// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	cmd "daml.com/x/artifacts/cmd/dpm-artifacts/cmd"
	"daml.com/x/artifacts/pkg/cli"
	"daml.com/x/artifacts/pkg/config"
	"daml.com/x/artifacts/pkg/utils"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

const (
	markdown = "md"
	rst      = "rst"
)

var formats = []string{markdown, rst}

func main() {
	ctx, cancelFn := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer cancelFn()

	if err := getDocsCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func getDocsCmd() *cobra.Command {
	var format string

	docsCmd := &cobra.Command{
		Use:   "docs <output dir>",
		Short: "generate the " + cmd.Name + " CLI commands reference",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(_ *cobra.Command, _ []string) error {
			if !lo.Contains(formats, format) {
				return fmt.Errorf("unsupported format %q, expected one of %s", format, strings.Join(formats, ", "))
			}
			return nil
		},
		RunE: func(c *cobra.Command, args []string) error {
			dir := args[0]
			if err := genDocs(c.Context(), dir, format); err != nil {
				c.SilenceUsage = true
				return err
			}
			c.Printf("generated %s reference at %s\n", format, dir)
			return nil
		},
	}

	docsCmd.Flags().StringVar(&format, "format", markdown, "reference format, one of "+strings.Join(formats, ", "))
	return docsCmd
}

func genDocs(ctx context.Context, dir, format string) error {
	tmp, deleteFn, err := utils.MkdirTemp("", "")
	if err != nil {
		return err
	}
	defer func() { _ = deleteFn() }()

	// keep the user's config out of the generated defaults
	if err := os.Setenv(config.HomeEnvVar, tmp); err != nil {
		return err
	}

	root, err := cmd.RootCmd(ctx, &cli.App{OsArgs: []string{cmd.Name}})
	if err != nil {
		return err
	}
	root.DisableAutoGenTag = true

	if err := utils.EnsureDirs(dir); err != nil {
		return err
	}

	ref := newReference(root, format)
	if format == rst {
		err = doc.GenReSTTreeCustom(root, dir, ref.rstHeader, rstLink)
	} else {
		err = doc.GenMarkdownTreeCustom(root, dir, ref.frontMatter, func(s string) string { return s })
	}
	if err != nil {
		return err
	}
	return utils.WriteFileAtomic(filepath.Join(dir, "index."+format), []byte(ref.index()))
}

// reference maps the generated files back to their commands
type reference struct {
	root   *cobra.Command
	format string
	files  map[string]*cobra.Command
}

func newReference(root *cobra.Command, format string) *reference {
	r := &reference{root: root, format: format, files: map[string]*cobra.Command{}}
	var walk func(c *cobra.Command)
	walk = func(c *cobra.Command) {
		r.files[r.fileName(c)] = c
		lo.ForEach(c.Commands(), func(sub *cobra.Command, _ int) { walk(sub) })
	}
	walk(root)
	return r
}

// fileName follows cobra/doc's naming
func (r *reference) fileName(c *cobra.Command) string {
	return strings.ReplaceAll(c.CommandPath(), " ", "_") + "." + r.format
}

func (r *reference) title(filename string) string {
	base := filepath.Base(filename)
	if c, ok := r.files[base]; ok {
		return c.CommandPath()
	}
	return strings.ReplaceAll(strings.TrimSuffix(base, "."+r.format), "_", " ")
}

// add a Jekyll/Just-the-Docs front-matter block
func (r *reference) frontMatter(filename string) string {
	return fmt.Sprintf(`---
layout: default
title: %s
parent: CLI reference
---

`, r.title(filename))
}

func (r *reference) rstHeader(filename string) string {
	title := r.title(filename)
	return fmt.Sprintf("%s\n%s\n\n", title, strings.Repeat("=", len(title)))
}

func rstLink(name, ref string) string {
	return fmt.Sprintf(":ref:`%s <%s>`", name, ref)
}

type section struct {
	title    string
	commands []*cobra.Command
}

// sections lists the documented subcommands per command group, ungrouped ones last
func (r *reference) sections() []section {
	documented := lo.Filter(r.root.Commands(), func(c *cobra.Command, _ int) bool {
		return c.IsAvailableCommand() && !c.IsAdditionalHelpTopicCommand()
	})
	sections := lo.Map(r.root.Groups(), func(g *cobra.Group, _ int) section {
		return section{
			title:    g.Title,
			commands: lo.Filter(documented, func(c *cobra.Command, _ int) bool { return c.GroupID == g.ID }),
		}
	})
	sections = append(sections, section{
		title:    "Other Commands",
		commands: lo.Filter(documented, func(c *cobra.Command, _ int) bool { return c.GroupID == "" }),
	})
	return lo.Filter(sections, func(s section, _ int) bool { return len(s.commands) > 0 })
}

func (r *reference) index() string {
	var b strings.Builder
	if r.format == rst {
		b.WriteString("CLI Reference\n=============\n\n")
		fmt.Fprintf(&b, ".. toctree::\n   :maxdepth: 1\n\n   %s\n\n", strings.TrimSuffix(r.fileName(r.root), ".rst"))
		for _, s := range r.sections() {
			fmt.Fprintf(&b, ".. toctree::\n   :maxdepth: 1\n   :caption: %s:\n\n", s.title)
			for _, c := range s.commands {
				fmt.Fprintf(&b, "   %s\n", strings.TrimSuffix(r.fileName(c), ".rst"))
			}
			b.WriteString("\n")
		}
		return b.String()
	}

	b.WriteString("---\nlayout: default\ntitle: CLI reference\nhas_children: true\n---\n\n")
	fmt.Fprintf(&b, "# %s\n\n%s. See [%s](%s).\n", r.root.Name(), r.root.Short, r.root.Name(), r.fileName(r.root))
	for _, s := range r.sections() {
		fmt.Fprintf(&b, "\n## %s\n\n", s.title)
		for _, c := range s.commands {
			fmt.Fprintf(&b, "- [%s](%s): %s\n", c.CommandPath(), r.fileName(c), c.Short)
		}
	}
	return b.String()
}
