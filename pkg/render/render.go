// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"daml.com/x/artifacts/pkg/config"
	"daml.com/x/artifacts/pkg/resolution"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"
	"github.com/samber/lo"
)

var (
	nameStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	faintStyle  = lipgloss.NewStyle().Faint(true).Italic(true)
	headerStyle = lipgloss.NewStyle().Bold(true)
)

// Variants renders the variants selected for a node, one row per variant
func Variants(node *resolution.Node) string {
	return table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		Headers("VARIANT", "ATTRIBUTES", "CAPABILITIES", "ARTIFACTS").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle()
		}).
		Rows(lo.Map(node.Variants, func(v *resolution.Variant, _ int) []string {
			artifacts := strings.Join(v.Artifacts, ", ")
			if artifacts == "" {
				artifacts = faintStyle.Render("none")
			}
			return []string{
				nameStyle.Render(v.Name),
				attributes(v.Attributes),
				strings.Join(v.Capabilities, ", "),
				artifacts,
			}
		})...).
		String()
}

// Conflicts renders capability conflicts, marking the preferred provider
func Conflicts(conflicts []*resolution.Conflict) string {
	return table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		Rows(lo.FlatMap(conflicts, func(c *resolution.Conflict, _ int) [][]string {
			return lo.Map(c.Providers, func(p string, i int) []string {
				capability, indicator := "", ""
				if i == 0 {
					capability = c.Capability
				}
				if p == c.Preferred {
					indicator = "*"
					p = nameStyle.Render(p)
				}
				return []string{capability, indicator, p}
			})
		})...).
		String()
}

// Files lists materialized files as "<artifact> <path>" lines, colored when the output supports it
func Files(files []*resolution.File) string {
	var sb strings.Builder
	for _, f := range files {
		fmt.Fprintf(&sb, "%s\t%s\n", color.CyanString(f.Artifact), color.GreenString(f.Path))
	}
	return sb.String()
}

// Errors renders the errors of failed nodes, sorted by node name
func Errors(report *resolution.Report) string {
	var sb strings.Builder
	for _, name := range report.Failed() {
		for _, err := range report.Nodes[name].Errors {
			fmt.Fprintf(&sb, "%s: %s %s\n", color.YellowString(name), color.RedString(err.Code), err.Cause)
		}
	}
	return sb.String()
}

// Repositories renders the configured repositories in lookup order
func Repositories(repos []config.Repository) string {
	return table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		Rows(lo.Map(repos, func(r config.Repository, _ int) []string {
			location := r.Path
			if r.Kind == config.OciRepository {
				location = r.Registry
				if r.Insecure {
					location += " " + faintStyle.Render("(insecure)")
				}
			}
			return []string{nameStyle.Render(r.Name), r.Kind, location}
		})...).
		String()
}

func attributes(attrs map[string]string) string {
	return strings.Join(lo.Map(slices.Sorted(maps.Keys(attrs)), func(k string, _ int) string {
		return k + "=" + attrs[k]
	}), ", ")
}
