// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package graph

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"daml.com/x/artifacts/pkg/attributes"
	"daml.com/x/artifacts/pkg/capability"
	"daml.com/x/artifacts/pkg/coordinates"
	"daml.com/x/artifacts/pkg/exclude"
	"daml.com/x/artifacts/pkg/metadata"
	"daml.com/x/artifacts/pkg/schema"
	"daml.com/x/artifacts/pkg/utils"
	"github.com/goccy/go-yaml"
	"github.com/samber/lo"
)

const (
	Version = "v1"
	Kind    = "ResolutionGraph"

	// legacy variants live next to the regular ones, so their identities get a namespace of their own
	legacyPrefix = "legacy:"
)

var ErrMalformedGraph = errors.New("malformed resolution graph")

// Graph is a dependency graph whose components have already been selected:
// what's left is picking the artifacts of every node.
type Graph struct {
	schema.ManifestMeta `yaml:",inline"`
	Components          []*Component      `yaml:"components"`
	Files               []*FileDependency `yaml:"files,omitempty"`
	Nodes               []*Node           `yaml:"nodes"`

	components map[string]*Metadata
	files      map[string]*metadata.LocalFileDependencyMetadata
}

type Component struct {
	// group:name:version
	Module         string                `yaml:"module"`
	Attributes     attributes.Attributes `yaml:"attributes,omitempty"`
	Schema         attributes.Schema     `yaml:"schema,omitempty"`
	Sources        []string              `yaml:"sources,omitempty"`
	Variants       []*Variant            `yaml:"variants,omitempty"`
	LegacyVariants []*Variant            `yaml:"legacy-variants,omitempty"`
}

type Variant struct {
	Name string `yaml:"name"`
	// anonymous variants have no stable identity and are never shared
	Anonymous    bool                    `yaml:"anonymous,omitempty"`
	Attributes   attributes.Attributes   `yaml:"attributes,omitempty"`
	Artifacts    []metadata.ArtifactName `yaml:"artifacts,omitempty"`
	Capabilities []capability.Capability `yaml:"capabilities,omitempty"`
}

type FileDependency struct {
	Name  string `yaml:"name"`
	Owner string `yaml:"owner,omitempty"`
	// relative to the graph file
	Files      []string              `yaml:"files"`
	Attributes attributes.Attributes `yaml:"attributes,omitempty"`
}

// Node is one edge target of the graph: a component, or a file dependency, and how it's consumed
type Node struct {
	Name      string         `yaml:"name"`
	Component string         `yaml:"component,omitempty"`
	Files     string         `yaml:"files,omitempty"`
	Exclude   []exclude.Rule `yaml:"exclude,omitempty"`
	// layered over the attributes of every selected variant
	Overrides attributes.Attributes `yaml:"overrides,omitempty"`
	// only variants compatible with these are kept
	Request attributes.Attributes `yaml:"request,omitempty"`
	// explicit artifacts bypass the component's variants
	Artifacts []metadata.ArtifactName `yaml:"artifacts,omitempty"`
}

func (n *Node) Exclusions() exclude.Spec {
	return exclude.Rules(n.Exclude...)
}

// Metadata is a component of the graph as the resolver consumes it
type Metadata struct {
	Component      *metadata.ComponentResolveMetadata
	Variants       []*metadata.VariantResolveMetadata
	LegacyVariants []*metadata.VariantResolveMetadata
}

func Load(path string) (*Graph, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return Parse(bytes, filepath.Dir(abs))
}

// Parse decodes a graph manifest. Relative file dependency paths are resolved against baseDir.
func Parse(data []byte, baseDir string) (*Graph, error) {
	g := &Graph{}
	if err := yaml.UnmarshalWithOptions(data, g, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedGraph, err)
	}
	if err := schema.Meta(Kind, Version).ValidateSchema(g.ManifestMeta); err != nil {
		return nil, err
	}
	if err := g.compile(baseDir); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedGraph, err)
	}
	return g, nil
}

func (g *Graph) Metadata(module string) (*Metadata, bool) {
	m, ok := g.components[module]
	return m, ok
}

func (g *Graph) FileDependency(name string) (*metadata.LocalFileDependencyMetadata, bool) {
	f, ok := g.files[name]
	return f, ok
}

func (g *Graph) Modules() []string {
	return lo.Map(g.Components, func(c *Component, _ int) string { return c.Module })
}

func (g *Graph) compile(baseDir string) error {
	var errs []error
	g.components = map[string]*Metadata{}
	g.files = map[string]*metadata.LocalFileDependencyMetadata{}

	for _, c := range g.Components {
		m, err := c.compile()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if _, ok := g.components[c.Module]; ok {
			errs = append(errs, fmt.Errorf("component %q is declared more than once", c.Module))
			continue
		}
		g.components[c.Module] = m
	}

	for _, f := range g.Files {
		switch {
		case f.Name == "":
			errs = append(errs, fmt.Errorf("file dependency is missing a 'name'"))
		case len(f.Files) == 0:
			errs = append(errs, fmt.Errorf("file dependency %q has no files", f.Name))
		case g.files[f.Name] != nil:
			errs = append(errs, fmt.Errorf("file dependency %q is declared more than once", f.Name))
		default:
			g.files[f.Name] = &metadata.LocalFileDependencyMetadata{
				Owner: coordinates.ComponentIdentifier(f.Owner),
				Files: lo.Map(f.Files, func(p string, _ int) string {
					return utils.ResolvePath(baseDir, p)
				}),
				Attributes: f.Attributes,
			}
		}
	}

	seen := map[string]bool{}
	for i, n := range g.Nodes {
		if n.Name == "" {
			errs = append(errs, fmt.Errorf("node #%d is missing a 'name'", i+1))
			continue
		}
		if seen[n.Name] {
			errs = append(errs, fmt.Errorf("node %q is declared more than once", n.Name))
		}
		seen[n.Name] = true

		switch {
		case (n.Component == "") == (n.Files == ""):
			errs = append(errs, fmt.Errorf("node %q must reference exactly one of 'component' or 'files'", n.Name))
		case n.Files != "" && g.files[n.Files] == nil:
			errs = append(errs, fmt.Errorf("node %q references unknown file dependency %q", n.Name, n.Files))
		case n.Files != "" && (len(n.Artifacts) > 0 || len(n.Exclude) > 0):
			errs = append(errs, fmt.Errorf("node %q: file dependencies take neither 'artifacts' nor 'exclude'", n.Name))
		case n.Component != "" && g.components[n.Component] == nil:
			errs = append(errs, fmt.Errorf("node %q references unknown component %q", n.Name, n.Component))
		}
	}
	return errors.Join(errs...)
}

func (c *Component) compile() (*Metadata, error) {
	id, err := coordinates.ParseModuleVersion(c.Module)
	if err != nil {
		return nil, err
	}
	component := metadata.NewComponent(id)
	component.Attributes = c.Attributes
	component.Schema = c.Schema
	component.Sources = lo.Map(c.Sources, func(s string, _ int) metadata.ModuleSource {
		return metadata.ModuleSource{Repository: s}
	})

	var errs []error
	names := map[string]bool{}
	toMetadata := func(prefix string) func(v *Variant, _ int) *metadata.VariantResolveMetadata {
		return func(v *Variant, _ int) *metadata.VariantResolveMetadata {
			if v.Name == "" {
				errs = append(errs, fmt.Errorf("component %q has a variant without a 'name'", c.Module))
			} else if names[prefix+v.Name] {
				errs = append(errs, fmt.Errorf("component %q declares variant %q more than once", c.Module, v.Name))
			}
			names[prefix+v.Name] = true

			attrs := v.Attributes
			m := &metadata.VariantResolveMetadata{
				Name:       v.Name,
				Attributes: &attrs,
				Artifacts: lo.Map(v.Artifacts, func(a metadata.ArtifactName, _ int) metadata.ComponentArtifactMetadata {
					return metadata.NewArtifact(component.ID, a)
				}),
				Capabilities: v.Capabilities,
			}
			if !v.Anonymous {
				m.ID = &metadata.VariantIdentifier{Component: component.ID, Name: prefix + v.Name}
			}
			return m
		}
	}

	m := &Metadata{
		Component:      component,
		Variants:       lo.Map(c.Variants, toMetadata("")),
		LegacyVariants: lo.Map(c.LegacyVariants, toMetadata(legacyPrefix)),
	}
	return m, errors.Join(errs...)
}
