// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package resolution

import (
	"slices"

	"daml.com/x/artifacts/pkg/artifact"
	"daml.com/x/artifacts/pkg/attributes"
	"daml.com/x/artifacts/pkg/capability"
	"daml.com/x/artifacts/pkg/schema"
	"daml.com/x/artifacts/pkg/session"
	"daml.com/x/artifacts/pkg/variant"
	"github.com/samber/lo"
)

const (
	Version = "v1"
	Kind    = "Resolution"
)

// Report is the outcome of resolving every node of a graph
type Report struct {
	schema.ManifestMeta `yaml:",inline"`
	Nodes               Nodes                 `yaml:"nodes"`
	Conflicts           []*Conflict           `yaml:"conflicts,omitempty"`
	Cache               *session.SessionStats `yaml:"cache,omitempty"`
}

func NewReport() *Report {
	return &Report{
		ManifestMeta: schema.Meta(Kind, Version),
		Nodes:        Nodes{},
	}
}

// Nodes is a <node name> -> Node mapping
type Nodes map[string]*Node

type Node struct {
	Component string             `yaml:"component,omitempty"`
	Selection string             `yaml:"selection,omitempty"`
	Variants  []*Variant         `yaml:"variants,omitempty"`
	Files     []*File            `yaml:"files,omitempty"`
	Errors    []*ResolutionError `yaml:"errors,omitempty"`
}

func (n *Node) Failed() bool {
	return len(n.Errors) > 0
}

type Variant struct {
	Name         string            `yaml:"name"`
	Attributes   map[string]string `yaml:"attributes,omitempty"`
	Capabilities []string          `yaml:"capabilities,omitempty"`
	Artifacts    []string          `yaml:"artifacts,omitempty"`
}

// NewVariant describes v as a consumer sees it, i.e. with attrs instead of the variant's own attributes
func NewVariant(v *variant.ResolvedVariant, attrs attributes.Attributes) *Variant {
	return &Variant{
		Name:       v.DisplayName(),
		Attributes: attrs.AsMap(),
		Capabilities: lo.Map(v.Capabilities().All(), func(c capability.Capability, _ int) string {
			return c.String()
		}),
		Artifacts: lo.Map(v.Artifacts(), func(a *artifact.ResolvableArtifact, _ int) string {
			return a.Name().FileName()
		}),
	}
}

type File struct {
	Artifact string `yaml:"artifact"`
	Variant  string `yaml:"variant,omitempty"`
	Path     string `yaml:"path"`
}

type Conflict struct {
	Capability string   `yaml:"capability"`
	Providers  []string `yaml:"providers"`
	Preferred  string   `yaml:"preferred"`
}

func NewConflict(c capability.Conflict) *Conflict {
	return &Conflict{
		Capability: c.Capability,
		Providers: lo.Map(c.Providers, func(p capability.Provider, _ int) string {
			return p.Owner.String()
		}),
		Preferred: c.Preferred.Owner.String(),
	}
}

// Failed lists the names of the nodes that failed to resolve, sorted
func (r *Report) Failed() []string {
	names := lo.Keys(lo.PickBy(r.Nodes, func(_ string, n *Node) bool {
		return n.Failed()
	}))
	slices.Sort(names)
	return names
}
