// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package exclude

import (
	"fmt"
	"strings"

	"daml.com/x/artifacts/pkg/coordinates"
	"daml.com/x/artifacts/pkg/metadata"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/goccy/go-yaml"
	"github.com/samber/lo"
)

// Spec decides whether an artifact of a module is excluded. Implementations must be pure.
type Spec interface {
	ExcludesArtifact(module coordinates.ModuleIdentifier, artifact metadata.ArtifactName) bool
	String() string
}

type nothing struct{}

func (nothing) ExcludesArtifact(coordinates.ModuleIdentifier, metadata.ArtifactName) bool {
	return false
}

func (nothing) String() string {
	return "nothing"
}

// Nothing excludes no artifact at all
func Nothing() Spec {
	return nothing{}
}

// Rule matches artifacts by glob patterns. Empty fields match anything.
// A rule that sets none of the artifact fields only excludes modules from the graph,
// which is the graph solver's business, so it never excludes an artifact.
type Rule struct {
	Group     string `yaml:"group,omitempty"`
	Module    string `yaml:"module,omitempty"`
	Artifact  string `yaml:"artifact,omitempty"`
	Type      string `yaml:"type,omitempty"`
	Extension string `yaml:"extension,omitempty"`
}

func (r Rule) patterns() []string {
	return []string{r.Group, r.Module, r.Artifact, r.Type, r.Extension}
}

func (r Rule) Validate() error {
	for _, p := range r.patterns() {
		if p != "" && !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid exclude pattern %q", p)
		}
	}
	return nil
}

func (r Rule) targetsArtifacts() bool {
	return r.Artifact != "" || r.Type != "" || r.Extension != ""
}

func (r Rule) ExcludesArtifact(module coordinates.ModuleIdentifier, artifact metadata.ArtifactName) bool {
	if !r.targetsArtifacts() {
		return false
	}
	return matches(r.Group, module.Group) &&
		matches(r.Module, module.Name) &&
		matches(r.Artifact, artifact.Name) &&
		matches(r.Type, artifact.EffectiveType()) &&
		matches(r.Extension, artifact.Extension)
}

func matches(pattern, value string) bool {
	if pattern == "" {
		return true
	}
	// patterns are validated upfront, so an error here can only mean no match
	ok, _ := doublestar.Match(pattern, value)
	return ok
}

func (r Rule) String() string {
	field := func(name, v string) string {
		return lo.Ternary(v == "", "", name+"="+v)
	}
	return "rule(" + strings.Join(lo.Compact([]string{
		field("group", r.Group),
		field("module", r.Module),
		field("artifact", r.Artifact),
		field("type", r.Type),
		field("extension", r.Extension),
	}), ", ") + ")"
}

func (r *Rule) UnmarshalYAML(data []byte) error {
	type alias Rule
	var a alias
	if err := yaml.UnmarshalWithOptions(data, &a, yaml.Strict()); err != nil {
		return err
	}
	rule := Rule(a)
	if err := rule.Validate(); err != nil {
		return err
	}
	*r = rule
	return nil
}

var _ yaml.BytesUnmarshaler = (*Rule)(nil)

type anyOf []Spec

// AnyOf excludes an artifact as soon as one of specs does
func AnyOf(specs ...Spec) Spec {
	specs = lo.Filter(specs, func(s Spec, _ int) bool {
		_, isNothing := s.(nothing)
		return s != nil && !isNothing
	})
	switch len(specs) {
	case 0:
		return Nothing()
	case 1:
		return specs[0]
	}
	return anyOf(specs)
}

func (a anyOf) ExcludesArtifact(module coordinates.ModuleIdentifier, artifact metadata.ArtifactName) bool {
	return lo.SomeBy(a, func(s Spec) bool {
		return s.ExcludesArtifact(module, artifact)
	})
}

func (a anyOf) String() string {
	return "anyOf(" + strings.Join(lo.Map(a, func(s Spec, _ int) string { return s.String() }), ", ") + ")"
}

// Rules combines rules into a single spec
func Rules(rules ...Rule) Spec {
	return AnyOf(lo.Map(rules, func(r Rule, _ int) Spec { return r })...)
}
