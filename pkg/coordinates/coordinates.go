// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package coordinates

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/samber/lo"
)

// ModuleIdentifier is the group:name pair of a module, without a version
type ModuleIdentifier struct {
	Group string `yaml:"group"`
	Name  string `yaml:"name"`
}

func (m ModuleIdentifier) String() string {
	return m.Group + ":" + m.Name
}

type ModuleVersionIdentifier struct {
	Group   string `yaml:"group"`
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

func NewModuleVersion(group, name, version string) ModuleVersionIdentifier {
	return ModuleVersionIdentifier{Group: group, Name: name, Version: version}
}

// ParseModuleVersion parses "group:name:version" coordinates
func ParseModuleVersion(s string) (ModuleVersionIdentifier, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 || lo.Contains(parts, "") {
		return ModuleVersionIdentifier{}, fmt.Errorf("invalid module coordinates %q: expected format group:name:version", s)
	}
	return NewModuleVersion(parts[0], parts[1], parts[2]), nil
}

func (m ModuleVersionIdentifier) Module() ModuleIdentifier {
	return ModuleIdentifier{Group: m.Group, Name: m.Name}
}

func (m ModuleVersionIdentifier) String() string {
	return m.Group + ":" + m.Name + ":" + m.Version
}

// SemVer returns the version as a semantic version, if it is one
func (m ModuleVersionIdentifier) SemVer() (*semver.Version, bool) {
	v, err := semver.NewVersion(m.Version)
	if err != nil {
		return nil, false
	}
	return v, true
}

func (m ModuleVersionIdentifier) IsZero() bool {
	return m == ModuleVersionIdentifier{}
}

// ComponentIdentifier identifies a component in the dependency graph.
// For repository components it is the module version coordinates, for local ones it's a display name.
type ComponentIdentifier string

func ComponentFor(m ModuleVersionIdentifier) ComponentIdentifier {
	return ComponentIdentifier(m.String())
}

func (c ComponentIdentifier) String() string {
	return string(c)
}
