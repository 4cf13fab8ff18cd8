// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package capability

import (
	"slices"
	"strings"

	"daml.com/x/artifacts/pkg/coordinates"
	"github.com/samber/lo"
)

// Capability is a named and versioned feature provided by a variant
type Capability struct {
	Group   string `yaml:"group"`
	Name    string `yaml:"name"`
	Version string `yaml:"version,omitempty"`
}

func (c Capability) Key() string {
	return c.Group + ":" + c.Name
}

func (c Capability) String() string {
	if c.Version == "" {
		return c.Key()
	}
	return c.Key() + ":" + c.Version
}

// DefaultForComponent is the capability every component provides implicitly: its own coordinates
func DefaultForComponent(id coordinates.ModuleVersionIdentifier) Capability {
	return Capability{Group: id.Group, Name: id.Name, Version: id.Version}
}

// Capabilities is an immutable, ordered capability set
type Capabilities struct {
	items []Capability
}

func Of(items ...Capability) Capabilities {
	return Capabilities{items: slices.Clone(items)}
}

// WithImplicit copies declared capabilities, or synthesizes the owner's default capability when there are none
func WithImplicit(declared []Capability, owner coordinates.ModuleVersionIdentifier) Capabilities {
	if len(declared) == 0 {
		return Of(DefaultForComponent(owner))
	}
	return Of(declared...)
}

func (c Capabilities) All() []Capability {
	return slices.Clone(c.items)
}

func (c Capabilities) Len() int {
	return len(c.items)
}

func (c Capabilities) IsEmpty() bool {
	return len(c.items) == 0
}

func (c Capabilities) Contains(capability Capability) bool {
	return lo.Contains(c.items, capability)
}

func (c Capabilities) String() string {
	return "[" + strings.Join(lo.Map(c.items, func(c Capability, _ int) string { return c.String() }), ", ") + "]"
}
